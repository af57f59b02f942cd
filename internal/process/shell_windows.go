//go:build windows

package process

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand hands cmdline to cmd.exe untouched; Go's argument escaping
// would otherwise mangle the embedded double quotes.
func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cmd")
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: `cmd /C "` + cmdline + `"`}
	return cmd
}
