//go:build !windows

package process

import (
	"context"
	"os/exec"
)

// shellCommand wraps cmdline in sh -c so quoting in it is honored.
func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", cmdline)
}
