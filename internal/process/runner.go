// Package process runs command lines through the host shell.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
)

// ExecutionError means the command could not be started at all (shell or
// binary missing, permission denied).
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ExitError is a command that ran but exited non-zero in capture mode.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Runner executes command lines. The zero value uses the process's standard
// streams.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner attached to the process's standard streams
func NewRunner() *Runner {
	return &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Output runs cmdline and returns its combined stdout and stderr. A non-zero
// exit is an *ExitError.
func (r *Runner) Output(ctx context.Context, cmdline string) (string, error) {
	clog.FromContext(ctx).Debug("running command", "cmd", cmdline)

	cmd := shellCommand(ctx, cmdline)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), &ExitError{
				Command:  cmdline,
				ExitCode: exitErr.ExitCode(),
				Output:   string(out),
				Err:      err,
			}
		}
		return string(out), &ExecutionError{Command: cmdline, Err: err}
	}
	return string(out), nil
}

// Stream runs cmdline attached to the runner's streams and returns its exit
// code. A non-zero exit is not an error; only failing to start is.
func (r *Runner) Stream(ctx context.Context, cmdline string) (int, error) {
	clog.FromContext(ctx).Debug("streaming command", "cmd", cmdline)

	cmd := shellCommand(ctx, cmdline)
	cmd.Stdin = r.stdin()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, &ExecutionError{Command: cmdline, Err: err}
	}
	return 0, nil
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
