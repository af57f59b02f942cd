package container

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/jakenelson/with-docker/internal/process"
)

// Inspector determines the operating system an image was built for
type Inspector interface {
	// InspectOS returns the image OS, lower-cased and trimmed
	InspectOS(ctx context.Context, image string) (string, error)
}

// ImageInspectionError means the image metadata could not be read: the
// image is not pulled, the engine is not running or the reference is bad.
type ImageInspectionError struct {
	Image  string
	Output string // raw engine output, if any
	Err    error
}

func (e *ImageInspectionError) Error() string {
	msg := fmt.Sprintf("failed to inspect image %q", e.Image)
	if out := strings.TrimSpace(e.Output); out != "" {
		return msg + ": " + out
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ImageInspectionError) Unwrap() error {
	return e.Err
}

// OutputRunner runs a command line and captures its output
type OutputRunner interface {
	Output(ctx context.Context, cmdline string) (string, error)
}

// CLIInspector asks the docker CLI for the image OS
type CLIInspector struct {
	Runner OutputRunner
}

// NewCLIInspector creates an inspector that shells out to docker inspect
func NewCLIInspector(runner OutputRunner) *CLIInspector {
	return &CLIInspector{Runner: runner}
}

// InspectOS implements Inspector
func (c *CLIInspector) InspectOS(ctx context.Context, image string) (string, error) {
	cmdline := `docker inspect -f "{{ .Os }}" ` + image
	out, err := c.Runner.Output(ctx, cmdline)
	if err != nil {
		inspectErr := &ImageInspectionError{Image: image, Err: err}
		var exitErr *process.ExitError
		if errors.As(err, &exitErr) {
			inspectErr.Output = exitErr.Output
		}
		return "", inspectErr
	}

	imageOS := normalizeOS(out)
	clog.FromContext(ctx).Debug("inspected image", "image", image, "os", imageOS)
	return imageOS, nil
}

func normalizeOS(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
