package container

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/go-units"
)

// imageAPI is the slice of the Docker client the API inspector needs
type imageAPI interface {
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
}

// APIInspector reads the image OS through the Docker Engine API
type APIInspector struct {
	api    imageAPI
	closer func() error
}

// NewAPIInspector creates an inspector connected to the engine configured in
// the environment (DOCKER_HOST and friends).
func NewAPIInspector(ctx context.Context) (*APIInspector, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	// Verify connection
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to connect to Docker: %w", err)
	}

	return &APIInspector{api: cli, closer: cli.Close}, nil
}

// Close closes the Docker client
func (a *APIInspector) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// InspectOS implements Inspector
func (a *APIInspector) InspectOS(ctx context.Context, image string) (string, error) {
	info, _, err := a.api.ImageInspectWithRaw(ctx, image)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", &ImageInspectionError{Image: image, Output: "No such image: " + image, Err: err}
		}
		return "", &ImageInspectionError{Image: image, Err: err}
	}

	imageOS := normalizeOS(info.Os)
	clog.FromContext(ctx).Debug("inspected image",
		"image", image,
		"os", imageOS,
		"arch", info.Architecture,
		"size", units.HumanSize(float64(info.Size)))
	return imageOS, nil
}
