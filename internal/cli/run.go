package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/jakenelson/with-docker/internal/conan"
	"github.com/jakenelson/with-docker/internal/config"
	"github.com/jakenelson/with-docker/internal/container"
	"github.com/jakenelson/with-docker/internal/hostpath"
	"github.com/jakenelson/with-docker/internal/process"
	"github.com/spf13/cobra"
)

// ExitCodeError carries the exit code of a wrapped command that failed
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("wrapped command exited with code %d", e.Code)
}

// commandRunner is what the run command needs from process.Runner
type commandRunner interface {
	Output(ctx context.Context, cmdline string) (string, error)
	Stream(ctx context.Context, cmdline string) (int, error)
}

// deps are the process and engine boundaries, swapped out in tests
type deps struct {
	runner      func() commandRunner
	inspector   func(ctx context.Context, cfg *config.Resolved, r commandRunner) (container.Inspector, func(), error)
	locateConan func() (conan.Home, error)
	getwd       func() (string, error)
}

func defaultDeps() deps {
	return deps{
		runner: func() commandRunner { return process.NewRunner() },
		inspector: func(ctx context.Context, cfg *config.Resolved, r commandRunner) (container.Inspector, func(), error) {
			if !cfg.InspectAPI {
				return container.NewCLIInspector(r), func() {}, nil
			}
			api, err := container.NewAPIInspector(ctx)
			if err != nil {
				return nil, nil, &container.ImageInspectionError{Image: cfg.DockerImage, Err: err}
			}
			return api, func() { api.Close() }, nil
		},
		locateConan: func() (conan.Home, error) { return conan.Locate(conan.Options{}) },
		getwd:       os.Getwd,
	}
}

type runOptions struct {
	*rootOptions
	dryRun bool
}

func newRunCmd(root *rootOptions, d deps) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run [flags] <conan-command> [args...]",
		Short: "Run a conan command in a Docker container with the conan dirs mounted",
		Long: `Run a conan command in a Docker container.

Everything after the first positional argument is passed to conan verbatim,
flags included. Each option can also be set through the environment variable
shown in brackets, or in the config file.

Examples:
  with-docker run --docker-image conanio/gcc11 install . --build missing
  with-docker run --docker-image conanio/msvc16 --container-name win1 create .
  with-docker run --dry-run --docker-image ubuntu:22.04 info .`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args, d)
		},
	}

	// Stop at the first positional so the conan command keeps its own flags.
	cmd.Flags().SetInterspersed(false)
	addSettingFlags(cmd.Flags(), config.Settings())
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the docker command instead of running it")

	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, args []string, d deps) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	if len(args) == 0 {
		return &config.ConfigurationError{Msg: `positional argument "conan_command" is required`}
	}

	file, err := o.configFile()
	if err != nil {
		return err
	}
	log.Debug("config file", "path", file.Path(), "exists", file.Exists())
	for _, key := range file.Keys() {
		if _, ok := config.Lookup(config.Settings(), key); !ok {
			log.Warn("unknown key in config file", "key", key, "path", file.Path())
		}
	}

	cfg, err := config.Resolve(config.Settings(), config.Sources{
		Flags: flagSource{fs: cmd.Flags()},
		File:  file,
	})
	if err != nil {
		return err
	}
	if cfg.DockerArgs != "" {
		log.Warn("docker-args is accepted but not passed to docker run", "docker-args", cfg.DockerArgs)
	}

	home, err := d.locateConan()
	if err != nil {
		return fmt.Errorf("failed to locate conan home: %w", err)
	}
	if cfg.MountConanDirs && !hostpath.DirExists(home.CacheDir()) {
		log.Warn("conan directory does not exist yet, docker will create it", "path", home.CacheDir())
	}

	cwd, err := d.getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	cwd, err = hostpath.ExpandPath(cwd)
	if err != nil {
		return fmt.Errorf("invalid working directory: %w", err)
	}

	runner := d.runner()
	inspector, closeInspector, err := d.inspector(ctx, cfg, runner)
	if err != nil {
		return err
	}
	defer closeInspector()

	imageOS, err := inspector.InspectOS(ctx, cfg.DockerImage)
	if err != nil {
		return err
	}

	inv := container.NewInvocation(container.Options{
		Config:  cfg,
		ImageOS: imageOS,
		HostCwd: cwd,
		Home:    home,
	})
	final := inv.Command(container.WrapConan(args))
	log.Infof("final_command = %s", final)

	if o.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), final)
		return nil
	}

	// The terminal delivers interrupts to the container process itself;
	// cancelling would kill docker before it can forward them.
	code, err := runner.Stream(context.WithoutCancel(ctx), final)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}
