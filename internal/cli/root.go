package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/clog/slag"
	charmlog "github.com/charmbracelet/log"
	"github.com/jakenelson/with-docker/internal/config"
	"github.com/moby/term"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile  string
	logLevel slag.Level
}

// Execute runs the command tree. A wrapped command that exits non-zero is
// reported as *ExitCodeError.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return newRootCmd(defaultDeps()).ExecuteContext(ctx)
}

func newRootCmd(d deps) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "with-docker",
		Short: "Run conan commands inside a Docker container",
		Long: `with-docker runs your normal conan command in a Docker container.

By default it mounts the working directory and the conan directory into the
container and removes the container afterwards, so all work on the conan cache
happens in your host cache. The image OS is detected automatically to pick the
shell and mount destinations.

Options resolve in order: command line, environment variable, then the
[` + config.CommandName + `] section of ` + config.CommandName + `.conf next to the executable.

Examples:
  with-docker run --docker-image conanio/gcc11 install .
  WITH_DOCKER_IMAGE=conanio/gcc11 with-docker run create . --build missing
  with-docker run --mount-conan-dirs=false --container-name build1 info .`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(opts.setupLogging(cmd.Context(), cmd))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is "+config.CommandName+".conf next to the executable)")
	rootCmd.PersistentFlags().Var(&opts.logLevel, "log-level", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCmd(opts, d))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// setupLogging installs a charm logger on stderr into the context
func (o *rootOptions) setupLogging(ctx context.Context, cmd *cobra.Command) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	l := charmlog.NewWithOptions(cmd.ErrOrStderr(), charmlog.Options{
		Level:           charmlog.Level(o.logLevel),
		ReportTimestamp: term.IsTerminal(os.Stderr.Fd()),
		Prefix:          config.CommandName,
	})
	return clog.WithLogger(ctx, clog.New(l))
}

// configFile loads the command's section of the config file
func (o *rootOptions) configFile() (*config.File, error) {
	path := o.cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadFile(path, config.CommandName)
}
