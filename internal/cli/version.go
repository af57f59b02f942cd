package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// These are set at build time via ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "with-docker version %s\n", Version)
			fmt.Fprintf(out, "  git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  build date: %s\n", BuildDate)
		},
	}
}
