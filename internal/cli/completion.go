package cli

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for with-docker.

To load completions:

Bash:
  $ source <(with-docker completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ with-docker completion bash > /etc/bash_completion.d/with-docker
  # macOS:
  $ with-docker completion bash > $(brew --prefix)/etc/bash_completion.d/with-docker

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ with-docker completion zsh > "${fpath[1]}/_with-docker"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ with-docker completion fish | source

  # To load completions for each session, execute once:
  $ with-docker completion fish > ~/.config/fish/completions/with-docker.fish

PowerShell:
  PS> with-docker completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> with-docker completion powershell > with-docker.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
