// Package completion provides the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/assetmap/pkg/errors"
)

// Shells lists the supported shells.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// NewCommand creates the completion command. Scripts are written to the
// command's output so they can be sourced or redirected to a file.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:

  $ source <(assetmap completion bash)

  # To load completions for each session, execute once:
  $ assetmap completion bash > /etc/bash_completion.d/assetmap

Zsh:

  $ assetmap completion zsh > "${fpath[1]}/_assetmap"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ assetmap completion fish | source
  $ assetmap completion fish > ~/.config/fish/completions/assetmap.fish

PowerShell:

  PS> assetmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return &errors.ValidationError{Field: "shell", Value: args[0], Message: "unsupported shell"}
		},
	}
}
