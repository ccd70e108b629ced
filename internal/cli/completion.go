package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for tabmon.

Besides subcommands and flags, the script completes the values of --checks
(all, tsm, systeminfo), --log-format (text, json) and status -o (table,
json, yaml, line). tabmon usually runs under Telegraf on a Tableau node, so
install the script for the operator account that runs "tabmon status".`,
		Example: `  # bash, current shell
  source <(tabmon completion bash)

  # bash, every session
  tabmon completion bash > /etc/bash_completion.d/tabmon

  # zsh (compinit must be enabled)
  tabmon completion zsh > "${fpath[1]}/_tabmon"

  # fish
  tabmon completion fish > ~/.config/fish/completions/tabmon.fish

  # PowerShell
  tabmon completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// completion needs neither logging nor configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion generates the completion script for the specified shell
func runCompletion(cmd *cobra.Command, shell string) error {
	w := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletionV2(w, true)
	case "zsh":
		return cmd.Root().GenZshCompletion(w)
	case "fish":
		return cmd.Root().GenFishCompletion(w, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}
