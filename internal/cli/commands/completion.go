package commands

import (
	"github.com/spf13/cobra"
)

// schemaExtensions limits --schema and record completion to schema-like files
var schemaExtensions = []string{"json", "yaml", "yml"}

// NewCompletionCommand creates the completion command for shell completions
func NewCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate a shell completion script for assetrefs.

  $ source <(assetrefs completion bash)
  $ assetrefs completion zsh > "${fpath[1]}/_assetrefs"
  $ assetrefs completion fish | source
  PS> assetrefs completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeDataFiles registers file completion for a command's --schema flag
// and positional record files
func completeDataFiles(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("schema", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return schemaExtensions, cobra.ShellCompDirectiveFilterFileExt
	})
	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return schemaExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
}
