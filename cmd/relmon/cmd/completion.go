package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion SHELL",
	Short: "Print a shell completion script",
	Long: `Print a completion script for relmon on stdout.

Bash users can source it from their profile:

	eval "$(relmon completion bash)"

Zsh users should install it on their fpath instead:

	relmon completion zsh > "${fpath[1]}/_relmon"
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch shell := args[0]; shell {
		case "bash":
			err = rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			err = rootCmd.GenZshCompletion(os.Stdout)
		default:
			wrapFatalln("unsupported shell "+shell+", expected bash or zsh", nil)
			return
		}
		if err != nil {
			wrapFatalln("generate completion script", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
