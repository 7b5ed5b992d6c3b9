package cmd

import (
	"github.com/spf13/cobra"
)

// releaseCmd represents the release record related commands
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Commands to manage pending release records",
	Long: `Commands to manage the per-change release records kept under the workspace.

Each in-flight change owns one record; records accumulate decisions and are
merged on demand. Records are never removed automatically: delete a record
once its change has been released.`,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}
