package cmd

import (
	"context"
	"fmt"

	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/spf13/cobra"
)

// releaseDeleteCmd removes one change's release record
var releaseDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a pending release record",
	Long: `Delete the release record owned by a change.

Records are never removed automatically; run this once a change has been
released and its record is no longer pending.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if relmonFlags.release.change == "" {
			wrapFatalln("a change must be named with --change", nil)
			return
		}
		store, err := paramsToRecordStore(&relmonFlags)
		if err != nil {
			wrapFatalln("open record store", err)
			return
		}

		key := model.GetArchivePathToRelease(relmonFlags.release.change)
		has, err := store.Has(ctx, key)
		if err != nil {
			wrapFatalln("probe release record", err)
			return
		}
		if !has {
			wrapFatalln(fmt.Sprintf("no release record for change %q", relmonFlags.release.change), nil)
			return
		}
		if err := store.Delete(ctx, key); err != nil {
			wrapFatalln("delete release record", err)
			return
		}
		fmt.Printf("deleted release record for change %s\n", relmonFlags.release.change)
	},
}

func init() {
	requiredFlags := []string{addReleaseChangeFlag(releaseDeleteCmd)}
	for _, flag := range requiredFlags {
		if err := releaseDeleteCmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("mark required flag", err)
			return
		}
	}
	releaseCmd.AddCommand(releaseDeleteCmd)
}
