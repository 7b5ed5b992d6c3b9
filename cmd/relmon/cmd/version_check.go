package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/spf13/cobra"
)

// versionCheckCmd verifies that every workspace package is covered by a
// pending decision
var versionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that all packages have a pending version decision",
	Long: `Check that every workspace package is covered by a release decision.

A package is covered when some release record bumps it, targets it with an
explicit version, or declines it. Declines count as decisions: the decline
nonce distinguishes an explicit "no bump" from a package nobody has looked at.
Exits non-zero when undecided packages remain.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger, err := paramsToLogger(&relmonFlags)
		if err != nil {
			wrapFatalln("initialize logger", err)
			return
		}
		ws, err := paramsToWorkspace(&relmonFlags, logger)
		if err != nil {
			wrapFatalln("load workspace", err)
			return
		}
		store, err := paramsToRecordStore(&relmonFlags)
		if err != nil {
			wrapFatalln("open record store", err)
			return
		}

		ledger, err := core.ResolveVersionFiles(ctx, ws, store, core.WithLogger(logger))
		if err != nil {
			wrapFatalln("resolve pending releases", err)
			return
		}
		members, err := ws.Members(ctx)
		if err != nil {
			wrapFatalln("enumerate workspace members", err)
			return
		}

		var undecided int
		for _, member := range members {
			if version, ok := ledger.PendingVersion(member.ID); ok {
				fmt.Printf("%v: %s pending\n", member.ID, version)
				continue
			}
			if nonce, ok := ledger.Declined[member.ID]; ok {
				fmt.Printf("%v: declined (nonce %d)\n", member.ID, nonce)
				continue
			}
			fmt.Printf("%v: %s\n", member.ID, color.RedString("undecided"))
			undecided++
		}

		if undecided > 0 {
			wrapFatalWithCodef(2, "%d package(s) await a version decision", undecided)
			return
		}
	},
}

func init() {
	versionCmd.AddCommand(versionCheckCmd)
}
