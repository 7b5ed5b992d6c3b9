package cmd

import (
	"context"
	"fmt"

	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/spf13/cobra"
)

// versionCmd declares a version strategy for a package within the
// current change's release record.
var versionCmd = &cobra.Command{
	Use:   "version STRATEGY",
	Short: "Declare the next version of a package",
	Long: `Declare how a package should be bumped by the current change.

STRATEGY is one of major, minor, patch, premajor, preminor, prepatch,
prerelease, decline, or an explicit semantic version. The decision is written
into the change's release record; manifests are only rewritten by a later
"version apply" (or immediately with --deferred=false).

When an explicit version happens to match a single bump keyword applied to the
package's current version, the keyword is recorded instead, so the record stays
correct even if the current version moves before the record is applied.`,
	Example: `% relmon version minor --pkg auth --change feat-login
auth (pkgs/auth): 1.1.0 pending in change feat-login`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		logger, err := paramsToLogger(&relmonFlags)
		if err != nil {
			wrapFatalln("initialize logger", err)
			return
		}
		if relmonFlags.version.pkg == "" {
			wrapFatalln("a package must be selected with --pkg", nil)
			return
		}
		if relmonFlags.version.change == "" {
			wrapFatalln("a change must be named with --change (or the config's change setting)", nil)
			return
		}

		strategy, err := model.ParseStrategy(args[0])
		if err != nil {
			wrapFatalln("parse strategy", err)
			return
		}

		ws, err := paramsToWorkspace(&relmonFlags, logger)
		if err != nil {
			wrapFatalln("load workspace", err)
			return
		}
		member, err := findMember(ctx, ws, relmonFlags.version.pkg)
		if err != nil {
			wrapFatalln("select package", err)
			return
		}
		store, err := paramsToRecordStore(&relmonFlags)
		if err != nil {
			wrapFatalln("open record store", err)
			return
		}

		// an explicit target matching a single bump keyword is stored
		// as relative intent
		if strategy.IsExplicit() && member.Version != "" {
			keyword, ok, err := core.SuggestStrategy(member.Version, strategy.Version)
			if err != nil {
				wrapFatalln("inspect explicit version", err)
				return
			}
			if ok {
				logger.Debug(fmt.Sprintf("recording %q as %q relative to %s", strategy.Version, keyword, member.Version))
				strategy = model.KeywordStrategy(keyword)
			}
		}

		ledger, err := core.ResolveVersionFiles(ctx, ws, store, core.WithLogger(logger))
		if err != nil {
			wrapFatalln("resolve pending releases", err)
			return
		}

		rel, err := core.OpenRelease(ctx, relmonFlags.version.change, store,
			core.AllowEmpty(relmonFlags.version.allowEmpty),
			core.WithLogger(logger),
		)
		if err != nil {
			wrapFatalln("open release record", err)
			return
		}

		if strategy.IsDecline() {
			if err := rel.Decline(member.ID); err != nil {
				wrapFatalln("record decline", err)
				return
			}
		} else {
			candidate, err := core.ApplyStrategy(member.Version, strategy)
			if err != nil {
				wrapFatalln("compute next version", err)
				return
			}
			if err := core.CheckRegression(ledger, member.ID, candidate); err != nil {
				wrapFatalln("regression check", err)
				return
			}
			if err := rel.Set(member.ID, strategy); err != nil {
				wrapFatalln("record decision", err)
				return
			}
			fmt.Printf("%v: %s pending in change %s\n", member.ID, candidate, rel.Descriptor.Change)
		}

		if contributor := paramsToContributor(config); contributor.Name != "" || contributor.Email != "" {
			if len(rel.Descriptor.Contributors) == 0 {
				rel.Descriptor.Contributors = []model.Contributor{contributor}
			}
		}

		if err := rel.SaveAll(ctx); err != nil {
			wrapFatalln("save release record", err)
			return
		}
		if strategy.IsDecline() {
			fmt.Printf("%v: no bump, declined in change %s (nonce %d)\n",
				member.ID, rel.Descriptor.Change, rel.Nonce())
		}

		// the record is durably saved before the apply step fires
		if !relmonFlags.version.deferred {
			if err := applyPendingVersions(ctx, ws, store, logger); err != nil {
				wrapFatalln("apply pending versions", err)
				return
			}
		}
	},
}

func init() {
	requiredFlags := []string{addPackageFlag(versionCmd)}
	addChangeFlag(versionCmd)
	addDeferredFlag(versionCmd)
	addAllowEmptyFlag(versionCmd)

	for _, flag := range requiredFlags {
		if err := versionCmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("mark required flag", err)
			return
		}
	}

	rootCmd.AddCommand(versionCmd)
}
