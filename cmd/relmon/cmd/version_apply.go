package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/paul-soporan/relmon/pkg/storage"
	"github.com/paul-soporan/relmon/pkg/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// versionApplyCmd writes the merged pending versions into the manifests
var versionApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply pending versions to the package manifests",
	Long: `Apply the merged pending versions to the workspace package manifests.

All release records are merged first: for a package named by several changes,
the highest pending version wins. Records are left in place after applying;
remove them with "relmon release delete" once the changes have shipped.`,
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

		if err := applyPendingVersions(ctx, ws, store, logger); err != nil {
			wrapFatalln("apply pending versions", err)
			return
		}
	},
}

func applyPendingVersions(ctx context.Context, ws *workspace.Workspace, store storage.Store, logger *zap.Logger) error {
	ledger, err := core.ResolveVersionFiles(ctx, ws, store, core.WithLogger(logger))
	if err != nil {
		return err
	}
	if len(ledger.Versions) == 0 {
		fmt.Println("nothing to apply")
		return nil
	}

	targets := make([]model.PackageID, 0, len(ledger.Versions))
	for pkg := range ledger.Versions {
		targets = append(targets, pkg)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Locator < targets[j].Locator })

	for _, pkg := range targets {
		version := ledger.Versions[pkg]
		if err := ws.WriteVersion(ctx, pkg, version); err != nil {
			return err
		}
		fmt.Printf("%v: %s\n", pkg, version)
	}
	return nil
}

func init() {
	versionCmd.AddCommand(versionApplyCmd)
}
