package cmd

import (
	"context"
	"path/filepath"

	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/paul-soporan/relmon/pkg/dlogger"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/paul-soporan/relmon/pkg/storage"
	"github.com/paul-soporan/relmon/pkg/storage/localfs"
	"github.com/paul-soporan/relmon/pkg/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flagsT struct {
	version struct {
		pkg        string
		change     string
		deferred   bool
		allowEmpty bool
	}
	release struct {
		change string
	}
	root struct {
		logLevel  string
		workspace string
		records   string
	}
}

var relmonFlags = flagsT{}

func addPackageFlag(cmd *cobra.Command) string {
	pkg := "pkg"
	cmd.Flags().StringVar(&relmonFlags.version.pkg, pkg, "",
		"The workspace package the decision applies to, by name or by locator")
	return pkg
}

func addChangeFlag(cmd *cobra.Command) string {
	change := "change"
	cmd.Flags().StringVar(&relmonFlags.version.change, change, "",
		"The change owning the release record. Defaults to the change set in the config")
	return change
}

func addDeferredFlag(cmd *cobra.Command) string {
	deferred := "deferred"
	cmd.Flags().BoolVar(&relmonFlags.version.deferred, deferred, true,
		"Only record the decision. With --deferred=false the merged ledger is applied to the manifests right after saving")
	return deferred
}

func addAllowEmptyFlag(cmd *cobra.Command) string {
	allowEmpty := "allow-empty"
	cmd.Flags().BoolVar(&relmonFlags.version.allowEmpty, allowEmpty, true,
		"Create the release record if it does not exist yet")
	return allowEmpty
}

func addReleaseChangeFlag(cmd *cobra.Command) string {
	change := "change"
	cmd.Flags().StringVar(&relmonFlags.release.change, change, "", "The change owning the release record")
	return change
}

func addLogLevelFlag(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&relmonFlags.root.logLevel, loglevel, "", "The log level (none, info, debug)")
	return loglevel
}

func addWorkspaceFlag(cmd *cobra.Command) string {
	ws := "workspace"
	cmd.PersistentFlags().StringVar(&relmonFlags.root.workspace, ws, "", "The workspace root directory")
	return ws
}

func addRecordsFlag(cmd *cobra.Command) string {
	records := "records"
	cmd.PersistentFlags().StringVar(&relmonFlags.root.records, records, "",
		"The directory holding pending release records. Defaults to <workspace>/"+workspace.MetadataDir)
	return records
}

// baseFs is patched over in tests to run commands on a memory file system
var baseFs = afero.NewOsFs()

func paramsToLogger(flags *flagsT) (*zap.Logger, error) {
	level := flags.root.logLevel
	if level == "" {
		level = dlogger.LogLevelInfo
	}
	return dlogger.GetLogger(level)
}

func paramsToWorkspace(flags *flagsT, l *zap.Logger) (*workspace.Workspace, error) {
	root := flags.root.workspace
	if root == "" {
		root = "."
	}
	return workspace.Load(baseFs, root, workspace.WithLogger(l))
}

func paramsToRecordStore(flags *flagsT) (storage.Store, error) {
	records := flags.root.records
	if records == "" {
		root := flags.root.workspace
		if root == "" {
			root = "."
		}
		records = filepath.Join(root, workspace.MetadataDir)
	}
	return localfs.New(afero.NewBasePathFs(baseFs, records))
}

func paramsToContributor(config *CLIConfig) model.Contributor {
	if config == nil {
		return model.Contributor{}
	}
	return model.Contributor{Name: config.Name, Email: config.Email}
}

// findMember locates a workspace member by package name or locator
func findMember(ctx context.Context, ws *workspace.Workspace, pkg string) (core.ProjectMember, error) {
	members, err := ws.Members(ctx)
	if err != nil {
		return core.ProjectMember{}, err
	}
	for _, member := range members {
		if member.ID.Name == pkg || member.ID.Locator == pkg {
			return member, nil
		}
	}
	return core.ProjectMember{}, errNoSuchMember(pkg)
}

type memberError string

func (e memberError) Error() string { return string(e) }

func errNoSuchMember(pkg string) error {
	return memberError("no workspace member named " + pkg)
}
