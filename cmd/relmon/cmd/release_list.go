package cmd

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"text/template"

	"github.com/fatih/color"
	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/spf13/cobra"
)

var releaseDescriptorTemplate *template.Template

func init() {
	releaseDescriptorTemplate = func() *template.Template {
		const listLineTemplateString = `{{.Change}}{{ if .Timestamp.IsZero }}{{ else }} , {{ .Timestamp }}{{ end }} , nonce {{ .Nonce }}
{{- range .Releases }}
  {{ .Package.Name }} ({{ .Package.Locator }}) -> {{ .Strategy }}
{{- end }}`
		return template.Must(template.New("list line").Parse(listLineTemplateString))
	}()
}

func applyReleaseTemplate(rd model.ReleaseDescriptor) error {
	var buf bytes.Buffer
	if err := releaseDescriptorTemplate.Execute(&buf, rd); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	fmt.Println(buf.String())
	return nil
}

// releaseListCmd lists pending release records and the merged ledger
var releaseListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List pending release records",
	Long:    `List every pending release record and the merged view of pending versions.`,
	Aliases: []string{"ls"},
	Example: `% relmon release list
feat-login , nonce 0
  auth (pkgs/auth) -> minor`,
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

		for _, change := range ledger.Records {
			rel, err := core.OpenRelease(ctx, change, store, core.WithLogger(logger))
			if err != nil {
				wrapFatalln("open release record", err)
				return
			}
			if err := applyReleaseTemplate(rel.Descriptor); err != nil {
				wrapFatalln("render release record", err)
				return
			}
		}

		if len(ledger.Versions) == 0 {
			fmt.Println("no pending versions")
			return
		}

		members, err := ws.Members(ctx)
		if err != nil {
			wrapFatalln("enumerate workspace members", err)
			return
		}
		current := make(map[model.PackageID]string, len(members))
		for _, member := range members {
			current[member.ID] = member.Version
		}

		targets := make([]model.PackageID, 0, len(ledger.Versions))
		for pkg := range ledger.Versions {
			targets = append(targets, pkg)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i].Locator < targets[j].Locator })

		fmt.Println("pending versions:")
		for _, pkg := range targets {
			fmt.Printf("  %v: %s -> %s\n", pkg,
				color.HiBlackString(orUnreleased(current[pkg])),
				color.GreenString(ledger.Versions[pkg]))
		}
	},
}

func orUnreleased(version string) string {
	if version == "" {
		return "(unreleased)"
	}
	return version
}

func init() {
	releaseCmd.AddCommand(releaseListCmd)
}
