// Package workspace loads multi-package workspaces and exposes them as
// the project handle consumed by the release ledger resolver.
//
// A workspace is a directory with a workspace.yaml manifest naming its
// member packages; each member directory carries a pkg.yaml manifest
// with the package name and its currently released version.
package workspace

import (
	"context"
	"path"
	"sort"

	"github.com/paul-soporan/relmon/pkg/core"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Workspace is a loaded multi-package workspace
type Workspace struct {
	fs         afero.Fs
	root       string
	descriptor Descriptor
	l          *zap.Logger
}

var _ core.Project = &Workspace{}

// Option customizes workspace loading
type Option func(*Workspace)

// WithLogger sets a zap logger on the workspace. It defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.l = l
		}
	}
}

// Load a workspace rooted at root on the given file system
func Load(fs afero.Fs, root string, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		fs:   fs,
		root: root,
		l:    zap.NewNop(),
	}
	for _, apply := range opts {
		apply(w)
	}

	descriptor, err := loadDescriptor(fs, root)
	if err != nil {
		return nil, err
	}
	w.descriptor = *descriptor
	return w, nil
}

// Name of the workspace
func (w *Workspace) Name() string {
	return w.descriptor.Name
}

// Members enumerates the workspace packages with their current manifest
// versions, sorted by locator. Locators are workspace-relative paths.
func (w *Workspace) Members(ctx context.Context) ([]core.ProjectMember, error) {
	dirs, err := w.memberDirs()
	if err != nil {
		return nil, err
	}

	members := make([]core.ProjectMember, 0, len(dirs))
	for _, dir := range dirs {
		manifest, err := loadManifest(w.fs, path.Join(w.root, dir))
		if err != nil {
			return nil, err
		}
		id := model.PackageID{Name: manifest.Name, Locator: dir}
		if err := id.Validate(); err != nil {
			return nil, errors.Wrapf(err, "member %q", dir)
		}
		members = append(members, core.ProjectMember{
			ID:      id,
			Version: manifest.Version,
		})
	}
	return members, nil
}

// WriteVersion rewrites the manifest of a member with its new version.
// This is the final apply step: pending records are left untouched.
func (w *Workspace) WriteVersion(ctx context.Context, id model.PackageID, version string) error {
	dir := path.Join(w.root, id.Locator)
	manifest, err := loadManifest(w.fs, dir)
	if err != nil {
		return err
	}
	if manifest.Name != id.Name {
		return errors.Errorf("manifest at %q names package %q, not %q", dir, manifest.Name, id.Name)
	}
	previous := manifest.Version
	manifest.Version = version
	if err := saveManifest(w.fs, dir, manifest); err != nil {
		return err
	}
	w.l.Info("manifest version updated",
		zap.String("package", id.String()),
		zap.String("from", previous),
		zap.String("to", version),
	)
	return nil
}

func (w *Workspace) memberDirs() ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	for _, member := range w.descriptor.Members {
		matches, err := afero.Glob(w.fs, path.Join(w.root, member))
		if err != nil {
			return nil, errors.Wrapf(err, "expanding member pattern %q", member)
		}
		if len(matches) == 0 {
			w.l.Warn("workspace member pattern matches nothing", zap.String("pattern", member))
		}
		for _, match := range matches {
			ok, err := afero.Exists(w.fs, path.Join(match, ManifestFile))
			if err != nil {
				return nil, errors.Wrapf(err, "probing member %q", match)
			}
			if !ok {
				continue
			}
			rel := relTo(w.root, match)
			if _, dup := seen[rel]; dup {
				continue
			}
			seen[rel] = struct{}{}
			dirs = append(dirs, rel)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func relTo(root, p string) string {
	if root == "" || root == "." {
		return p
	}
	prefix := root + "/"
	if len(p) > len(prefix) && p[:len(prefix)] == prefix {
		return p[len(prefix):]
	}
	return p
}
