package workspace

import (
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

const (
	// WorkspaceFile is the name of the root workspace manifest
	WorkspaceFile = "workspace.yaml"

	// ManifestFile is the name of a member package manifest
	ManifestFile = "pkg.yaml"

	// MetadataDir is the default location of relmon metadata (pending
	// release records live under its releases/ area), relative to the
	// workspace root
	MetadataDir = ".relmon"
)

// Descriptor is the root workspace manifest: a workspace name and the
// member locators (relative paths, glob patterns allowed).
type Descriptor struct {
	Name    string   `json:"name" yaml:"name"`
	Members []string `json:"members" yaml:"members"`
	_       struct{}
}

// Manifest is one member package manifest. Version may be empty for a
// package that has never been released.
type Manifest struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	_       struct{}
}

func loadDescriptor(fs afero.Fs, root string) (*Descriptor, error) {
	manifestPath := path.Join(root, WorkspaceFile)
	buf, err := afero.ReadFile(fs, manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading workspace manifest %q", manifestPath)
	}
	var descriptor Descriptor
	if err := yaml.Unmarshal(buf, &descriptor); err != nil {
		return nil, errors.Wrapf(err, "parsing workspace manifest %q", manifestPath)
	}
	if len(descriptor.Members) == 0 {
		return nil, errors.Errorf("workspace manifest %q declares no members", manifestPath)
	}
	return &descriptor, nil
}

func loadManifest(fs afero.Fs, dir string) (*Manifest, error) {
	manifestPath := path.Join(dir, ManifestFile)
	buf, err := afero.ReadFile(fs, manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading package manifest %q", manifestPath)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(buf, &manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing package manifest %q", manifestPath)
	}
	if manifest.Name == "" {
		return nil, errors.Errorf("package manifest %q has no name", manifestPath)
	}
	return &manifest, nil
}

func saveManifest(fs afero.Fs, dir string, manifest *Manifest) error {
	manifestPath := path.Join(dir, ManifestFile)
	buf, err := yaml.Marshal(manifest)
	if err != nil {
		return errors.Wrapf(err, "encoding package manifest %q", manifestPath)
	}
	if err := afero.WriteFile(fs, manifestPath, buf, 0644); err != nil {
		return errors.Wrapf(err, "writing package manifest %q", manifestPath)
	}
	return nil
}
