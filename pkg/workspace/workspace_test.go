package workspace

import (
	"context"
	"testing"

	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkspace(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"ws/workspace.yaml":     "name: acme\nmembers:\n  - pkgs/*\n",
		"ws/pkgs/auth/pkg.yaml": "name: auth\nversion: 1.0.0\n",
		"ws/pkgs/api/pkg.yaml":  "name: api\nversion: 2.3.4\n",
		"ws/pkgs/new/pkg.yaml":  "name: new\n",
	}
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
	// a directory without manifest is not a member
	require.NoError(t, fs.MkdirAll("ws/pkgs/scratch", 0755))
	return fs
}

func TestLoadAndMembers(t *testing.T) {
	fs := setupWorkspace(t)

	ws, err := Load(fs, "ws")
	require.NoError(t, err)
	assert.Equal(t, "acme", ws.Name())

	members, err := ws.Members(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 3)

	// sorted by locator
	assert.Equal(t, "pkgs/api", members[0].ID.Locator)
	assert.Equal(t, "api", members[0].ID.Name)
	assert.Equal(t, "2.3.4", members[0].Version)

	assert.Equal(t, "pkgs/auth", members[1].ID.Locator)
	assert.Equal(t, "1.0.0", members[1].Version)

	assert.Equal(t, "pkgs/new", members[2].ID.Locator)
	assert.Empty(t, members[2].Version, "never released")
}

func TestLoadMissingManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "ws")
	require.Error(t, err)
}

func TestLoadEmptyWorkspace(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "ws/workspace.yaml", []byte("name: acme\n"), 0644))
	_, err := Load(fs, "ws")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no members")
}

func TestMembersMalformedManifest(t *testing.T) {
	fs := setupWorkspace(t)
	require.NoError(t, afero.WriteFile(fs, "ws/pkgs/bad/pkg.yaml", []byte("{broken"), 0644))

	ws, err := Load(fs, "ws")
	require.NoError(t, err)

	_, err = ws.Members(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pkgs/bad")
}

func TestWriteVersion(t *testing.T) {
	fs := setupWorkspace(t)
	ws, err := Load(fs, "ws")
	require.NoError(t, err)

	auth := model.PackageID{Name: "auth", Locator: "pkgs/auth"}
	require.NoError(t, ws.WriteVersion(context.Background(), auth, "1.1.0"))

	members, err := ws.Members(context.Background())
	require.NoError(t, err)
	for _, m := range members {
		if m.ID == auth {
			assert.Equal(t, "1.1.0", m.Version)
			return
		}
	}
	t.Fatal("auth member not found after write")
}

func TestWriteVersionNameMismatch(t *testing.T) {
	fs := setupWorkspace(t)
	ws, err := Load(fs, "ws")
	require.NoError(t, err)

	err = ws.WriteVersion(context.Background(), model.PackageID{Name: "other", Locator: "pkgs/auth"}, "9.9.9")
	require.Error(t, err)
}
