package core

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/paul-soporan/relmon/pkg/core/status"
	"github.com/paul-soporan/relmon/pkg/errors"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/paul-soporan/relmon/pkg/storage"
	"github.com/paul-soporan/relmon/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) storage.Store {
	store, err := localfs.New(afero.NewMemMapFs())
	require.NoError(t, err)
	return store
}

func TestOpenReleaseNotFound(t *testing.T) {
	store := testStore(t)

	_, err := OpenRelease(context.Background(), "feat-login", store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRecordNotFound))
	assert.Contains(t, err.Error(), "feat-login")
}

func TestOpenReleaseAllowEmpty(t *testing.T) {
	store := testStore(t)

	rel, err := OpenRelease(context.Background(), "feat-login", store, AllowEmpty(true))
	require.NoError(t, err)
	assert.Equal(t, "feat-login", rel.Descriptor.Change)
	assert.Empty(t, rel.Descriptor.Releases)
	assert.Zero(t, rel.Nonce())
}

func TestReleaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rel, err := OpenRelease(ctx, "feat-login", store, AllowEmpty(true))
	require.NoError(t, err)

	auth := model.PackageID{Name: "auth", Locator: "pkgs/auth"}
	api := model.PackageID{Name: "api", Locator: "pkgs/api"}
	docs := model.PackageID{Name: "docs", Locator: "pkgs/docs"}

	require.NoError(t, rel.Set(auth, model.KeywordStrategy(model.KeywordMinor)))
	require.NoError(t, rel.Set(api, model.VersionStrategy("3.0.0")))
	require.NoError(t, rel.Decline(docs))
	require.NoError(t, rel.Decline(docs)) // idempotent entry, nonce still advances
	require.NoError(t, rel.SaveAll(ctx))

	reopened, err := OpenRelease(ctx, "feat-login", store)
	require.NoError(t, err)

	got, found := reopened.Get(auth)
	require.True(t, found)
	assert.Equal(t, model.KeywordMinor, got.Keyword)

	got, found = reopened.Get(api)
	require.True(t, found)
	assert.Equal(t, "3.0.0", got.Version)

	got, found = reopened.Get(docs)
	require.True(t, found)
	assert.True(t, got.IsDecline())

	assert.Equal(t, uint64(2), reopened.Nonce())
	assert.Len(t, reopened.Descriptor.Releases, 3)
}

func TestReleaseLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rel, err := OpenRelease(ctx, "feat-1", store, AllowEmpty(true))
	require.NoError(t, err)

	auth := model.PackageID{Name: "auth"}
	require.NoError(t, rel.Set(auth, model.KeywordStrategy(model.KeywordPatch)))
	require.NoError(t, rel.Set(auth, model.KeywordStrategy(model.KeywordMajor)))
	require.NoError(t, rel.SaveAll(ctx))

	reopened, err := OpenRelease(ctx, "feat-1", store)
	require.NoError(t, err)
	got, found := reopened.Get(auth)
	require.True(t, found)
	assert.Equal(t, model.KeywordMajor, got.Keyword)
	assert.Len(t, reopened.Descriptor.Releases, 1)
}

func TestOpenReleaseMalformed(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "releases/feat-bad.yaml", []byte("{not yaml"), 0600))
	store, err := localfs.New(fs)
	require.NoError(t, err)

	_, err = OpenRelease(ctx, "feat-bad", store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMalformedRecord))
	assert.Contains(t, err.Error(), "feat-bad")

	// AllowEmpty does not mask malformed records
	_, err = OpenRelease(ctx, "feat-bad", store, AllowEmpty(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMalformedRecord))
}

func TestOpenReleaseChangeMismatch(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "releases/feat-a.yaml", []byte("change: feat-b\nnonce: 0\n"), 0600))
	store, err := localfs.New(fs)
	require.NoError(t, err)

	_, err = OpenRelease(ctx, "feat-a", store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMalformedRecord))
}

// brokenStore fails every Put, simulating save I/O errors
type brokenStore struct {
	storage.Store
}

func (s brokenStore) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	return fmt.Errorf("no space left on device")
}

func TestSaveAllPersistenceFailure(t *testing.T) {
	ctx := context.Background()

	rel, err := OpenRelease(ctx, "feat-1", brokenStore{Store: testStore(t)}, AllowEmpty(true))
	require.NoError(t, err)

	auth := model.PackageID{Name: "auth", Locator: "pkgs/auth"}
	docs := model.PackageID{Name: "docs", Locator: "pkgs/docs"}
	require.NoError(t, rel.Set(auth, model.KeywordStrategy(model.KeywordMinor)))
	require.NoError(t, rel.Decline(docs))

	err = rel.SaveAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPersistence))

	// the decision-carrying state survives, so the save can be retried
	got, found := rel.Get(auth)
	require.True(t, found)
	assert.Equal(t, model.KeywordMinor, got.Keyword)
	got, found = rel.Get(docs)
	require.True(t, found)
	assert.True(t, got.IsDecline())
	assert.Equal(t, uint64(1), rel.Nonce())
	assert.Len(t, rel.Descriptor.Releases, 2)
}

func TestSetRejectsInvalidPackage(t *testing.T) {
	store := testStore(t)
	rel, err := OpenRelease(context.Background(), "feat-1", store, AllowEmpty(true))
	require.NoError(t, err)

	err = rel.Set(model.PackageID{}, model.KeywordStrategy(model.KeywordMinor))
	require.Error(t, err)
}
