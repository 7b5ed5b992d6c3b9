// Package localfs provides a local file system backed storage.Store
// for release records.
//
// Writes are staged then Rename()d into place, so a record on disk is
// either its previous state or the fully written new state: an aborted
// save never leaves a truncated record behind.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paul-soporan/relmon/pkg/storage"
	"github.com/spf13/afero"
)

// staging area key prefix
const stageName = ".save-stage"

// New creates a local file system backed record store rooted at
// the given afero file system. A nil fs defaults to the workspace
// record directory.
func New(fs afero.Fs) (storage.Store, error) {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), ".relmon")
	}
	// the staging area exists within the afero.Fs itself
	if err := fs.MkdirAll(stageName, 0700); err != nil {
		return nil, fmt.Errorf("ensuring save staging directory %q: %v", stageName, err)
	}
	return &localFS{fs: fs}, nil
}

type localFS struct {
	fs afero.Fs
}

func maybeInvalidKey(key string) error {
	sep := string(os.PathSeparator)
	components := strings.Split(strings.TrimLeft(key, sep), sep)
	if len(components) == 0 {
		return nil
	}
	if components[0] == stageName {
		return fmt.Errorf("key %q conflicts with save staging area name %q", key, stageName)
	}
	return nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, storage.ErrNotFound
	}
	return l.fs.Open(key)
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if exclusive {
		has, err := l.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return storage.ErrExists
		}
	}
	// the stage entry is always truncated: exclusivity was settled on
	// the published key above
	stageKey := filepath.Join(stageName, key)
	if err := l.write(stageKey, source); err != nil {
		return err
	}
	// Rename() doesn't create directories automatically
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %v", key, err)
		}
	}
	return l.fs.Rename(stageKey, key)
}

func (l *localFS) write(key string, source io.Reader) error {
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %v", key, err)
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC | os.O_SYNC
	target, err := l.fs.OpenFile(key, flag, 0600)
	if err != nil {
		return fmt.Errorf("create record for %q: %v", key, err)
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %v", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %v", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root || info.IsDir() {
			return nil
		}
		if maybeInvalidKey(path) != nil {
			// staged entries are not published keys
			return nil
		}
		res = append(res, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *localFS) Clear(ctx context.Context) error {
	return l.fs.RemoveAll("/")
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}
