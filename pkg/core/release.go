package core

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/paul-soporan/relmon/pkg/core/status"
	"github.com/paul-soporan/relmon/pkg/errors"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/paul-soporan/relmon/pkg/storage"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v2"
)

// PendingRelease is the in-memory handle on one change's release record.
//
// A record is owned by a single change. Mutations are in-memory only
// until SaveAll persists the full record state through the store.
type PendingRelease struct {
	Descriptor model.ReleaseDescriptor

	store storage.Store
	l     *zap.Logger
}

// OpenRelease loads the record owned by a change from the record store.
//
// When no record exists yet, the AllowEmpty option makes OpenRelease
// return a fresh empty record instead of failing with
// status.ErrRecordNotFound.
func OpenRelease(ctx context.Context, change string, store storage.Store, opts ...Option) (*PendingRelease, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}

	descriptor, err := loadRelease(ctx, change, store)
	if err != nil {
		if !errors.Is(err, status.ErrRecordNotFound) || !settings.allowEmpty {
			return nil, err
		}
		settings.l.Debug("no release record yet, starting empty", zap.String("change", change))
		descriptor = model.NewReleaseDescriptor(change)
	}

	return &PendingRelease{
		Descriptor: *descriptor,
		store:      store,
		l:          settings.l,
	}, nil
}

func loadRelease(ctx context.Context, change string, store storage.Store) (*model.ReleaseDescriptor, error) {
	key := model.GetArchivePathToRelease(change)
	rdr, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, status.ErrRecordNotFound.WrapMessage("%q", change)
		}
		return nil, status.ErrPersistence.Wrap(err)
	}
	defer rdr.Close()

	buf, err := ioutil.ReadAll(rdr)
	if err != nil {
		return nil, status.ErrPersistence.Wrap(err)
	}

	var descriptor model.ReleaseDescriptor
	if err := yaml.Unmarshal(buf, &descriptor); err != nil {
		return nil, status.ErrMalformedRecord.WrapMessage("record %q: %v", change, err)
	}
	if descriptor.Change == "" {
		// tolerate records written before the change name was embedded
		descriptor.Change = change
	}
	if descriptor.Change != change {
		return nil, status.ErrMalformedRecord.WrapMessage("record %q names change %q", change, descriptor.Change)
	}
	if err := model.ValidateRelease(descriptor); err != nil {
		return nil, status.ErrMalformedRecord.WrapMessage("record %q: %v", change, err)
	}
	return &descriptor, nil
}

// Get the strategy declared for a package in this record
func (r *PendingRelease) Get(pkg model.PackageID) (model.Strategy, bool) {
	return r.Descriptor.Get(pkg)
}

// Set the strategy for a package, overwriting any prior entry in this
// record. The scope of last-write-wins is this single record only.
func (r *PendingRelease) Set(pkg model.PackageID, strategy model.Strategy) error {
	if err := pkg.Validate(); err != nil {
		return status.ErrInvalidVersion.WrapMessage("%v", err)
	}
	r.Descriptor.Set(pkg, strategy)
	return nil
}

// Decline records that a package is acknowledged but not bumped by this
// change, and advances the record nonce so a later check can tell
// "explicitly declined" from "never decided".
func (r *PendingRelease) Decline(pkg model.PackageID) error {
	if err := r.Set(pkg, model.KeywordStrategy(model.KeywordDecline)); err != nil {
		return err
	}
	r.Descriptor.Nonce++
	return nil
}

// Nonce yields the current decline nonce of the record
func (r *PendingRelease) Nonce() uint64 {
	return r.Descriptor.Nonce
}

// SaveAll persists the full in-memory record state.
//
// The store writes through a staging area, so a failed or interrupted
// save leaves the previous on-disk record intact. On failure the
// in-memory state is preserved and the save may be retried.
func (r *PendingRelease) SaveAll(ctx context.Context) error {
	r.Descriptor.Timestamp = model.GetReleaseTimestamp()
	if r.Descriptor.Version == 0 {
		r.Descriptor.Version = model.CurrentReleaseVersion
	}
	buf, err := yaml.Marshal(r.Descriptor)
	if err != nil {
		return status.ErrPersistence.Wrap(err)
	}
	key := model.GetArchivePathToRelease(r.Descriptor.Change)
	if err := r.store.Put(ctx, key, bytes.NewReader(buf), storage.OverWrite); err != nil {
		return status.ErrPersistence.Wrap(err)
	}
	r.l.Debug("saved release record",
		zap.String("change", r.Descriptor.Change),
		zap.Int("entries", len(r.Descriptor.Releases)),
		zap.Uint64("nonce", r.Descriptor.Nonce),
	)
	return nil
}
