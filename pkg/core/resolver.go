package core

import (
	"context"
	"sort"
	"strings"

	"github.com/blang/semver"
	"github.com/paul-soporan/relmon/pkg/core/status"
	"github.com/paul-soporan/relmon/pkg/model"
	"github.com/paul-soporan/relmon/pkg/storage"
	"go.uber.org/zap"
)

// Project enumerates workspace members and their current manifest versions.
// This is the only view of the workspace the resolver consumes.
type Project interface {
	Members(ctx context.Context) ([]ProjectMember, error)
}

// ProjectMember is one workspace package with its currently released version
type ProjectMember struct {
	ID      model.PackageID
	Version string // empty when the package has never been released
	_       struct{}
}

// MergedLedger is the derived, read-only merge of every pending release
// record: for each package, the strongest pending version commitment.
// It is recomputed on demand and never persisted.
type MergedLedger struct {
	// Versions maps each package to its resolved pending version
	Versions map[model.PackageID]string

	// Declined maps packages only ever declined to the highest decline
	// nonce seen across records
	Declined map[model.PackageID]uint64

	// Records lists the change names that contributed, sorted
	Records []string

	_ struct{}
}

// PendingVersion yields the merged pending version for a package
func (m *MergedLedger) PendingVersion(pkg model.PackageID) (string, bool) {
	v, ok := m.Versions[pkg]
	return v, ok
}

// ResolveVersionFiles discovers every pending release record in the
// store and merges them against the project's current versions.
//
// When several records name the same package, the highest candidate
// under semantic-version ordering wins: concurrent changes may request
// different bump levels and the ledger reflects the strongest pending
// commitment, never the first or last record seen. Declines contribute
// no version. The resolver mutates nothing.
//
// Any record that fails to decode aborts resolution with
// status.ErrMalformedRecord naming the record: a partially merged
// ledger is never returned.
func ResolveVersionFiles(ctx context.Context, project Project, store storage.Store, opts ...Option) (*MergedLedger, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}

	members, err := project.Members(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[model.PackageID]string, len(members))
	for _, member := range members {
		current[member.ID] = member.Version
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, status.ErrPersistence.Wrap(err)
	}

	ledger := &MergedLedger{
		Versions: make(map[model.PackageID]string),
		Declined: make(map[model.PackageID]uint64),
	}

	for _, key := range keys {
		// keys outside the release area are not records
		if !strings.HasPrefix(key, model.GetArchivePathPrefixToReleases()) {
			continue
		}
		change, ok := model.GetArchivePathComponents(key)
		if !ok {
			continue
		}
		descriptor, err := loadRelease(ctx, change, store)
		if err != nil {
			return nil, err
		}
		ledger.Records = append(ledger.Records, change)

		for _, entry := range descriptor.Releases {
			currentVersion, known := current[entry.Package]
			if !known {
				settings.l.Warn("release record names a package absent from the workspace",
					zap.String("change", change),
					zap.String("package", entry.Package.String()),
				)
				continue
			}
			switch {
			case entry.Strategy.IsUndecided():
				continue
			case entry.Strategy.IsDecline():
				if descriptor.Nonce > ledger.Declined[entry.Package] {
					ledger.Declined[entry.Package] = descriptor.Nonce
				}
				continue
			}

			candidate, err := ApplyStrategy(currentVersion, entry.Strategy)
			if err != nil {
				return nil, err
			}
			if err := mergeCandidate(ledger, entry.Package, candidate); err != nil {
				return nil, status.ErrMalformedRecord.WrapMessage("record %q: %v", change, err)
			}
		}
	}

	sort.Strings(ledger.Records)
	return ledger, nil
}

func mergeCandidate(ledger *MergedLedger, pkg model.PackageID, candidate string) error {
	existing, ok := ledger.Versions[pkg]
	if !ok {
		ledger.Versions[pkg] = candidate
		return nil
	}
	ev, err := semver.Parse(existing)
	if err != nil {
		return err
	}
	cv, err := semver.Parse(candidate)
	if err != nil {
		return err
	}
	if cv.GT(ev) {
		ledger.Versions[pkg] = candidate
	}
	return nil
}

// CheckRegression guards a new candidate version against the merged
// ledger before it is written into a record: a candidate lower than an
// already pending version fails with status.ErrRegression carrying both
// versions. Pending release intent is monotonic.
func CheckRegression(ledger *MergedLedger, pkg model.PackageID, candidate string) error {
	pending, ok := ledger.PendingVersion(pkg)
	if !ok {
		return nil
	}
	pv, err := semver.Parse(pending)
	if err != nil {
		return status.ErrInvalidVersion.WrapMessage("pending version %q", pending)
	}
	cv, err := semver.Parse(candidate)
	if err != nil {
		return status.ErrInvalidVersion.WrapMessage("candidate version %q", candidate)
	}
	if cv.LT(pv) {
		return status.ErrRegression.WrapMessage("package %v: new candidate %s is lower than pending %s",
			pkg, candidate, pending)
	}
	return nil
}
