package model

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// CurrentReleaseVersion indicates the version of the release record model
	CurrentReleaseVersion uint64 = 1
)

var changeNameRe = regexp.MustCompile(`^[\w-][.\w-]*$`)

// ReleaseDescriptor is the persisted ledger of one in-flight change:
// the strategies declared for each package it touches, plus a nonce
// counter advanced by decline decisions so that "explicitly declined"
// can be told apart from "never decided".
type ReleaseDescriptor struct {
	Change       string         `json:"change" yaml:"change"`
	Nonce        uint64         `json:"nonce" yaml:"nonce"`
	Releases     []ReleaseEntry `json:"releases" yaml:"releases"`
	Timestamp    time.Time      `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Contributors []Contributor  `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	Version      uint64         `json:"version,omitempty" yaml:"version,omitempty"` // record model version
	_            struct{}
}

// ReleaseEntry binds one package to its declared strategy
type ReleaseEntry struct {
	Package  PackageID `json:"package" yaml:"package"`
	Strategy Strategy  `json:"strategy" yaml:"strategy"`
	_        struct{}
}

// NewReleaseDescriptor builds an empty record for a change
func NewReleaseDescriptor(change string, opts ...ReleaseDescriptorOption) *ReleaseDescriptor {
	rd := &ReleaseDescriptor{
		Change:  change,
		Version: CurrentReleaseVersion,
	}
	for _, apply := range opts {
		apply(rd)
	}
	return rd
}

// Get the strategy declared for a package, if any
func (rd *ReleaseDescriptor) Get(pkg PackageID) (Strategy, bool) {
	for _, entry := range rd.Releases {
		if entry.Package == pkg {
			return entry.Strategy, true
		}
	}
	return Strategy{}, false
}

// Set the strategy for a package. A prior entry for the same package
// is overwritten: last write wins within a single record.
func (rd *ReleaseDescriptor) Set(pkg PackageID, strategy Strategy) {
	for i, entry := range rd.Releases {
		if entry.Package == pkg {
			rd.Releases[i].Strategy = strategy
			return
		}
	}
	rd.Releases = append(rd.Releases, ReleaseEntry{Package: pkg, Strategy: strategy})
}

// ValidateRelease checks a deserialized record for structural sanity
func ValidateRelease(rd ReleaseDescriptor) error {
	if rd.Change == "" {
		return fmt.Errorf("release record has no change name")
	}
	if !changeNameRe.MatchString(rd.Change) {
		return fmt.Errorf("change name %q contains invalid characters", rd.Change)
	}
	seen := make(map[PackageID]struct{}, len(rd.Releases))
	for _, entry := range rd.Releases {
		if err := entry.Package.Validate(); err != nil {
			return err
		}
		if _, dup := seen[entry.Package]; dup {
			return fmt.Errorf("package %v declared twice in record %q", entry.Package, rd.Change)
		}
		seen[entry.Package] = struct{}{}
	}
	return nil
}

// GetReleaseTimestamp returns a normalized record timestamp
func GetReleaseTimestamp() time.Time {
	return time.Now().UTC()
}
