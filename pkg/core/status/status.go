// Package status exports errors produced by the core package.
package status

import (
	"github.com/paul-soporan/relmon/pkg/errors"
)

var (
	// ErrInvalidVersion indicates a strategy which is neither a bump keyword
	// nor a valid semantic version
	ErrInvalidVersion = errors.New("invalid version strategy")

	// ErrInvalidBump indicates a relative bump requested against a package
	// with no existing version: such a package must be given an explicit
	// version first
	ErrInvalidBump = errors.New("cannot apply a relative bump to an unversioned package")

	// ErrRegression indicates a new candidate version lower than a version
	// already pending in the merged ledger: pending release intent is monotonic
	ErrRegression = errors.New("pending version regression")

	// ErrRecordNotFound indicates a pending release record absent from the store
	ErrRecordNotFound = errors.New("release record not found")

	// ErrMalformedRecord indicates a pending release record which could not be
	// decoded; the record is named so it can be inspected and fixed by hand
	ErrMalformedRecord = errors.New("malformed release record")

	// ErrPersistence indicates an I/O failure while saving a record; the
	// in-memory record is left intact so the save may be retried
	ErrPersistence = errors.New("failed to persist release record")
)
