// Package storage abstracts the K/V stores holding persisted
// release records.
//
// Stores are file system-like and deliberately simple: release
// records are small yaml documents keyed by their archive path.
package storage

import (
	"context"
	"io"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrNotFound indicates an object was not found
	ErrNotFound errString = "not found"

	// ErrExists indicates an object already exists when an exclusive create was requested
	ErrExists errString = "exists already"
)

const (
	// OverWrite an existing object on Put
	OverWrite = false

	// NoOverWrite requires an exclusive create on Put
	NoOverWrite = true
)

// Store implementations know how to read and write release records as K/V entries.
//
// Typically this is something file system-like. Implementations of this
// interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// PipeIO copies the reader to the writer with a fixed-size buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	buf := make([]byte, 32*1024)
	return io.CopyBuffer(writer, reader, buf)
}
