// Package kv is the string-keyed substrate under the persisted store.
// Backends hold opaque byte values; encoding lives in Codec and
// encryption in Encrypted.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrCorrupt marks a value that exists but cannot be read back,
	// e.g. a failed authentication tag. Callers treat it like a parse error.
	ErrCorrupt = errors.New("kv: corrupt value")
	ErrClosed  = errors.New("kv: store closed")
)

type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
