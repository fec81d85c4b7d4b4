// Package storetest builds in-memory stores for tests in other packages.
package storetest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	"github.com/ankurdental/dentaldesk/pkg/util/password"
)

// FastParams makes seeding six users take microseconds.
var FastParams = &password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func Hasher() *password.Hasher { return password.NewHasher(FastParams) }

func Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// New returns an empty store over a fresh memory backend.
func New(t testing.TB) (*store.Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	t.Cleanup(func() { mem.Close() })
	return store.New(mem, store.WithHasher(Hasher()), store.WithLogger(Logger())), mem
}

// Seeded returns a store holding the seed collections.
func Seeded(t testing.TB) *store.Store {
	t.Helper()
	s, _ := New(t)
	if _, err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return s
}
