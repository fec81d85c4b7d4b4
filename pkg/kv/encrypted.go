package kv

import (
	"context"
	"fmt"

	"github.com/ankurdental/dentaldesk/pkg/crypto"
)

// Encrypted seals every value with AES-256-GCM before it reaches the
// wrapped store. The key name is bound as additional data.
type Encrypted struct {
	next Store
	key  []byte
}

func NewEncrypted(next Store, key []byte) (*Encrypted, error) {
	if len(key) != 32 {
		return nil, crypto.ErrInvalidKey
	}
	return &Encrypted{next: next, key: key}, nil
}

func (e *Encrypted) Get(ctx context.Context, key string) ([]byte, bool, error) {
	sealed, ok, err := e.next.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	plain, err := crypto.Open(e.key, sealed, []byte(key))
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return plain, true, nil
}

func (e *Encrypted) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := crypto.Seal(e.key, value, []byte(key))
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return e.next.Set(ctx, key, sealed)
}

func (e *Encrypted) Delete(ctx context.Context, key string) error {
	return e.next.Delete(ctx, key)
}

func (e *Encrypted) Close() error {
	return e.next.Close()
}
