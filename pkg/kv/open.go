package kv

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/pkg/crypto"
)

// Open builds the Store described by cfg. rdb is only used by the redis
// driver and may be nil otherwise.
func Open(ctx context.Context, cfg config.StorageConfig, rdb goredis.UniversalClient) (Store, error) {
	var (
		s   Store
		err error
	)

	switch strings.ToLower(cfg.Driver) {
	case "memory":
		s = NewMemory()
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "data/dentaldesk.db"
		}
		s, err = OpenSQLite(ctx, path)
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("storage driver redis: no redis client configured")
		}
		s = NewRedis(rdb)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	s = NewTraced(s, strings.ToLower(cfg.Driver))

	if cfg.EncryptionKey == "" {
		return s, nil
	}

	key, err := crypto.KeyFromHex(cfg.EncryptionKey)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("storage encryption key: %w", err)
	}
	enc, err := NewEncrypted(s, key)
	if err != nil {
		s.Close()
		return nil, err
	}
	return enc, nil
}
