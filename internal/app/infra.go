package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	"github.com/ankurdental/dentaldesk/pkg/email"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	"github.com/ankurdental/dentaldesk/pkg/observability"
	redispkg "github.com/ankurdental/dentaldesk/pkg/redis"
	"github.com/ankurdental/dentaldesk/pkg/util/password"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideKV),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideEventPublisher),
)

// ProvideRedis returns nil when redis.addr is empty; everything that takes
// the client treats it as optional.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := redispkg.NewRedisFromCentral(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideKV(lc fx.Lifecycle, cfg *config.Config, rdb *redis.Client) (kv.Store, error) {
	backend, err := OpenKV(context.Background(), cfg, rdb)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing storage backend")
			return backend.Close()
		},
	})
	return backend, nil
}

// ProvideStore builds the store and, when clinic.seed_on_start is set,
// seeds missing collections before the server starts listening.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, backend kv.Store) (*store.Store, error) {
	st, err := NewStore(cfg, backend)
	if err != nil {
		return nil, err
	}
	if cfg.Clinic.SeedOnStart {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_, err := st.Initialize(ctx)
				return err
			},
		})
	}
	return st, nil
}

// OpenKV opens the configured substrate. A nil rdb is fine unless the
// driver is redis.
func OpenKV(ctx context.Context, cfg *config.Config, rdb *redis.Client) (kv.Store, error) {
	var client redis.UniversalClient
	if rdb != nil {
		client = rdb
	}
	backend, err := kv.Open(ctx, cfg.Storage, client)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return backend, nil
}

// NewStore wraps backend with the configured codec, key prefix and
// password hasher.
func NewStore(cfg *config.Config, backend kv.Store) (*store.Store, error) {
	codec, err := kv.NewCodec(cfg.Storage.Codec)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{
		store.WithCodec(codec),
		store.WithHasher(password.NewHasher(password.FromCentralConfig(cfg.Password).ToParams())),
	}
	if cfg.Storage.KeyPrefix != "" {
		opts = append(opts, store.WithKeyPrefix(cfg.Storage.KeyPrefix))
	}
	return store.New(backend, opts...), nil
}

func ProvideAuthorization(cfg *config.Config) (authorize.IAuthorization, error) {
	return authorize.New(authorize.FromCentralConfig(cfg.Authorization))
}

func ProvideEmailClient(cfg *config.Config) *email.Client {
	return email.NewFromCentral(cfg.Email, cfg.Clinic.Name)
}

// ProvideNatsClient returns nil when nats.url is empty. Events are then
// dropped and the notification worker does not start.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

// ProvideEventPublisher keeps a nil connection from turning into a
// non-nil interface.
func ProvideEventPublisher(nc *nats.Conn) event.Publisher {
	if nc == nil {
		return nil
	}
	return nc
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
