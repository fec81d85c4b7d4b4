// Package cmdutil holds what the one-shot commands share: reading the
// config named by the root --config flag and opening the store it
// describes.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/app"
	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/session"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/clock"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	"github.com/ankurdental/dentaldesk/pkg/logs"
	redispkg "github.com/ankurdental/dentaldesk/pkg/redis"
)

var (
	ErrNotLoggedIn = errors.New("not logged in, run `dentaldesk session login` first")
	ErrAdminOnly   = errors.New("this command needs an admin desk session")
)

// LoadConfig reads the config file next to the --config path and installs
// the CLI logger.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	slog.SetDefault(logs.NewCLI(cfg))
	return cfg, nil
}

// Env is an opened store plus everything needed to close it again.
type Env struct {
	Cfg   *config.Config
	Store *store.Store
	KV    kv.Store

	rdb *goredis.Client
}

// Open opens the store and, with clinic.seed_on_start, seeds whatever
// collections are missing, the same as a server boot does.
func Open(cmd *cobra.Command) (*Env, error) {
	env, err := OpenUnseeded(cmd)
	if err != nil {
		return nil, err
	}
	if !env.Cfg.Clinic.SeedOnStart {
		return env, nil
	}
	seeded, err := env.Store.Initialize(cmd.Context())
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if len(seeded) > 0 {
		slog.Info("seeded store", slog.Any("keys", seeded))
	}
	return env, nil
}

// OpenUnseeded opens the store as it is. The system commands use it so
// they see the store before any seeding.
func OpenUnseeded(cmd *cobra.Command) (*Env, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	env := &Env{Cfg: cfg}
	if cfg.Redis.Addr != "" {
		if env.rdb, err = redispkg.NewRedisFromCentral(ctx, cfg.Redis); err != nil {
			return nil, err
		}
	}

	if env.KV, err = app.OpenKV(ctx, cfg, env.rdb); err != nil {
		env.Close()
		return nil, err
	}
	if env.Store, err = app.NewStore(cfg, env.KV); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *Env) Close() {
	if e.KV != nil {
		if err := e.KV.Close(); err != nil {
			slog.Warn("close storage", slog.String("error", err.Error()))
		}
	}
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
}

// Sessions returns the desk session service. The CLI never issues API
// tokens.
func (e *Env) Sessions() session.Service {
	ttl := time.Duration(e.Cfg.Authentication.SessionTTLMinutes) * time.Minute
	return session.New(e.Store, e.KV, nil, clock.Real(), ttl)
}

// DeskUser returns the logged-in desk user, optionally requiring Admin.
func (e *Env) DeskUser(ctx context.Context, adminOnly bool) (*domain.User, error) {
	u, err := e.Sessions().Restore(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	if adminOnly && !u.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return u, nil
}

// NewTable returns a borderless table with the given header.
func NewTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetHeaderLine(true)
	t.SetColumnSeparator(" ")
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// Money renders a cost the way the desk shows it; nil is a dash.
func Money(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
