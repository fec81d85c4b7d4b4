package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/internal/service/notification"
	"github.com/ankurdental/dentaldesk/pkg/email"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn `optional:"true"`
	Email    *email.Client
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("notification_worker: nats not configured, skipping")
		return
	}
	if !p.Email.Enabled() {
		slog.Info("notification_worker: email disabled, skipping")
		return
	}

	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			subs, err = p.NotifSvc.Start(p.NC)
			if err != nil {
				return err
			}
			slog.Info("notification_worker: started", slog.Int("subscriptions", len(subs)))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			drainAll(subs)
			return nil
		},
	})
}

// drainer is the part of *nats.Subscription the stop hook needs.
type drainer interface {
	Drain() error
}

// drainAll lets every subscription finish the messages it already holds
// before unsubscribing. fx stops hooks in reverse order, so this runs
// before the connection drain in ProvideNatsClient.
func drainAll[S drainer](subs []S) {
	for _, s := range subs {
		if err := s.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("notification_worker: drain failed", slog.String("error", err.Error()))
		}
	}
}
