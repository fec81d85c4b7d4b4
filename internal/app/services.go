package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/service/calendar"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
	"github.com/ankurdental/dentaldesk/internal/service/notification"
	"github.com/ankurdental/dentaldesk/internal/service/patient"
	"github.com/ankurdental/dentaldesk/internal/service/session"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	"github.com/ankurdental/dentaldesk/pkg/clock"
	"github.com/ankurdental/dentaldesk/pkg/email"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideClock,
		ProvidePatientService,
		ProvideIncidentService,
		ProvideSessionService,
		ProvideDashboardService,
		ProvideCalendarService,
		ProvideNotificationService,
		ProvidePasetoManager,
	),
)

func ProvideClock() clock.Clock { return clock.Real() }

func ProvidePatientService(st *store.Store, events event.Publisher, clk clock.Clock, auth authorize.IAuthorization, cfg *config.Config) patient.Service {
	return patient.New(st, events, clk, cfg.Clinic.DefaultRegion, auth)
}

func ProvideIncidentService(st *store.Store, events event.Publisher, cfg *config.Config) incident.Service {
	return incident.New(st, events, int64(cfg.Server.MaxUploadMB)<<20)
}

func ProvideSessionService(
	st *store.Store,
	backend kv.Store,
	paseto *pasetotoken.Manager,
	clk clock.Clock,
	cfg *config.Config,
) session.Service {
	ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	return session.New(st, backend, paseto, clk, ttl)
}

func ProvideDashboardService(st *store.Store, clk clock.Clock) dashboard.Service {
	return dashboard.New(st, clk)
}

func ProvideCalendarService(st *store.Store) calendar.Service {
	return calendar.New(st)
}

func ProvideNotificationService(st *store.Store, emailClient *email.Client, cfg *config.Config) notification.Service {
	return notification.New(st, emailClient, cfg.Clinic.Name)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
