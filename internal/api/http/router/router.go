package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/api/http/handler"
	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/internal/service/calendar"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
	"github.com/ankurdental/dentaldesk/internal/service/patient"
	"github.com/ankurdental/dentaldesk/internal/service/session"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg          *config.Config
	Store        *store.Store
	Auth         authorize.IAuthorization
	SessionSvc   session.Service
	PatientSvc   patient.Service
	IncidentSvc  incident.Service
	DashboardSvc dashboard.Service
	CalendarSvc  calendar.Service
	PasetoMgr    *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

// permFunc builds a RequirePermission handler for one route.
type permFunc func(authorize.Resource, authorize.Action, middleware.ScopeFunc) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.SessionSvc, r.p.Auth)
	requirePerm := func(res authorize.Resource, act authorize.Action, scope middleware.ScopeFunc) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act, scope)
	}

	// 3. Initialize Handlers
	authH := handler.NewAuthHandler(r.p.SessionSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc, r.p.IncidentSvc, r.p.DashboardSvc)
	incidentH := handler.NewIncidentHandler(r.p.IncidentSvc)
	fileH := handler.NewFileHandler(r.p.IncidentSvc)
	dashboardH := handler.NewDashboardHandler(r.p.DashboardSvc, r.p.CalendarSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerPatientRoutes(api, patientH, authRequired, requirePerm)
	r.registerIncidentRoutes(api, incidentH, fileH, authRequired, requirePerm)
	r.registerDashboardRoutes(api, dashboardH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.p.Store.Ping(c.Context()) == nil },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
