package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/api/http/handler"
	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/internal/api/http/router"
	"github.com/ankurdental/dentaldesk/pkg/constants"
	"github.com/ankurdental/dentaldesk/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := NewApp(p.Cfg, p.Redis, p.OTel != nil && p.OTel.Enabled())
	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			slog.Info("HTTP server listening", slog.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// NewApp builds the fiber app with the global middleware stack but no routes.
func NewApp(cfg *config.Config, rdb *redis.Client, telemetry bool) *fiber.App {
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	bodyLimit := (cfg.Server.MaxUploadMB + 1) << 20

	app := fiber.New(fiber.Config{
		AppName:      constants.AppName,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		BodyLimit:    bodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})

	if telemetry {
		app.Use(observability.FiberMiddleware())
	}

	configureGlobalMiddleware(app, cfg, rdb)
	return app
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.Environment == constants.EnvProduction {
		h := cfg.Server.Headers
		app.Use(helmet.New(helmet.Config{
			XSSProtection:             h.XSSProtection,
			ContentTypeNosniff:        h.ContentTypeNosniff,
			XFrameOptions:             h.XFrameOptions,
			ReferrerPolicy:            h.ReferrerPolicy,
			CrossOriginEmbedderPolicy: h.CrossOriginEmbedderPolicy,
			CrossOriginOpenerPolicy:   h.CrossOriginOpenerPolicy,
			CrossOriginResourcePolicy: h.CrossOriginResourcePolicy,
			OriginAgentCluster:        h.OriginAgentCluster,
			XDNSPrefetchControl:       h.XDNSPrefetchControl,
			XDownloadOptions:          h.XDownloadOptions,
			XPermittedCrossDomain:     h.XPermittedCrossDomain,
		}))
		if c := cfg.Server.CORS; c.Enabled {
			app.Use(cors.New(cors.Config{
				AllowOrigins:     c.AllowOrigins,
				AllowMethods:     c.AllowMethods,
				AllowHeaders:     c.AllowHeaders,
				ExposeHeaders:    c.ExposeHeaders,
				AllowCredentials: c.AllowCredentials,
				MaxAge:           c.MaxAgeSeconds,
			}))
		}
		app.Use(middleware.NewLimiter(rdb, cfg.Server.RateLimit.RequestsPerMinute))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${locals:requestid}] ${method} ${url} ${status} ${latency}\n",
	}))
}
