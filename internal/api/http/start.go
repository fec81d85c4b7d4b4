package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"

	"github.com/ankurdental/dentaldesk/config"
	"github.com/ankurdental/dentaldesk/internal/api/http/router"
	"github.com/ankurdental/dentaldesk/internal/app"
)

// Start runs the API server until SIGINT/SIGTERM. timeout bounds the
// graceful shutdown of every component.
func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// NewServer registers the listen hook, so the app has to be
		// requested for it to be built.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
	).Run()
}
