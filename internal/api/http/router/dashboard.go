package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/handler"
	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
)

func (r *Router) registerDashboardRoutes(
	api fiber.Router,
	h *handler.DashboardHandler,
	authRequired fiber.Handler,
	requirePerm permFunc,
) {
	api.Get("/dashboard", authRequired,
		requirePerm(authorize.ResourceDashboard, authorize.ActionRead, middleware.SelfScope), h.Dashboard)

	cal := api.Group("/calendar", authRequired,
		requirePerm(authorize.ResourceCalendar, authorize.ActionRead, middleware.ClinicScope))
	cal.Get("/", h.Month)
	cal.Get("/day", h.Day)
}
