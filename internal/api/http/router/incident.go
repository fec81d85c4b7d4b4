package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/handler"
	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
)

func (r *Router) registerIncidentRoutes(
	api fiber.Router,
	ih *handler.IncidentHandler,
	fh *handler.FileHandler,
	authRequired fiber.Handler,
	requirePerm permFunc,
) {
	clinic := middleware.ClinicScope
	owner := middleware.IncidentScope(r.p.IncidentSvc, "id")

	incidents := api.Group("/incidents", authRequired)

	incidents.Get("/", requirePerm(authorize.ResourceIncident, authorize.ActionList, clinic), ih.List)
	incidents.Post("/", requirePerm(authorize.ResourceIncident, authorize.ActionCreate, clinic), ih.Create)

	i := incidents.Group("/:id")
	i.Get("/", requirePerm(authorize.ResourceIncident, authorize.ActionRead, owner), ih.Get)
	i.Put("/", requirePerm(authorize.ResourceIncident, authorize.ActionUpdate, owner), ih.Update)
	i.Delete("/", requirePerm(authorize.ResourceIncident, authorize.ActionDelete, owner), ih.Delete)

	// Files
	i.Post("/files", requirePerm(authorize.ResourceIncidentFile, authorize.ActionCreate, owner), fh.Upload)
	i.Get("/files/:index", requirePerm(authorize.ResourceIncidentFile, authorize.ActionRead, owner), fh.Download)
	i.Delete("/files/:index", requirePerm(authorize.ResourceIncidentFile, authorize.ActionDelete, owner), fh.Remove)
}
