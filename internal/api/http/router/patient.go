package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/handler"
	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
)

func (r *Router) registerPatientRoutes(
	api fiber.Router,
	ph *handler.PatientHandler,
	authRequired fiber.Handler,
	requirePerm permFunc,
) {
	clinic := middleware.ClinicScope
	own := middleware.PatientParamScope("id")

	patients := api.Group("/patients", authRequired)

	patients.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionList, clinic), ph.List)
	patients.Post("/", requirePerm(authorize.ResourcePatient, authorize.ActionCreate, clinic), ph.Create)

	p := patients.Group("/:id")
	p.Get("/", requirePerm(authorize.ResourcePatient, authorize.ActionRead, own), ph.Get)
	p.Put("/", requirePerm(authorize.ResourcePatient, authorize.ActionUpdate, own), ph.Update)
	p.Delete("/", requirePerm(authorize.ResourcePatient, authorize.ActionDelete, own), ph.Delete)

	p.Get("/incidents", requirePerm(authorize.ResourceIncident, authorize.ActionList, own), ph.Incidents)
	p.Get("/dashboard", requirePerm(authorize.ResourceDashboard, authorize.ActionRead, own), ph.Dashboard)
}
