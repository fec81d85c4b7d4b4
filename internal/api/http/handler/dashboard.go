package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/calendar"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboard dashboard.Service
	calendar  calendar.Service
}

func NewDashboardHandler(dash dashboard.Service, cal calendar.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dash, calendar: cal}
}

// GET /dashboard
//
// Admins get the clinic overview, patients their own dashboard.
func (h *DashboardHandler) Dashboard(c fiber.Ctx) error {
	u, found := middleware.UserFromFiber(c)
	if !found {
		return unauthorized(c, "unauthorized")
	}

	if u.IsAdmin() {
		d, err := h.dashboard.Admin(c.Context())
		if err != nil {
			return internalError(c, err)
		}
		return ok(c, d)
	}

	d, err := h.dashboard.Patient(c.Context(), dashboard.PatientRequest{PatientID: u.PatientID})
	if err != nil {
		if errors.Is(err, dashboard.ErrPatientNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c, err)
	}
	return ok(c, d)
}

// GET /calendar?year=&month=
func (h *DashboardHandler) Month(c fiber.Ctx) error {
	now := time.Now()
	var q struct {
		Year  int `query:"year"`
		Month int `query:"month"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid year or month")
	}
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Month == 0 {
		q.Month = int(now.Month())
	}

	m, err := h.calendar.Month(c.Context(), q.Year, time.Month(q.Month))
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidMonth) {
			return badRequest(c, err.Error())
		}
		return internalError(c, err)
	}
	return ok(c, m)
}

// GET /calendar/day?date=YYYY-MM-DD
func (h *DashboardHandler) Day(c fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		raw = time.Now().Format(domain.DateLayout)
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return badRequest(c, "date must be YYYY-MM-DD")
	}

	d, err := h.calendar.Day(c.Context(), date)
	if err != nil {
		return internalError(c, err)
	}
	return ok(c, d)
}
