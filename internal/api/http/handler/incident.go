package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
)

type IncidentHandler struct {
	svc incident.Service
}

func NewIncidentHandler(svc incident.Service) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

func mapIncidentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, incident.ErrIncidentNotFound), errors.Is(err, incident.ErrAttachmentNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, incident.ErrInvalidIncident),
		errors.Is(err, incident.ErrUnknownPatient),
		errors.Is(err, incident.ErrInvalidDataURL):
		return badRequest(c, err.Error())
	case errors.Is(err, incident.ErrDuplicateID):
		return conflict(c, err.Error())
	case errors.Is(err, incident.ErrAttachmentTooLarge):
		return tooLarge(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /incidents
func (h *IncidentHandler) List(c fiber.Ctx) error {
	var q struct {
		PatientID string `query:"patientId"`
		Status    string `query:"status"`
		Search    string `query:"search"`
	}
	_ = c.Bind().Query(&q)

	status := domain.Status(q.Status)
	if status != "" && !status.Valid() {
		return badRequest(c, "unknown status")
	}

	incidents, err := h.svc.List(c.Context(), incident.ListRequest{
		PatientID: q.PatientID,
		Status:    status,
		Search:    q.Search,
	})
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, incidents)
}

// POST /incidents
func (h *IncidentHandler) Create(c fiber.Ctx) error {
	var body struct {
		ID              string                  `json:"id"`
		PatientID       string                  `json:"patientId"`
		Title           string                  `json:"title"`
		Description     string                  `json:"description"`
		Comments        string                  `json:"comments"`
		AppointmentDate string                  `json:"appointmentDate"`
		Cost            *float64                `json:"cost"`
		Status          domain.Status           `json:"status"`
		Treatment       string                  `json:"treatment"`
		NextDate        string                  `json:"nextDate"`
		Files           []domain.FileAttachment `json:"files"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inc, err := h.svc.Create(c.Context(), incident.CreateRequest{
		ID:              body.ID,
		PatientID:       body.PatientID,
		Title:           body.Title,
		Description:     body.Description,
		Comments:        body.Comments,
		AppointmentDate: body.AppointmentDate,
		Cost:            body.Cost,
		Status:          body.Status,
		Treatment:       body.Treatment,
		NextDate:        body.NextDate,
		Files:           body.Files,
	})
	if err != nil {
		return mapIncidentError(c, err)
	}
	return created(c, inc)
}

// GET /incidents/:id
func (h *IncidentHandler) Get(c fiber.Ctx) error {
	if inc, found := middleware.IncidentFromFiber(c); found {
		return ok(c, inc)
	}
	inc, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, inc)
}

// PUT /incidents/:id
func (h *IncidentHandler) Update(c fiber.Ctx) error {
	var body struct {
		PatientID       *string                  `json:"patientId"`
		Title           *string                  `json:"title"`
		Description     *string                  `json:"description"`
		Comments        *string                  `json:"comments"`
		AppointmentDate *string                  `json:"appointmentDate"`
		Cost            *float64                 `json:"cost"`
		ClearCost       bool                     `json:"clearCost"`
		Status          *domain.Status           `json:"status"`
		Treatment       *string                  `json:"treatment"`
		NextDate        *string                  `json:"nextDate"`
		Files           *[]domain.FileAttachment `json:"files"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	inc, err := h.svc.Update(c.Context(), c.Params("id"), incident.UpdateRequest{
		PatientID:       body.PatientID,
		Title:           body.Title,
		Description:     body.Description,
		Comments:        body.Comments,
		AppointmentDate: body.AppointmentDate,
		Cost:            body.Cost,
		ClearCost:       body.ClearCost,
		Status:          body.Status,
		Treatment:       body.Treatment,
		NextDate:        body.NextDate,
		Files:           body.Files,
	})
	if err != nil {
		return mapIncidentError(c, err)
	}
	return ok(c, inc)
}

// DELETE /incidents/:id
func (h *IncidentHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapIncidentError(c, err)
	}
	return noContent(c)
}
