package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
	"github.com/ankurdental/dentaldesk/internal/service/patient"
)

type PatientHandler struct {
	svc       patient.Service
	incidents incident.Service
	dashboard dashboard.Service
}

func NewPatientHandler(svc patient.Service, incidents incident.Service, dash dashboard.Service) *PatientHandler {
	return &PatientHandler{svc: svc, incidents: incidents, dashboard: dash}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound), errors.Is(err, dashboard.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrInvalidPatient):
		return badRequest(c, err.Error())
	case errors.Is(err, patient.ErrDuplicateID):
		return conflict(c, err.Error())
	default:
		return internalError(c, err)
	}
}

type patientBody struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Contact    string `json:"contact"`
	HealthInfo string `json:"healthInfo"`
}

// GET /patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	var q struct {
		Search string `query:"search"`
	}
	_ = c.Bind().Query(&q)

	patients, err := h.svc.List(c.Context(), patient.ListRequest{Search: q.Search})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, patients)
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var body patientBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), patient.CreateRequest{
		ID:         body.ID,
		Name:       body.Name,
		DOB:        body.DOB,
		Contact:    body.Contact,
		HealthInfo: body.HealthInfo,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PUT /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	var body struct {
		Name       *string `json:"name"`
		DOB        *string `json:"dob"`
		Contact    *string `json:"contact"`
		HealthInfo *string `json:"healthInfo"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), c.Params("id"), patient.UpdateRequest{
		Name:       body.Name,
		DOB:        body.DOB,
		Contact:    body.Contact,
		HealthInfo: body.HealthInfo,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// DELETE /patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapPatientError(c, err)
	}
	return noContent(c)
}

// GET /patients/:id/incidents
func (h *PatientHandler) Incidents(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.svc.Get(c.Context(), id); err != nil {
		return mapPatientError(c, err)
	}
	incidents, err := h.incidents.ForPatient(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}
	return ok(c, incidents)
}

// GET /patients/:id/dashboard
func (h *PatientHandler) Dashboard(c fiber.Ctx) error {
	var q struct {
		Status string `query:"status"`
	}
	_ = c.Bind().Query(&q)
	status := domain.Status(q.Status)
	if status != "" && !status.Valid() {
		return badRequest(c, "unknown status")
	}

	d, err := h.dashboard.Patient(c.Context(), dashboard.PatientRequest{PatientID: c.Params("id"), Status: status})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, d)
}
