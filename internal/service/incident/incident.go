package incident

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	PatientID string
	Status    domain.Status // empty means all
	// Search matches the title or the patient's name, case-insensitively.
	Search string
}

type CreateRequest struct {
	ID              string // generated when empty
	PatientID       string
	Title           string
	Description     string
	Comments        string
	AppointmentDate string
	Cost            *float64
	Status          domain.Status // Pending when empty
	Treatment       string
	NextDate        string
	Files           []domain.FileAttachment
}

type UpdateRequest struct {
	PatientID       *string
	Title           *string
	Description     *string
	Comments        *string
	AppointmentDate *string
	Cost            *float64
	ClearCost       bool
	Status          *domain.Status
	Treatment       *string
	NextDate        *string // empty string clears
	Files           *[]domain.FileAttachment
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) ([]domain.Incident, error)
	Get(ctx context.Context, id string) (*domain.Incident, error)
	Create(ctx context.Context, req CreateRequest) (*domain.Incident, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*domain.Incident, error)
	Delete(ctx context.Context, id string) error
	ForPatient(ctx context.Context, patientID string) ([]domain.Incident, error)

	// Attachments
	AddAttachment(ctx context.Context, id, name, mime string, data []byte) (*domain.Incident, error)
	RemoveAttachment(ctx context.Context, id string, index int) (*domain.Incident, error)
	Attachment(ctx context.Context, id string, index int) (*domain.FileAttachment, []byte, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type incidentService struct {
	store    *store.Store
	events   event.Publisher
	maxBytes int64
}

// New builds the service. maxUploadBytes <= 0 disables the size check.
func New(st *store.Store, events event.Publisher, maxUploadBytes int64) Service {
	return &incidentService{store: st, events: events, maxBytes: maxUploadBytes}
}

func (s *incidentService) List(ctx context.Context, req ListRequest) ([]domain.Incident, error) {
	incidents, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(req.Search))
	var names map[string]string
	if q != "" {
		patients, err := s.store.Patients(ctx)
		if err != nil {
			return nil, fmt.Errorf("list incidents: %w", err)
		}
		names = make(map[string]string, len(patients))
		for _, p := range patients {
			names[p.ID] = strings.ToLower(p.Name)
		}
	}

	out := make([]domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if req.PatientID != "" && inc.PatientID != req.PatientID {
			continue
		}
		if req.Status != "" && inc.Status != req.Status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(inc.Title), q) &&
			!strings.Contains(names[inc.PatientID], q) {
			continue
		}
		out = append(out, inc)
	}
	return out, nil
}

func (s *incidentService) ForPatient(ctx context.Context, patientID string) ([]domain.Incident, error) {
	return s.List(ctx, ListRequest{PatientID: patientID})
}

func (s *incidentService) Get(ctx context.Context, id string) (*domain.Incident, error) {
	incidents, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("get incident: %w", err)
	}
	for i := range incidents {
		if incidents[i].ID == id {
			return &incidents[i], nil
		}
	}
	return nil, ErrIncidentNotFound
}

func (s *incidentService) Create(ctx context.Context, req CreateRequest) (*domain.Incident, error) {
	inc := domain.Incident{
		ID:          strings.TrimSpace(req.ID),
		PatientID:   strings.TrimSpace(req.PatientID),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Comments:    req.Comments,
		Cost:        req.Cost,
		Status:      req.Status,
		Treatment:   req.Treatment,
		Files:       req.Files,
	}
	if inc.Status == "" {
		inc.Status = domain.StatusPending
	}
	if inc.Files == nil {
		inc.Files = []domain.FileAttachment{}
	}

	at, err := parseTimestamp("appointment date", req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	inc.AppointmentDate = at
	if err := setNextDate(&inc, req.NextDate); err != nil {
		return nil, err
	}

	if err := s.validate(ctx, inc); err != nil {
		return nil, err
	}

	if inc.ID == "" {
		inc.ID = "i-" + uuid.NewString()
	} else if _, err := s.Get(ctx, inc.ID); err == nil {
		return nil, ErrDuplicateID
	}

	if err := s.store.AddIncident(ctx, inc); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	slog.Info("incident created",
		slog.String("incident_id", inc.ID),
		slog.String("patient_id", inc.PatientID))
	event.Emit(s.events, event.SubjectIncidentCreated, eventOf(inc))
	return &inc, nil
}

func (s *incidentService) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Incident, error) {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := inc.Status

	if req.PatientID != nil {
		inc.PatientID = strings.TrimSpace(*req.PatientID)
	}
	if req.Title != nil {
		inc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		inc.Description = *req.Description
	}
	if req.Comments != nil {
		inc.Comments = *req.Comments
	}
	if req.AppointmentDate != nil {
		at, err := parseTimestamp("appointment date", *req.AppointmentDate)
		if err != nil {
			return nil, err
		}
		inc.AppointmentDate = at
	}
	switch {
	case req.ClearCost:
		inc.Cost = nil
	case req.Cost != nil:
		inc.Cost = req.Cost
	}
	if req.Status != nil {
		inc.Status = *req.Status
	}
	if req.Treatment != nil {
		inc.Treatment = *req.Treatment
	}
	if req.NextDate != nil {
		if err := setNextDate(inc, *req.NextDate); err != nil {
			return nil, err
		}
	}
	if req.Files != nil {
		inc.Files = *req.Files
		if inc.Files == nil {
			inc.Files = []domain.FileAttachment{}
		}
	}

	if err := s.validate(ctx, *inc); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, *inc)
	if err != nil {
		return nil, err
	}
	if prev != domain.StatusCancelled && saved.Status == domain.StatusCancelled {
		event.Emit(s.events, event.SubjectIncidentCancelled, eventOf(*saved))
	}
	return saved, nil
}

func (s *incidentService) Delete(ctx context.Context, id string) error {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	found, err := s.store.DeleteIncident(ctx, id)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if !found {
		return ErrIncidentNotFound
	}

	slog.Info("incident deleted", slog.String("incident_id", id))
	event.Emit(s.events, event.SubjectIncidentDeleted, eventOf(*inc))
	return nil
}

// ---------------------------------------------------------------------------
// Attachments
// ---------------------------------------------------------------------------

func (s *incidentService) AddAttachment(ctx context.Context, id, name, mime string, data []byte) (*domain.Incident, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: attachment name is required", ErrInvalidIncident)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrAttachmentTooLarge, FormatFileSize(int64(len(data))), FormatFileSize(s.maxBytes))
	}

	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inc.Files = append(inc.Files, NewAttachment(name, mime, data))
	return s.save(ctx, *inc)
}

func (s *incidentService) RemoveAttachment(ctx context.Context, id string, index int) (*domain.Incident, error) {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(inc.Files) {
		return nil, ErrAttachmentNotFound
	}
	files := make([]domain.FileAttachment, 0, len(inc.Files)-1)
	files = append(files, inc.Files[:index]...)
	inc.Files = append(files, inc.Files[index+1:]...)
	return s.save(ctx, *inc)
}

func (s *incidentService) Attachment(ctx context.Context, id string, index int) (*domain.FileAttachment, []byte, error) {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(inc.Files) {
		return nil, nil, ErrAttachmentNotFound
	}
	att := inc.Files[index]
	_, data, err := DecodeDataURL(att.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("attachment %s: %w", att.Name, err)
	}
	return &att, data, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *incidentService) save(ctx context.Context, inc domain.Incident) (*domain.Incident, error) {
	found, err := s.store.UpdateIncident(ctx, inc)
	if err != nil {
		return nil, fmt.Errorf("update incident: %w", err)
	}
	if !found {
		return nil, ErrIncidentNotFound
	}
	event.Emit(s.events, event.SubjectIncidentUpdated, eventOf(inc))
	return &inc, nil
}

// validate rejects incidents whose patient does not exist, on top of the
// field checks.
func (s *incidentService) validate(ctx context.Context, inc domain.Incident) error {
	if inc.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidIncident)
	}
	if !inc.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidIncident, inc.Status)
	}
	if inc.Cost != nil && *inc.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidIncident)
	}
	if inc.NextDate != nil && inc.NextDate.Time().Before(inc.AppointmentDate.Time()) {
		return fmt.Errorf("%w: next date is before the appointment", ErrInvalidIncident)
	}
	for _, f := range inc.Files {
		if !strings.HasPrefix(f.URL, "data:") {
			return fmt.Errorf("%w: attachment %q is not a data url", ErrInvalidIncident, f.Name)
		}
	}

	if inc.PatientID == "" {
		return fmt.Errorf("%w: patient is required", ErrInvalidIncident)
	}
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	for _, p := range patients {
		if p.ID == inc.PatientID {
			return nil
		}
	}
	return ErrUnknownPatient
}

func parseTimestamp(field, raw string) (domain.Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Timestamp{}, fmt.Errorf("%w: %s is required", ErrInvalidIncident, field)
	}
	ts, err := domain.ParseTimestamp(raw)
	if err != nil {
		return domain.Timestamp{}, fmt.Errorf("%w: %s: %v", ErrInvalidIncident, field, err)
	}
	return ts, nil
}

func setNextDate(inc *domain.Incident, raw string) error {
	if strings.TrimSpace(raw) == "" {
		inc.NextDate = nil
		return nil
	}
	ts, err := parseTimestamp("next date", raw)
	if err != nil {
		return err
	}
	inc.NextDate = &ts
	return nil
}

func eventOf(inc domain.Incident) event.Incident {
	return event.Incident{
		IncidentID:      inc.ID,
		PatientID:       inc.PatientID,
		Title:           inc.Title,
		AppointmentDate: inc.AppointmentDate.String(),
		Status:          string(inc.Status),
	}
}
