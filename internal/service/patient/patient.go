package patient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	"github.com/ankurdental/dentaldesk/pkg/clock"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	// Search matches the name case-insensitively or any part of the contact.
	Search string
}

type CreateRequest struct {
	ID         string // generated when empty
	Name       string
	DOB        string // YYYY-MM-DD
	Contact    string
	HealthInfo string
}

type UpdateRequest struct {
	Name       *string
	DOB        *string
	Contact    *string
	HealthInfo *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) ([]domain.Patient, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	Create(ctx context.Context, req CreateRequest) (*domain.Patient, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*domain.Patient, error)
	// Delete removes the patient together with all of its incidents.
	Delete(ctx context.Context, id string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	store  *store.Store
	events event.Publisher
	clock  clock.Clock
	region string
	access authorize.IAuthorization
}

// New builds the service. region is the ISO 3166 code used for contact
// numbers written without a country prefix. events may be nil, and so may
// access when the process enforces no policies.
func New(st *store.Store, events event.Publisher, clk clock.Clock, region string, access authorize.IAuthorization) Service {
	if clk == nil {
		clk = clock.Real()
	}
	if region == "" {
		region = "IN"
	}
	return &patientService{
		store:  st,
		events: events,
		clock:  clk,
		region: strings.ToUpper(region),
		access: access,
	}
}

func (s *patientService) List(ctx context.Context, req ListRequest) ([]domain.Patient, error) {
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	q := strings.TrimSpace(req.Search)
	if q == "" {
		return patients, nil
	}
	out := make([]domain.Patient, 0, len(patients))
	for _, p := range patients {
		if p.Matches(q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *patientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	for i := range patients {
		if patients[i].ID == id {
			return &patients[i], nil
		}
	}
	return nil, ErrPatientNotFound
}

func (s *patientService) Create(ctx context.Context, req CreateRequest) (*domain.Patient, error) {
	p := domain.Patient{
		ID:         strings.TrimSpace(req.ID),
		Name:       strings.TrimSpace(req.Name),
		Contact:    strings.TrimSpace(req.Contact),
		HealthInfo: strings.TrimSpace(req.HealthInfo),
	}
	if err := s.setDOB(&p, req.DOB); err != nil {
		return nil, err
	}
	if err := s.validate(p); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = "p-" + uuid.NewString()
	} else if _, err := s.Get(ctx, p.ID); err == nil {
		return nil, ErrDuplicateID
	}

	// A reused id must not inherit grants left over from an earlier record,
	// possibly deleted by another process.
	if err := s.revoke(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.store.AddPatient(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	slog.Info("patient created", slog.String("patient_id", p.ID))
	event.Emit(s.events, event.SubjectPatientCreated, event.Patient{PatientID: p.ID, Name: p.Name})
	return &p, nil
}

func (s *patientService) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.DOB != nil {
		if err := s.setDOB(p, *req.DOB); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		p.Contact = strings.TrimSpace(*req.Contact)
	}
	if req.HealthInfo != nil {
		p.HealthInfo = strings.TrimSpace(*req.HealthInfo)
	}
	if err := s.validate(*p); err != nil {
		return nil, err
	}

	found, err := s.store.UpdatePatient(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	if !found {
		// deleted between the read and the write
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (s *patientService) Delete(ctx context.Context, id string) error {
	found, err := s.store.DeletePatient(ctx, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if !found {
		return ErrPatientNotFound
	}

	unlinked, err := s.store.UnlinkPatient(ctx, id)
	if err != nil {
		return fmt.Errorf("unlink patient accounts: %w", err)
	}
	if err := s.revoke(ctx, id); err != nil {
		return err
	}

	slog.Info("patient deleted", slog.String("patient_id", id), slog.Any("unlinked_users", unlinked))
	event.Emit(s.events, event.SubjectPatientDeleted, event.Patient{PatientID: id})
	return nil
}

// revoke drops every grant scoped to the patient's domain.
func (s *patientService) revoke(ctx context.Context, id string) error {
	dom := authorize.PatientDomain(id)
	if s.access == nil || !authorize.IsValidDomain(dom) {
		return nil
	}
	if _, err := s.access.RemoveDomain(ctx, dom); err != nil {
		return fmt.Errorf("revoke patient access: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func (s *patientService) setDOB(p *domain.Patient, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: date of birth is required", ErrInvalidPatient)
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatient, err)
	}
	p.DOB = d
	return nil
}

func (s *patientService) validate(p domain.Patient) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPatient)
	}
	if p.DOB.Time().After(s.clock.Now()) {
		return fmt.Errorf("%w: date of birth is in the future", ErrInvalidPatient)
	}
	if p.Contact == "" {
		return fmt.Errorf("%w: contact is required", ErrInvalidPatient)
	}
	num, err := phonenumbers.Parse(p.Contact, s.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return fmt.Errorf("%w: contact %q is not a valid phone number", ErrInvalidPatient, p.Contact)
	}
	return nil
}
