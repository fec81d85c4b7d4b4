package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/clock"
)

const (
	maxUpcoming    = 10
	maxTopPatients = 5
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type StatusCounts struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type PatientCount struct {
	Patient domain.Patient `json:"patient"`
	Count   int            `json:"count"`
}

type AdminDashboard struct {
	TotalPatients     int               `json:"totalPatients"`
	TotalAppointments int               `json:"totalAppointments"`
	Revenue           float64           `json:"revenue"`
	PendingRevenue    float64           `json:"pendingRevenue"`
	Statuses          StatusCounts      `json:"statuses"`
	Upcoming          []domain.Incident `json:"upcoming"`
	TopPatients       []PatientCount    `json:"topPatients"`
}

type PatientRequest struct {
	PatientID string
	// Status narrows the upcoming, past and treatment lists; empty keeps all.
	Status domain.Status
}

type PatientDashboard struct {
	Patient           domain.Patient    `json:"patient"`
	Age               int               `json:"age"`
	TotalAppointments int               `json:"totalAppointments"`
	Statuses          StatusCounts      `json:"statuses"`
	NextAppointment   *domain.Incident  `json:"nextAppointment,omitempty"`
	Upcoming          []domain.Incident `json:"upcoming"`
	Past              []domain.Incident `json:"past"`
	Treatments        []domain.Incident `json:"treatments"`
	TotalSpent        float64           `json:"totalSpent"`
	CompletedCount    int               `json:"completedCount"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Admin(ctx context.Context) (*AdminDashboard, error)
	Patient(ctx context.Context, req PatientRequest) (*PatientDashboard, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type dashboardService struct {
	store *store.Store
	clock clock.Clock
}

func New(st *store.Store, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.Real()
	}
	return &dashboardService{store: st, clock: clk}
}

func (s *dashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}
	incidents, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}

	out := &AdminDashboard{
		TotalPatients:     len(patients),
		TotalAppointments: len(incidents),
		Statuses:          countStatuses(incidents),
		Upcoming:          upcoming(incidents, s.clock),
		TopPatients:       topPatients(patients, incidents),
	}
	for _, inc := range incidents {
		switch inc.Status {
		case domain.StatusCompleted:
			out.Revenue += inc.CostValue()
		case domain.StatusPending:
			out.PendingRevenue += inc.CostValue()
		}
	}
	if len(out.Upcoming) > maxUpcoming {
		out.Upcoming = out.Upcoming[:maxUpcoming]
	}
	return out, nil
}

func (s *dashboardService) Patient(ctx context.Context, req PatientRequest) (*PatientDashboard, error) {
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient dashboard: %w", err)
	}
	i := slices.IndexFunc(patients, func(p domain.Patient) bool { return p.ID == req.PatientID })
	if i < 0 {
		return nil, ErrPatientNotFound
	}

	all, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("patient dashboard: %w", err)
	}
	own := filter(all, func(inc domain.Incident) bool { return inc.PatientID == req.PatientID })
	now := s.clock.Now()

	out := &PatientDashboard{
		Patient:           patients[i],
		Age:               patients[i].AgeAt(now),
		TotalAppointments: len(own),
		Statuses:          countStatuses(own),
	}
	if next := upcoming(own, s.clock); len(next) > 0 {
		out.NextAppointment = &next[0]
	}

	scoped := own
	if req.Status != "" {
		scoped = filter(own, func(inc domain.Incident) bool { return inc.Status == req.Status })
	}

	out.Upcoming = upcoming(scoped, s.clock)
	out.Past = filter(scoped, func(inc domain.Incident) bool {
		return !inc.AppointmentDate.Time().After(now) || inc.Status == domain.StatusCompleted
	})
	slices.SortStableFunc(out.Past, newestFirst)

	out.Treatments = filter(scoped, domain.Incident.HasTreatmentRecord)
	slices.SortStableFunc(out.Treatments, newestFirst)
	for _, t := range out.Treatments {
		if t.Status == domain.StatusCompleted {
			out.TotalSpent += t.CostValue()
			out.CompletedCount++
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// upcoming returns the pending incidents strictly after now, soonest first.
func upcoming(incidents []domain.Incident, clk clock.Clock) []domain.Incident {
	now := clk.Now()
	out := filter(incidents, func(inc domain.Incident) bool {
		return inc.Status == domain.StatusPending && inc.AppointmentDate.Time().After(now)
	})
	slices.SortStableFunc(out, func(a, b domain.Incident) int {
		return a.AppointmentDate.Time().Compare(b.AppointmentDate.Time())
	})
	return out
}

func newestFirst(a, b domain.Incident) int {
	return b.AppointmentDate.Time().Compare(a.AppointmentDate.Time())
}

// topPatients ranks existing patients by incident count; ties keep the
// patients collection order.
func topPatients(patients []domain.Patient, incidents []domain.Incident) []PatientCount {
	counts := make(map[string]int, len(patients))
	for _, inc := range incidents {
		counts[inc.PatientID]++
	}

	out := make([]PatientCount, 0, len(patients))
	for _, p := range patients {
		if n := counts[p.ID]; n > 0 {
			out = append(out, PatientCount{Patient: p, Count: n})
		}
	}
	slices.SortStableFunc(out, func(a, b PatientCount) int { return cmp.Compare(b.Count, a.Count) })
	if len(out) > maxTopPatients {
		out = out[:maxTopPatients]
	}
	return out
}

func countStatuses(incidents []domain.Incident) StatusCounts {
	var c StatusCounts
	for _, inc := range incidents {
		switch inc.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusCompleted:
			c.Completed++
		case domain.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

func filter(incidents []domain.Incident, keep func(domain.Incident) bool) []domain.Incident {
	out := make([]domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if keep(inc) {
			out = append(out, inc)
		}
	}
	return out
}
