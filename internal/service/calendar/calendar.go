// Package calendar groups appointments by local calendar day.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/store"
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

type Entry struct {
	domain.Incident
	PatientName string `json:"patientName"`
}

type Day struct {
	Date    domain.Date `json:"date"`
	Entries []Entry     `json:"entries"`
}

type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Offset is the weekday of the first day, Sunday = 0, for laying the
	// days out on a week grid.
	Offset int   `json:"offset"`
	Days   []Day `json:"days"`
}

type Service interface {
	Month(ctx context.Context, year int, month time.Month) (*Month, error)
	Day(ctx context.Context, date domain.Date) (*Day, error)
}

type calendarService struct {
	store *store.Store
}

func New(st *store.Store) Service {
	return &calendarService{store: st}
}

func (s *calendarService) Month(ctx context.Context, year int, month time.Month) (*Month, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	entries, err := s.entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar month: %w", err)
	}

	first := domain.NewDate(year, month, 1)
	out := &Month{Year: year, Month: month, Offset: int(first.Time().Weekday())}

	byDay := make(map[string][]Entry)
	for _, e := range entries {
		t := e.AppointmentDate.Time()
		if t.Year() == year && t.Month() == month {
			k := e.AppointmentDate.Day().String()
			byDay[k] = append(byDay[k], e)
		}
	}

	for d := first; d.Time().Month() == month; d = d.AddDays(1) {
		out.Days = append(out.Days, Day{Date: d, Entries: nonNil(byDay[d.String()])})
	}
	return out, nil
}

func (s *calendarService) Day(ctx context.Context, date domain.Date) (*Day, error) {
	entries, err := s.entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar day: %w", err)
	}

	out := &Day{Date: date, Entries: []Entry{}}
	for _, e := range entries {
		if e.AppointmentDate.Day().Equal(date) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out, nil
}

// entries returns every incident with its patient's name, earliest first.
func (s *calendarService) entries(ctx context.Context) ([]Entry, error) {
	incidents, err := s.store.Incidents(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.store.Patients(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.Name
	}

	out := make([]Entry, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, Entry{Incident: inc, PatientName: names[inc.PatientID]})
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.AppointmentDate.Time().Compare(b.AppointmentDate.Time())
	})
	return out, nil
}

func nonNil(e []Entry) []Entry {
	if e == nil {
		return []Entry{}
	}
	return e
}
