package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/calendar"
	"github.com/ankurdental/dentaldesk/internal/store/storetest"
)

func newService(t *testing.T) calendar.Service {
	t.Helper()
	st, _ := storetest.New(t)
	ctx := context.Background()
	_ = st.SetPatients(ctx, []domain.Patient{{ID: "p1", Name: "Arjun Sharma"}})
	_ = st.SetIncidents(ctx, []domain.Incident{
		{ID: "late", PatientID: "p1", AppointmentDate: domain.MustTimestamp("2025-02-10T16:00:00"), Status: domain.StatusPending},
		{ID: "early", PatientID: "p1", AppointmentDate: domain.MustTimestamp("2025-02-10T09:30:00"), Status: domain.StatusPending},
		{ID: "last", PatientID: "gone", AppointmentDate: domain.MustTimestamp("2025-02-28T23:59:00"), Status: domain.StatusCompleted},
		{ID: "march", PatientID: "p1", AppointmentDate: domain.MustTimestamp("2025-03-01T00:00:00"), Status: domain.StatusPending},
		{ID: "lastyear", PatientID: "p1", AppointmentDate: domain.MustTimestamp("2024-02-10T10:00:00"), Status: domain.StatusPending},
	})
	return calendar.New(st)
}

func TestMonth(t *testing.T) {
	m, err := newService(t).Month(context.Background(), 2025, time.February)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Days) != 28 {
		t.Fatalf("len(Days) = %d, want 28", len(m.Days))
	}
	if m.Offset != int(time.Saturday) {
		t.Errorf("Offset = %d, want Saturday", m.Offset)
	}

	tenth := m.Days[9]
	if tenth.Date.String() != "2025-02-10" {
		t.Fatalf("Days[9] = %s", tenth.Date)
	}
	if len(tenth.Entries) != 2 || tenth.Entries[0].ID != "early" || tenth.Entries[1].ID != "late" {
		t.Fatalf("2025-02-10 entries = %+v", tenth.Entries)
	}
	if tenth.Entries[0].PatientName != "Arjun Sharma" {
		t.Errorf("PatientName = %q", tenth.Entries[0].PatientName)
	}

	last := m.Days[27]
	if len(last.Entries) != 1 || last.Entries[0].ID != "last" || last.Entries[0].PatientName != "" {
		t.Errorf("2025-02-28 entries = %+v", last.Entries)
	}

	total := 0
	for _, d := range m.Days {
		if d.Entries == nil {
			t.Errorf("%s: nil entries", d.Date)
		}
		total += len(d.Entries)
	}
	if total != 3 {
		t.Errorf("entries in month = %d, want 3", total)
	}
}

func TestMonth_LeapYear(t *testing.T) {
	m, err := newService(t).Month(context.Background(), 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Days) != 29 {
		t.Fatalf("len(Days) = %d, want 29", len(m.Days))
	}
}

func TestMonth_Invalid(t *testing.T) {
	if _, err := newService(t).Month(context.Background(), 2025, 13); !errors.Is(err, calendar.ErrInvalidMonth) {
		t.Fatalf("err = %v, want ErrInvalidMonth", err)
	}
}

func TestDay(t *testing.T) {
	svc := newService(t)

	d, err := svc.Day(context.Background(), domain.MustDate("2025-03-01"))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Entries) != 1 || d.Entries[0].ID != "march" {
		t.Fatalf("entries = %+v", d.Entries)
	}

	empty, _ := svc.Day(context.Background(), domain.MustDate("2025-03-02"))
	if empty.Entries == nil || len(empty.Entries) != 0 {
		t.Fatalf("empty day entries = %#v", empty.Entries)
	}
}
