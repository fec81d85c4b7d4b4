package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store/storetest"
	"github.com/ankurdental/dentaldesk/pkg/authorize"
	"github.com/ankurdental/dentaldesk/pkg/clock"
)

var ctx = context.Background()

func newService(t *testing.T) (Service, *event.Recorder) {
	t.Helper()
	st := storetest.Seeded(t)
	rec := &event.Recorder{}
	clk := clock.Fake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local))
	return New(st, rec, clk, "IN", nil), rec
}

func strPtr(s string) *string { return &s }

func TestList(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"priya", []string{"p2"}},
		{"SINGH", []string{"p5"}},
		{"98765", []string{"p1"}},
		{"  a  ", []string{"p1", "p2", "p3", "p4", "p5"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got, err := svc.List(ctx, ListRequest{Search: tt.search})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List(%q) returned %d patients, want %d", tt.search, len(got), len(tt.want))
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("List(%q)[%d] = %s, want %s", tt.search, i, p.ID, tt.want[i])
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Get(ctx, "p3")
	if err != nil || p.Name != "Rahul Verma" {
		t.Errorf("Get(p3) = %+v, %v", p, err)
	}
	if _, err := svc.Get(ctx, "p404"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Get(p404) error = %v, want ErrPatientNotFound", err)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name: "valid with id",
			req:  CreateRequest{ID: "p9", Name: "Kavya Iyer", DOB: "1999-09-09", Contact: "+91-9876501234"},
		},
		{
			name: "valid without country code",
			req:  CreateRequest{Name: "Rohan Das", DOB: "2001-01-01", Contact: "98123 45678"},
		},
		{
			name:    "missing name",
			req:     CreateRequest{Name: "  ", DOB: "1999-09-09", Contact: "+91-9876501234"},
			wantErr: ErrInvalidPatient,
		},
		{
			name:    "bad dob",
			req:     CreateRequest{Name: "A", DOB: "09/09/1999", Contact: "+91-9876501234"},
			wantErr: ErrInvalidPatient,
		},
		{
			name:    "future dob",
			req:     CreateRequest{Name: "A", DOB: "2030-01-01", Contact: "+91-9876501234"},
			wantErr: ErrInvalidPatient,
		},
		{
			name:    "bad contact",
			req:     CreateRequest{Name: "A", DOB: "1999-09-09", Contact: "12345"},
			wantErr: ErrInvalidPatient,
		},
		{
			name:    "duplicate id",
			req:     CreateRequest{ID: "p1", Name: "A", DOB: "1999-09-09", Contact: "+91-9876501234"},
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newService(t)
			p, err := svc.Create(ctx, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
				if len(rec.Messages) != 0 {
					t.Error("failed Create() published an event")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if p.ID == "" {
				t.Error("Create() left id empty")
			}
			if tt.req.ID != "" && p.ID != tt.req.ID {
				t.Errorf("Create() id = %s, want %s", p.ID, tt.req.ID)
			}
			all, _ := svc.List(ctx, ListRequest{})
			if len(all) != 6 {
				t.Errorf("len(patients) = %d, want 6", len(all))
			}
			if subj := rec.Subjects(); len(subj) != 1 || subj[0] != event.SubjectPatientCreated {
				t.Errorf("events = %v", subj)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Update(ctx, "p2", UpdateRequest{HealthInfo: strPtr("Asthma, vegetarian, diabetic")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if p.Name != "Priya Patel" || p.HealthInfo != "Asthma, vegetarian, diabetic" {
		t.Errorf("Update() = %+v", p)
	}
	got, _ := svc.Get(ctx, "p2")
	if got.HealthInfo != p.HealthInfo {
		t.Error("Update() not persisted")
	}

	if _, err := svc.Update(ctx, "p404", UpdateRequest{Name: strPtr("X")}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Update(p404) error = %v", err)
	}
	if _, err := svc.Update(ctx, "p2", UpdateRequest{Contact: strPtr("call me")}); !errors.Is(err, ErrInvalidPatient) {
		t.Errorf("Update(bad contact) error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, rec := newService(t)

	if err := svc.Delete(ctx, "p2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "p2"); !errors.Is(err, ErrPatientNotFound) {
		t.Error("p2 still present")
	}
	if err := svc.Delete(ctx, "p2"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
	if subj := rec.Subjects(); len(subj) != 1 || subj[0] != event.SubjectPatientDeleted {
		t.Errorf("events = %v", subj)
	}
}

func TestDeleteRevokesAccess(t *testing.T) {
	st := storetest.Seeded(t)
	auth, err := authorize.New(authorize.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	clk := clock.Fake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local))
	svc := New(st, nil, clk, "IN", auth)

	// user 3 is priya's account, linked to p2
	if err := authorize.Grant(ctx, auth, "3", "Patient", "p2"); err != nil {
		t.Fatal(err)
	}
	canRead := func() bool {
		t.Helper()
		ok, err := auth.Enforce(ctx, authorize.UserSubject("3"), authorize.PatientDomain("p2"), authorize.ResourcePatient, authorize.ActionRead)
		if err != nil {
			t.Fatal(err)
		}
		return ok
	}
	if !canRead() {
		t.Fatal("grant did not take effect")
	}

	if err := svc.Delete(ctx, "p2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if canRead() {
		t.Error("access to p2 survived the delete")
	}
	users, _ := st.Users(ctx)
	for _, u := range users {
		if u.PatientID == "p2" {
			t.Errorf("user %s still linked to deleted p2", u.ID)
		}
	}

	if _, err := svc.Create(ctx, CreateRequest{ID: "p2", Name: "New Walk-in", DOB: "1990-01-01", Contact: "+91-9876501234"}); err != nil {
		t.Fatalf("Create(p2) error = %v", err)
	}
	if canRead() {
		t.Error("reused id p2 is readable by the old account")
	}
}
