package incident

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store/storetest"
)

var ctx = context.Background()

func newService(t *testing.T) (Service, *event.Recorder) {
	t.Helper()
	rec := &event.Recorder{}
	return New(storetest.Seeded(t), rec, 1024), rec
}

func ids(incidents []domain.Incident) []string {
	out := make([]string, len(incidents))
	for i, inc := range incidents {
		out[i] = inc.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestList(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name string
		req  ListRequest
		want []string
	}{
		{name: "by patient", req: ListRequest{PatientID: "p1"}, want: []string{"i1", "i4", "i13", "i14"}},
		{name: "pending", req: ListRequest{Status: domain.StatusPending}, want: []string{"i4", "i14"}},
		{name: "title search", req: ListRequest{Search: "CHECKUP"}, want: []string{"i2", "i14"}},
		{name: "patient name search", req: ListRequest{Search: "amit"}, want: []string{"i6", "i12"}},
		{name: "search and status", req: ListRequest{Search: "arjun", Status: domain.StatusCompleted}, want: []string{"i1", "i13"}},
		{name: "cancelled", req: ListRequest{Status: domain.StatusCancelled}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.req)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if !equal(ids(got), tt.want) {
				t.Errorf("List() = %v, want %v", ids(got), tt.want)
			}
		})
	}

	all, _ := svc.List(ctx, ListRequest{})
	if len(all) != 14 {
		t.Errorf("List() all = %d, want 14", len(all))
	}
}

func TestCreate(t *testing.T) {
	valid := CreateRequest{
		PatientID:       "p2",
		Title:           "Root Planing",
		AppointmentDate: "2025-05-02T11:30",
	}

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{name: "valid defaults", mutate: func(*CreateRequest) {}},
		{name: "unknown patient", mutate: func(r *CreateRequest) { r.PatientID = "p404" }, wantErr: ErrUnknownPatient},
		{name: "missing patient", mutate: func(r *CreateRequest) { r.PatientID = "" }, wantErr: ErrInvalidIncident},
		{name: "missing title", mutate: func(r *CreateRequest) { r.Title = "" }, wantErr: ErrInvalidIncident},
		{name: "bad date", mutate: func(r *CreateRequest) { r.AppointmentDate = "tomorrow" }, wantErr: ErrInvalidIncident},
		{name: "bad status", mutate: func(r *CreateRequest) { r.Status = "Done" }, wantErr: ErrInvalidIncident},
		{name: "negative cost", mutate: func(r *CreateRequest) { r.Cost = domain.Cost(-1) }, wantErr: ErrInvalidIncident},
		{name: "next before appointment", mutate: func(r *CreateRequest) { r.NextDate = "2025-05-01T10:00:00" }, wantErr: ErrInvalidIncident},
		{name: "duplicate id", mutate: func(r *CreateRequest) { r.ID = "i1" }, wantErr: ErrDuplicateID},
		{
			name: "non data url file",
			mutate: func(r *CreateRequest) {
				r.Files = []domain.FileAttachment{{Name: "x.pdf", URL: "https://example.com/x.pdf"}}
			},
			wantErr: ErrInvalidIncident,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newService(t)
			req := valid
			tt.mutate(&req)

			inc, err := svc.Create(ctx, req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if inc.Status != domain.StatusPending || inc.Files == nil || inc.ID == "" {
				t.Errorf("Create() defaults not applied: %+v", inc)
			}
			if inc.AppointmentDate.String() != "2025-05-02T11:30:00" {
				t.Errorf("AppointmentDate = %s", inc.AppointmentDate)
			}
			if subj := rec.Subjects(); len(subj) != 1 || subj[0] != event.SubjectIncidentCreated {
				t.Errorf("events = %v", subj)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, rec := newService(t)

	completed := domain.StatusCompleted
	treatment := "Post-RCT review, no intervention"
	inc, err := svc.Update(ctx, "i4", UpdateRequest{Status: &completed, Cost: domain.Cost(300), Treatment: &treatment})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if inc.Status != domain.StatusCompleted || inc.CostValue() != 300 || inc.Treatment != treatment {
		t.Errorf("Update() = %+v", inc)
	}
	if inc.Title != "Follow-up Appointment" {
		t.Error("Update() touched unrelated fields")
	}

	inc, err = svc.Update(ctx, "i1", UpdateRequest{ClearCost: true, NextDate: new(string)})
	if err != nil {
		t.Fatalf("Update(clear) error = %v", err)
	}
	if inc.Cost != nil || inc.NextDate != nil {
		t.Errorf("Update(clear) = cost %v next %v", inc.Cost, inc.NextDate)
	}

	ghost := "p404"
	if _, err := svc.Update(ctx, "i1", UpdateRequest{PatientID: &ghost}); !errors.Is(err, ErrUnknownPatient) {
		t.Errorf("Update(orphan) error = %v", err)
	}
	if _, err := svc.Update(ctx, "i404", UpdateRequest{}); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("Update(i404) error = %v", err)
	}

	for _, subj := range rec.Subjects() {
		if subj != event.SubjectIncidentUpdated {
			t.Errorf("unexpected event %s", subj)
		}
	}
}

func TestDelete(t *testing.T) {
	svc, rec := newService(t)
	if err := svc.Delete(ctx, "i2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "i2"); !errors.Is(err, ErrIncidentNotFound) {
		t.Error("i2 still present")
	}
	if err := svc.Delete(ctx, "i2"); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
	if subj := rec.Subjects(); len(subj) != 1 || subj[0] != event.SubjectIncidentDeleted {
		t.Errorf("events = %v", subj)
	}
}

func TestAttachments(t *testing.T) {
	svc, _ := newService(t)
	payload := []byte("%PDF-1.4 consent form")

	inc, err := svc.AddAttachment(ctx, "i4", "consent.pdf", "application/pdf", payload)
	if err != nil {
		t.Fatalf("AddAttachment() error = %v", err)
	}
	if len(inc.Files) != 1 || inc.Files[0].Size != int64(len(payload)) || inc.Files[0].Type != "application/pdf" {
		t.Fatalf("AddAttachment() files = %+v", inc.Files)
	}

	att, data, err := svc.Attachment(ctx, "i4", 0)
	if err != nil {
		t.Fatalf("Attachment() error = %v", err)
	}
	if att.Name != "consent.pdf" || !bytes.Equal(data, payload) {
		t.Errorf("Attachment() = %+v %q", att, data)
	}

	if _, _, err := svc.Attachment(ctx, "i4", 5); !errors.Is(err, ErrAttachmentNotFound) {
		t.Errorf("Attachment(5) error = %v", err)
	}
	if _, err := svc.AddAttachment(ctx, "i4", "big.bin", "", make([]byte, 2048)); !errors.Is(err, ErrAttachmentTooLarge) {
		t.Errorf("AddAttachment(too large) error = %v", err)
	}
	if _, err := svc.AddAttachment(ctx, "i404", "a.txt", "text/plain", []byte("a")); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("AddAttachment(i404) error = %v", err)
	}

	inc, err = svc.RemoveAttachment(ctx, "i4", 0)
	if err != nil || len(inc.Files) != 0 {
		t.Errorf("RemoveAttachment() = %+v, %v", inc, err)
	}
	if _, err := svc.RemoveAttachment(ctx, "i4", 0); !errors.Is(err, ErrAttachmentNotFound) {
		t.Errorf("RemoveAttachment(empty) error = %v", err)
	}
}

func TestSeedAttachmentsDecode(t *testing.T) {
	svc, _ := newService(t)
	att, data, err := svc.Attachment(ctx, "i1", 1)
	if err != nil {
		t.Fatalf("Attachment() error = %v", err)
	}
	if att.Name != "xray.png" || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("xray.png decoded to %q", data[:4])
	}
}

func TestUpdate_CancellationEvent(t *testing.T) {
	svc, rec := newService(t)
	cancelled := domain.StatusCancelled

	if _, err := svc.Update(ctx, "i4", UpdateRequest{Status: &cancelled}); err != nil {
		t.Fatal(err)
	}
	// already cancelled: no second notice
	comments := "patient travelling"
	if _, err := svc.Update(ctx, "i4", UpdateRequest{Comments: &comments}); err != nil {
		t.Fatal(err)
	}

	want := []string{event.SubjectIncidentUpdated, event.SubjectIncidentCancelled, event.SubjectIncidentUpdated}
	if got := rec.Subjects(); !equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestForPatient(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.ForPatient(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"i1", "i4", "i13", "i14"}; !equal(ids(got), want) {
		t.Errorf("ForPatient(p1) = %v, want %v", ids(got), want)
	}
}
