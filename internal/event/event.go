// Package event names the domain events published over NATS and carries
// their payloads.
package event

import (
	"encoding/json"
	"log/slog"
)

const (
	SubjectPatientCreated  = "dentaldesk.patient.created"
	SubjectPatientDeleted  = "dentaldesk.patient.deleted"
	SubjectIncidentCreated = "dentaldesk.incident.created"
	SubjectIncidentUpdated = "dentaldesk.incident.updated"
	SubjectIncidentDeleted = "dentaldesk.incident.deleted"

	// SubjectIncidentCancelled follows the updated event when the status
	// moves to Cancelled.
	SubjectIncidentCancelled = "dentaldesk.incident.cancelled"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Patient struct {
	PatientID string `json:"patientId"`
	Name      string `json:"name,omitempty"`
}

type Incident struct {
	IncidentID      string `json:"incidentId"`
	PatientID       string `json:"patientId"`
	Title           string `json:"title,omitempty"`
	AppointmentDate string `json:"appointmentDate,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Emit publishes v as JSON on subject. Events are best effort: a nil
// publisher is a no-op and failures are only logged.
func Emit(p Publisher, subject string, v any) {
	if p == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("encode event", slog.String("subject", subject), slog.String("error", err.Error()))
		return
	}
	if err := p.Publish(subject, data); err != nil {
		slog.Warn("publish event", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}
