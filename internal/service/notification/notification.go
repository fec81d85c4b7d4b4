// Package notification turns incident events into e-mails to the patient
// who owns the incident.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/event"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/email"
)

const (
	queueGroup  = "dentaldesk-notifications"
	handleLimit = 30 * time.Second
	// whenLayout is how appointment times read in mail.
	whenLayout = "Mon, 02 Jan 2006 3:04 PM"
)

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Sender is satisfied by *email.Client.
type Sender interface {
	Send(ctx context.Context, m email.Message) error
}

// Subscriber is satisfied by *nats.Conn.
type Subscriber interface {
	QueueSubscribe(subject, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Handle processes one event. Events for patients without a user
	// account are dropped without error.
	Handle(ctx context.Context, subject string, data []byte) error
	// Start subscribes Handle to the incident subjects.
	Start(sub Subscriber) ([]*nats.Subscription, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	store      *store.Store
	sender     Sender
	clinicName string
}

func New(st *store.Store, sender Sender, clinicName string) Service {
	return &notificationService{store: st, sender: sender, clinicName: clinicName}
}

func (s *notificationService) Start(sub Subscriber) ([]*nats.Subscription, error) {
	var subs []*nats.Subscription
	for _, subject := range []string{event.SubjectIncidentCreated, event.SubjectIncidentCancelled} {
		sn, err := sub.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), handleLimit)
			defer cancel()
			if err := s.Handle(ctx, msg.Subject, msg.Data); err != nil {
				slog.Warn("notification_worker: handle event failed",
					slog.String("subject", msg.Subject), slog.String("error", err.Error()))
			}
		})
		if err != nil {
			for _, prev := range subs {
				_ = prev.Unsubscribe()
			}
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		subs = append(subs, sn)
	}
	slog.Info("notification_worker: started")
	return subs, nil
}

func (s *notificationService) Handle(ctx context.Context, subject string, data []byte) error {
	var build func(email.AppointmentEmailData) email.Message
	switch subject {
	case event.SubjectIncidentCreated:
		build = email.BuildAppointmentConfirmationEmail
	case event.SubjectIncidentCancelled:
		build = email.BuildAppointmentCancelledEmail
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
	}

	var ev event.Incident
	if err := json.Unmarshal(data, &ev); err != nil || ev.PatientID == "" {
		return ErrBadPayload
	}

	to, name, err := s.recipient(ctx, ev.PatientID)
	if err != nil {
		return err
	}
	if to == "" {
		slog.Debug("notification_worker: patient has no account", slog.String("patient_id", ev.PatientID))
		return nil
	}

	when := ev.AppointmentDate
	if ts, err := domain.ParseTimestamp(ev.AppointmentDate); err == nil {
		when = ts.Time().Format(whenLayout)
	}

	msg := build(email.AppointmentEmailData{
		To:          to,
		PatientName: name,
		Title:       ev.Title,
		When:        when,
		ClinicName:  s.clinicName,
	})
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s notice for %s: %w", subject, ev.IncidentID, err)
	}

	slog.Info("notification sent",
		slog.String("subject", subject),
		slog.String("incident_id", ev.IncidentID),
		slog.String("patient_id", ev.PatientID))
	return nil
}

// recipient returns the e-mail of the account linked to the patient and
// the patient's name. An empty address means no account.
func (s *notificationService) recipient(ctx context.Context, patientID string) (string, string, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load users: %w", err)
	}
	var to string
	for _, u := range users {
		if u.PatientID == patientID && u.Email != "" {
			to = u.Email
			break
		}
	}
	if to == "" {
		return "", "", nil
	}

	patients, err := s.store.Patients(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load patients: %w", err)
	}
	for _, p := range patients {
		if p.ID == patientID {
			return to, p.Name, nil
		}
	}
	return to, "", nil
}
