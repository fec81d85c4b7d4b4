package store

import (
	"context"

	"github.com/ankurdental/dentaldesk/internal/domain"
)

// The CRUD operations below do not check cross references; an incident may
// be added for a patient that does not exist. Update and Delete report
// whether a row matched, and a miss is never an error.

// ---------------------------------------------------------------------------
// Patients
// ---------------------------------------------------------------------------

func (s *Store) AddPatient(ctx context.Context, p domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := load[domain.Patient](ctx, s, s.keys.Patients)
	if err != nil {
		return err
	}
	return s.put(ctx, s.keys.Patients, append(patients, p))
}

// UpdatePatient replaces the patient with p.ID in place.
func (s *Store) UpdatePatient(ctx context.Context, p domain.Patient) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := load[domain.Patient](ctx, s, s.keys.Patients)
	if err != nil {
		return false, err
	}
	i := indexOf(patients, func(x domain.Patient) bool { return x.ID == p.ID })
	if i < 0 {
		return false, nil
	}
	patients[i] = p
	return true, s.put(ctx, s.keys.Patients, patients)
}

// DeletePatient removes the patient and then every incident that belongs
// to it. The incident sweep runs even when no patient matched, so stale
// orphans for that id are cleaned up too.
func (s *Store) DeletePatient(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := load[domain.Patient](ctx, s, s.keys.Patients)
	if err != nil {
		return false, err
	}
	kept, removed := without(patients, func(x domain.Patient) bool { return x.ID == id })
	if err := s.put(ctx, s.keys.Patients, kept); err != nil {
		return false, err
	}

	incidents, err := load[domain.Incident](ctx, s, s.keys.Incidents)
	if err != nil {
		return removed > 0, err
	}
	remaining, _ := without(incidents, func(x domain.Incident) bool { return x.PatientID == id })
	if err := s.put(ctx, s.keys.Incidents, remaining); err != nil {
		return removed > 0, err
	}

	if removed > 0 {
		s.log.Debug("patient deleted",
			"patient_id", id,
			"incidents_removed", len(incidents)-len(remaining))
	}
	return removed > 0, nil
}

// ---------------------------------------------------------------------------
// Incidents
// ---------------------------------------------------------------------------

func (s *Store) AddIncident(ctx context.Context, inc domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents, err := load[domain.Incident](ctx, s, s.keys.Incidents)
	if err != nil {
		return err
	}
	return s.put(ctx, s.keys.Incidents, append(incidents, inc))
}

func (s *Store) UpdateIncident(ctx context.Context, inc domain.Incident) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents, err := load[domain.Incident](ctx, s, s.keys.Incidents)
	if err != nil {
		return false, err
	}
	i := indexOf(incidents, func(x domain.Incident) bool { return x.ID == inc.ID })
	if i < 0 {
		return false, nil
	}
	incidents[i] = inc
	return true, s.put(ctx, s.keys.Incidents, incidents)
}

func (s *Store) DeleteIncident(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incidents, err := load[domain.Incident](ctx, s, s.keys.Incidents)
	if err != nil {
		return false, err
	}
	kept, removed := without(incidents, func(x domain.Incident) bool { return x.ID == id })
	if err := s.put(ctx, s.keys.Incidents, kept); err != nil {
		return false, err
	}
	return removed > 0, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// UpdateUser replaces the user with u.ID; used when a credential is
// rehashed.
func (s *Store) UpdateUser(ctx context.Context, u domain.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := load[domain.User](ctx, s, s.keys.Users)
	if err != nil {
		return false, err
	}
	i := indexOf(users, func(x domain.User) bool { return x.ID == u.ID })
	if i < 0 {
		return false, nil
	}
	users[i] = u
	return true, s.put(ctx, s.keys.Users, users)
}

// UnlinkPatient clears PatientID on every account linked to patientID and
// returns the ids of the accounts it changed. Nothing is written when no
// account matched.
func (s *Store) UnlinkPatient(ctx context.Context, patientID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := load[domain.User](ctx, s, s.keys.Users)
	if err != nil {
		return nil, err
	}
	var changed []string
	for i := range users {
		if patientID != "" && users[i].PatientID == patientID {
			users[i].PatientID = ""
			changed = append(changed, users[i].ID)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	return changed, s.put(ctx, s.keys.Users, users)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

// without returns a new slice without the matching items and how many
// were dropped.
func without[T any](items []T, match func(T) bool) ([]T, int) {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}
