package domain

import (
	"strings"
	"time"
)

type Patient struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DOB        Date   `json:"dob"`
	Contact    string `json:"contact"`
	HealthInfo string `json:"healthInfo"`
}

// Matches reports whether q is a case-insensitive substring of the name
// or a substring of the contact number.
func (p Patient) Matches(q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) ||
		strings.Contains(p.Contact, q)
}

// AgeAt returns the patient's age in whole years at now.
func (p Patient) AgeAt(now time.Time) int {
	if p.DOB.IsZero() {
		return 0
	}
	dob := p.DOB.Time()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
