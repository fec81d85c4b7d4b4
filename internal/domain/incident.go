package domain

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var Statuses = []Status{StatusPending, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Incident is one appointment or treatment record for a patient.
type Incident struct {
	ID              string           `json:"id"`
	PatientID       string           `json:"patientId"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Comments        string           `json:"comments"`
	AppointmentDate Timestamp        `json:"appointmentDate"`
	Cost            *float64         `json:"cost,omitempty"`
	Status          Status           `json:"status"`
	Treatment       string           `json:"treatment,omitempty"`
	NextDate        *Timestamp       `json:"nextDate,omitempty"`
	Files           []FileAttachment `json:"files"`
}

// FileAttachment is an inline file; URL is a self-contained data URL.
type FileAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// CostValue returns the cost or zero when unset.
func (i Incident) CostValue() float64 {
	if i.Cost == nil {
		return 0
	}
	return *i.Cost
}

// HasTreatmentRecord reports whether the incident belongs in a treatment
// history: a treatment was written, a non-zero cost was charged, or it
// completed.
func (i Incident) HasTreatmentRecord() bool {
	return i.Treatment != "" || i.CostValue() != 0 || i.Status == StatusCompleted
}

func Cost(v float64) *float64 { return &v }
