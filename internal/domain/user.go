package domain

type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RolePatient }

// User is a login account. Password holds an Argon2id PHC string; stores
// written by older desks may still carry plaintext until `system migrate`.
type User struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	PatientID string `json:"patientId,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Public returns a copy safe to hand to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}
