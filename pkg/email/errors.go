package email

import "fmt"

// ErrDisabled is returned by Send when email.enabled is false.
type ErrDisabled struct{}

func (ErrDisabled) Error() string { return "email is disabled" }

type ErrInvalidMessage struct{ Reason string }

func (e ErrInvalidMessage) Error() string { return "invalid email message: " + e.Reason }

// ErrSend wraps a transport failure.
type ErrSend struct {
	Provider string
	Err      error
}

func (e ErrSend) Error() string { return fmt.Sprintf("email send via %s: %v", e.Provider, e.Err) }
func (e ErrSend) Unwrap() error { return e.Err }
