package pasetotoken

import "fmt"

// ErrConfig reports a manager or key setup problem. It is never caused by
// the token a client sent.
type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto: " + e.Msg }

func configErr(format string, args ...any) error {
	return ErrConfig{Msg: fmt.Sprintf(format, args...)}
}

// ErrInvalidToken wraps parse, signature and rule failures so callers can
// map all of them to a single 401.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return "paseto: invalid token: " + e.Err.Error() }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
