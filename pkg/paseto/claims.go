package pasetotoken

import (
	"time"
)

type TokenType string

const TokenTypeAccess TokenType = "access"

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    string
	Role      string
	SessionID string

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
	RawFooter []byte
}

// GetUserID implements reqctx.AuthClaims.
func (c *Claims) GetUserID() string {
	return c.UserID
}

func (c *Claims) GetRole() string {
	return c.Role
}

func (c *Claims) GetSessionID() string {
	return c.SessionID
}

// ExpiredAt reports whether the token is past its expiry at t.
func (c *Claims) ExpiredAt(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}
