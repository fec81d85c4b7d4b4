package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

type Config struct {
	Mode Mode

	Issuer   string
	Audience string

	AccessTTL time.Duration

	Implicit []byte

	// Now replaces time.Now when set.
	Now func() time.Time
}

type Manager struct {
	cfg  Config
	keys Keys
}

func New(cfg Config, keys Keys) (*Manager, error) {
	if cfg.Mode != keys.Mode {
		return nil, configErr("config mode %q does not match key mode %q", cfg.Mode, keys.Mode)
	}
	if cfg.Issuer == "" {
		return nil, configErr("issuer is required")
	}
	if cfg.Audience == "" {
		return nil, configErr("audience is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{cfg: cfg, keys: keys}, nil
}

func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// IssueAccess returns a signed or encrypted access token for the user and
// the time it stops being accepted.
func (m *Manager) IssueAccess(userID, role, sessionID string) (string, time.Time, error) {
	now := m.cfg.Now()
	exp := now.Add(m.cfg.AccessTTL)

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(randHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(exp)
	tok.SetSubject(userID)

	tok.SetString("typ", string(TokenTypeAccess))
	tok.SetString("uid", userID)
	tok.SetString("role", role)
	if sessionID != "" {
		tok.SetString("sid", sessionID)
	}

	out, err := m.keys.seal(&tok, m.cfg.Implicit)
	if err != nil {
		return "", time.Time{}, err
	}
	return out, exp, nil
}

func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	// The parser is built per call so the validity window follows the clock.
	p := paseto.NewParserWithoutExpiryCheck()
	p.AddRule(paseto.IssuedBy(m.cfg.Issuer))
	p.AddRule(paseto.ForAudience(m.cfg.Audience))
	p.AddRule(paseto.ValidAt(m.cfg.Now()))

	tok, err := m.keys.open(&p, tokenStr, m.cfg.Implicit)
	if err != nil {
		var cfgErr ErrConfig
		if errors.As(err, &cfgErr) {
			return nil, err
		}
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok, m.cfg.Issuer, m.cfg.Audience)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	return claims, nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extractClaims(tok *paseto.Token, iss, aud string) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	sub, err := tok.GetSubject()
	if err != nil {
		return nil, err
	}
	iat, err := tok.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	nbf, err := tok.GetNotBefore()
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}

	out := &Claims{
		Issuer:    iss,
		Audience:  aud,
		TokenID:   jti,
		Subject:   sub,
		IssuedAt:  iat,
		NotBefore: nbf,
		ExpiresAt: exp,
		RawFooter: tok.Footer(),
	}

	typ, err := tok.GetString("typ")
	if err != nil {
		return nil, err
	}
	out.Type = TokenType(typ)

	if out.UserID, err = tok.GetString("uid"); err != nil {
		return nil, err
	}
	if out.Role, err = tok.GetString("role"); err != nil {
		return nil, err
	}
	// sid is optional
	if sid, err := tok.GetString("sid"); err == nil {
		out.SessionID = sid
	}
	return out, nil
}
