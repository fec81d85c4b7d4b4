package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/store"
	"github.com/ankurdental/dentaldesk/pkg/clock"
	"github.com/ankurdental/dentaldesk/pkg/crypto"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
	"github.com/ankurdental/dentaldesk/pkg/util/password"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Tokens is what an API login hands back to the client.
type Tokens struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	ExpiresIn   int64 // seconds
	User        domain.User
}

// record is the server-side half of an API session.
type record struct {
	UserID    string    `json:"userId" cbor:"userId"`
	Role      string    `json:"role" cbor:"role"`
	CreatedAt time.Time `json:"createdAt" cbor:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" cbor:"expiresAt"`
}

type attempts struct {
	Failures    int       `json:"failures" cbor:"failures"`
	LockedUntil time.Time `json:"lockedUntil" cbor:"lockedUntil"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Desk session: one persisted current user shared by every consumer of
	// the store.
	Login(ctx context.Context, email, password string) (bool, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*domain.User, error)
	Current(ctx context.Context) (*domain.User, error)

	// API sessions: per-client tokens, independent of the desk session.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	IssueToken(ctx context.Context, u domain.User) (*Tokens, error)
	Resolve(ctx context.Context, claims *pasetotoken.Claims) (*domain.User, error)
	Revoke(ctx context.Context, sessionID string) error

	// MigratePasswords hashes credentials still stored in plaintext and
	// returns how many were rewritten.
	MigratePasswords(ctx context.Context) (int, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type sessionService struct {
	store  *store.Store
	kv     kv.Store
	tokens *pasetotoken.Manager
	clock  clock.Clock
	ttl    time.Duration
}

// New builds the service. backend must be the substrate under st; tokens
// may be nil when only the desk session is used.
func New(st *store.Store, backend kv.Store, tokens *pasetotoken.Manager, clk clock.Clock, sessionTTL time.Duration) Service {
	if clk == nil {
		clk = clock.Real()
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &sessionService{store: st, kv: backend, tokens: tokens, clock: clk, ttl: sessionTTL}
}

func (s *sessionService) sessionKey(sessionID string) string {
	return s.store.Prefix() + "session:" + crypto.Hash(sessionID)
}

func (s *sessionService) attemptsKey(email string) string {
	return s.store.Prefix() + "login_attempts:" + crypto.Hash(strings.ToLower(email))
}

// ---------------------------------------------------------------------------
// Desk session
// ---------------------------------------------------------------------------

func (s *sessionService) Login(ctx context.Context, email, pw string) (bool, error) {
	u, err := s.match(ctx, email, pw)
	if err != nil || u == nil {
		return false, err
	}
	// the persisted current user never carries the password hash
	if err := s.store.SetCurrentUser(ctx, ptr(u.Public())); err != nil {
		return false, fmt.Errorf("login: %w", err)
	}
	slog.Info("desk login", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))
	return true, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.store.ClearAuth(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore returns the logged-in desk user. A stored user without the flag,
// or the flag without a user, is treated as logged out and cleared.
func (s *sessionService) Restore(ctx context.Context) (*domain.User, error) {
	u, flag, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if u != nil && flag {
		return u, nil
	}
	if u != nil || flag {
		slog.Warn("desk session out of sync, clearing",
			slog.Bool("has_user", u != nil), slog.Bool("flag", flag))
		if err := s.store.ClearAuth(ctx); err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}
	return nil, nil
}

func (s *sessionService) Current(ctx context.Context) (*domain.User, error) {
	u, flag, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}
	if u == nil || !flag {
		return nil, nil
	}
	return u, nil
}

func (s *sessionService) current(ctx context.Context) (*domain.User, bool, error) {
	u, err := s.store.CurrentUser(ctx)
	if err != nil {
		return nil, false, err
	}
	flag, err := s.store.IsAuthenticated(ctx)
	if err != nil {
		return nil, false, err
	}
	return u, flag, nil
}

// ---------------------------------------------------------------------------
// API sessions
// ---------------------------------------------------------------------------

func (s *sessionService) Authenticate(ctx context.Context, email, pw string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	var a attempts
	if _, err := s.get(ctx, s.attemptsKey(email), &a); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if s.clock.Now().Before(a.LockedUntil) {
		return nil, ErrAccountLocked
	}

	u, err := s.match(ctx, email, pw)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if u == nil {
		s.recordFailedLogin(ctx, email, a)
		return nil, ErrInvalidCredentials
	}

	if a.Failures > 0 {
		_ = s.kv.Delete(ctx, s.attemptsKey(email))
	}
	return u, nil
}

func (s *sessionService) recordFailedLogin(ctx context.Context, email string, a attempts) {
	a.Failures++
	if a.Failures >= maxLoginAttempts {
		a.Failures = 0
		a.LockedUntil = s.clock.Now().Add(accountLockMins * time.Minute)
		slog.Warn("account locked after repeated login failures", slog.String("email", email))
	}
	if err := s.put(ctx, s.attemptsKey(email), a); err != nil {
		slog.Error("record failed login", slog.String("error", err.Error()))
	}
}

func (s *sessionService) IssueToken(ctx context.Context, u domain.User) (*Tokens, error) {
	if s.tokens == nil {
		return nil, ErrTokensDisabled
	}

	sessionID := uuid.Must(uuid.NewV7()).String()
	now := s.clock.Now()
	rec := record{
		UserID:    u.ID,
		Role:      string(u.Role),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.put(ctx, s.sessionKey(sessionID), rec); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	tok, exp, err := s.tokens.IssueAccess(u.ID, string(u.Role), sessionID)
	if err != nil {
		_ = s.kv.Delete(ctx, s.sessionKey(sessionID))
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	if rec.ExpiresAt.Before(exp) {
		exp = rec.ExpiresAt
	}

	return &Tokens{
		AccessToken: tok,
		SessionID:   sessionID,
		ExpiresAt:   exp,
		ExpiresIn:   int64(exp.Sub(now).Seconds()),
		User:        u.Public(),
	}, nil
}

// Resolve checks that the token's session is still live and returns the
// user it belongs to, as currently stored.
func (s *sessionService) Resolve(ctx context.Context, claims *pasetotoken.Claims) (*domain.User, error) {
	if claims == nil || claims.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	key := s.sessionKey(claims.SessionID)
	var rec record
	ok, err := s.get(ctx, key, &rec)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !ok || rec.UserID != claims.UserID {
		return nil, ErrSessionNotFound
	}
	if !s.clock.Now().Before(rec.ExpiresAt) {
		_ = s.kv.Delete(ctx, key)
		return nil, ErrSessionNotFound
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	for _, u := range users {
		if u.ID == rec.UserID {
			pub := u.Public()
			return &pub, nil
		}
	}
	// account removed after the token was issued
	_ = s.kv.Delete(ctx, key)
	return nil, ErrSessionNotFound
}

func (s *sessionService) Revoke(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, s.sessionKey(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// match scans the users for the exact email whose credential accepts pw.
// nil, nil means no match.
func (s *sessionService) match(ctx context.Context, email, pw string) (*domain.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	h := s.store.Hasher()

	for _, u := range users {
		if u.Email != email {
			continue
		}

		var ok, rehash bool
		if password.IsHash(u.Password) {
			ok = h.Match(u.Password, pw)
			rehash = ok && h.NeedsRehash(u.Password)
		} else {
			// written before credentials were hashed
			ok = subtle.ConstantTimeCompare([]byte(u.Password), []byte(pw)) == 1
			rehash = ok
		}
		if !ok {
			continue
		}

		if rehash {
			s.rehash(ctx, u, pw)
		}
		return &u, nil
	}
	return nil, nil
}

func (s *sessionService) rehash(ctx context.Context, u domain.User, pw string) {
	hashed, err := s.store.Hasher().Hash(pw)
	if err != nil {
		slog.Error("rehash password", slog.String("user_id", u.ID), slog.String("error", err.Error()))
		return
	}
	u.Password = hashed
	if _, err := s.store.UpdateUser(ctx, u); err != nil {
		slog.Error("store rehashed password", slog.String("user_id", u.ID), slog.String("error", err.Error()))
		return
	}
	slog.Info("password rehashed", slog.String("user_id", u.ID))
}

func (s *sessionService) MigratePasswords(ctx context.Context) (int, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate passwords: %w", err)
	}

	n := 0
	for _, u := range users {
		if password.IsHash(u.Password) {
			continue
		}
		hashed, err := s.store.Hasher().Hash(u.Password)
		if err != nil {
			return n, fmt.Errorf("migrate passwords: %w", err)
		}
		u.Password = hashed
		if _, err := s.store.UpdateUser(ctx, u); err != nil {
			return n, fmt.Errorf("migrate passwords: %w", err)
		}
		n++
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func (s *sessionService) get(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrCorrupt) {
		return false, nil
	}
	if err != nil || !ok {
		return false, err
	}
	if err := s.store.Codec().Unmarshal(raw, v); err != nil {
		slog.Warn("unreadable session record ignored", slog.String("error", err.Error()))
		return false, nil
	}
	return true, nil
}

func (s *sessionService) put(ctx context.Context, key string, v any) error {
	raw, err := s.store.Codec().Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, raw)
}

func ptr[T any](v T) *T { return &v }
