// Package store persists the clinic's collections and the desk session in
// a kv.Store under five well-known keys.
//
// Collections are written whole: every mutation reads the collection,
// changes it in memory and overwrites the key. A mutex serializes those
// read-modify-write cycles within one process; separate processes sharing
// the same substrate still race with last-write-wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/seed"
	"github.com/ankurdental/dentaldesk/pkg/constants"
	"github.com/ankurdental/dentaldesk/pkg/kv"
	"github.com/ankurdental/dentaldesk/pkg/util/password"
)

// Keys names the five logical entries the store owns.
type Keys struct {
	Users           string
	Patients        string
	Incidents       string
	CurrentUser     string
	IsAuthenticated string
}

func KeysWithPrefix(prefix string) Keys {
	return Keys{
		Users:           prefix + "users",
		Patients:        prefix + "patients",
		Incidents:       prefix + "incidents",
		CurrentUser:     prefix + "current_user",
		IsAuthenticated: prefix + "is_authenticated",
	}
}

func (k Keys) all() []string {
	return []string{k.Users, k.Patients, k.Incidents, k.CurrentUser, k.IsAuthenticated}
}

type Store struct {
	kv     kv.Store
	codec  kv.Codec
	keys   Keys
	hasher *password.Hasher
	log    *slog.Logger

	mu sync.RWMutex
}

type Option func(*Store)

func WithCodec(c kv.Codec) Option { return func(s *Store) { s.codec = c } }

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.keys = KeysWithPrefix(prefix) }
}

// WithHasher sets the hasher used for seeded credentials.
func WithHasher(h *password.Hasher) Option { return func(s *Store) { s.hasher = h } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    backend,
		codec: kv.JSON{},
		keys:  KeysWithPrefix(constants.DefaultKeyPrefix),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		s.hasher = password.NewHasher(nil)
	}
	s.log = s.log.With(slog.String("component", "store"))
	return s
}

func (s *Store) Keys() Keys { return s.keys }

// Prefix is the key prefix shared by every entry the store owns.
func (s *Store) Prefix() string { return strings.TrimSuffix(s.keys.Users, "users") }

func (s *Store) Codec() kv.Codec { return s.codec }

func (s *Store) Hasher() *password.Hasher { return s.hasher }

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Initialize writes the seed for every collection that is absent and
// returns the keys it wrote. Existing collections, even empty or
// unreadable ones, are left alone.
func (s *Store) Initialize(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seeded []string

	present, err := s.exists(ctx, s.keys.Users)
	if err != nil {
		return nil, err
	}
	if !present {
		users, err := s.hashSeedUsers(seed.Users())
		if err != nil {
			return nil, err
		}
		if err := s.put(ctx, s.keys.Users, users); err != nil {
			return nil, err
		}
		seeded = append(seeded, s.keys.Users)
	}

	present, err = s.exists(ctx, s.keys.Patients)
	if err != nil {
		return nil, err
	}
	if !present {
		if err := s.put(ctx, s.keys.Patients, seed.Patients()); err != nil {
			return nil, err
		}
		seeded = append(seeded, s.keys.Patients)
	}

	present, err = s.exists(ctx, s.keys.Incidents)
	if err != nil {
		return nil, err
	}
	if !present {
		if err := s.put(ctx, s.keys.Incidents, seed.Incidents()); err != nil {
			return nil, err
		}
		seeded = append(seeded, s.keys.Incidents)
	}

	if len(seeded) > 0 {
		s.log.Info("seeded store", slog.Any("keys", seeded))
	}
	return seeded, nil
}

func (s *Store) hashSeedUsers(users []domain.User) ([]domain.User, error) {
	for i := range users {
		h, err := s.hasher.Hash(users[i].Password)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", users[i].Email, err)
		}
		users[i].Password = h
	}
	return users, nil
}

// Reset removes every key the store owns.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range s.keys.all() {
		if err := s.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("reset %s: %w", k, err)
		}
	}
	return nil
}

// Snapshot returns everything the store holds.
func (s *Store) Snapshot(ctx context.Context) (domain.AppState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		st  domain.AppState
		err error
	)
	if st.Users, err = load[domain.User](ctx, s, s.keys.Users); err != nil {
		return st, err
	}
	if st.Patients, err = load[domain.Patient](ctx, s, s.keys.Patients); err != nil {
		return st, err
	}
	if st.Incidents, err = load[domain.Incident](ctx, s, s.keys.Incidents); err != nil {
		return st, err
	}
	if st.CurrentUser, err = s.currentUser(ctx); err != nil {
		return st, err
	}
	if st.IsAuthenticated, err = s.isAuthenticated(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// ---------------------------------------------------------------------------
// Collections
// ---------------------------------------------------------------------------

func (s *Store) Users(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load[domain.User](ctx, s, s.keys.Users)
}

func (s *Store) SetUsers(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.keys.Users, nonNil(users))
}

func (s *Store) Patients(ctx context.Context) ([]domain.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load[domain.Patient](ctx, s, s.keys.Patients)
}

func (s *Store) SetPatients(ctx context.Context, patients []domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.keys.Patients, nonNil(patients))
}

func (s *Store) Incidents(ctx context.Context) ([]domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return load[domain.Incident](ctx, s, s.keys.Incidents)
}

func (s *Store) SetIncidents(ctx context.Context, incidents []domain.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(ctx, s.keys.Incidents, nonNil(incidents))
}

// ---------------------------------------------------------------------------
// Desk session
// ---------------------------------------------------------------------------

// CurrentUser returns the persisted desk user, or nil when none is stored
// or the stored value is unreadable.
func (s *Store) CurrentUser(ctx context.Context) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser(ctx)
}

// SetCurrentUser persists u and raises the authenticated flag. A nil u
// removes the stored user and lowers the flag.
func (s *Store) SetCurrentUser(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCurrentUser(ctx, u)
}

// ClearAuth is SetCurrentUser(ctx, nil).
func (s *Store) ClearAuth(ctx context.Context) error {
	return s.SetCurrentUser(ctx, nil)
}

// IsAuthenticated reports the persisted flag; absent or unreadable is false.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated(ctx)
}

func (s *Store) currentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	ok, err := s.decode(ctx, s.keys.CurrentUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *Store) setCurrentUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		if err := s.kv.Delete(ctx, s.keys.CurrentUser); err != nil {
			return fmt.Errorf("clear current user: %w", err)
		}
		return s.put(ctx, s.keys.IsAuthenticated, false)
	}
	if err := s.put(ctx, s.keys.CurrentUser, u); err != nil {
		return err
	}
	return s.put(ctx, s.keys.IsAuthenticated, true)
}

func (s *Store) isAuthenticated(ctx context.Context) (bool, error) {
	var flag bool
	if _, err := s.decode(ctx, s.keys.IsAuthenticated, &flag); err != nil {
		return false, err
	}
	return flag, nil
}

// Ping reads the users key to check the substrate answers.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.exists(ctx, s.keys.Users)
	return err
}

// ---------------------------------------------------------------------------
// Encoding helpers
// ---------------------------------------------------------------------------

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return ok, nil
}

// decode reads key into v. Missing keys report false. Values that fail to
// decode are logged and reported as missing; only substrate failures are
// returned as errors.
func (s *Store) decode(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrCorrupt) {
		s.log.Warn("unreadable value ignored", slog.String("key", key), slog.String("error", err.Error()))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := s.codec.Unmarshal(raw, v); err != nil {
		s.log.Warn("corrupt value ignored",
			slog.String("key", key),
			slog.String("codec", s.codec.Name()),
			slog.String("error", err.Error()))
		return false, nil
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	raw, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func load[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	var items []T
	ok, err := s.decode(ctx, key, &items)
	if err != nil {
		return nil, err
	}
	if !ok || items == nil {
		// a failed decode may have partially filled items
		return []T{}, nil
	}
	return items, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
