package kv

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ankurdental/dentaldesk/config"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "dental_users"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	if err := s.Set(ctx, "dental_users", []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "dental_users", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set(overwrite) error = %v", err)
	}

	got, ok, err := s.Get(ctx, "dental_users")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"1"}]`)) {
		t.Errorf("Get() = %q", got)
	}

	if err := s.Delete(ctx, "dental_users"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "dental_users"); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "dental_users"); ok {
		t.Error("key still present after Delete")
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	exerciseStore(t, s)

	// values must not alias caller buffers
	buf := []byte("true")
	_ = s.Set(context.Background(), "flag", buf)
	buf[0] = 'X'
	got, _, _ := s.Get(context.Background(), "flag")
	if string(got) != "true" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}

	_ = s.Close()
	if _, _, err := s.Get(context.Background(), "flag"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close error = %v, want ErrClosed", err)
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "desk.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	exerciseStore(t, s)

	if err := s.Set(context.Background(), "dental_patients", []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	s.Close()

	reopened, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(context.Background(), "dental_patients")
	if err != nil || !ok || string(got) != `[{"id":"p1"}]` {
		t.Errorf("value did not survive reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestEncrypted(t *testing.T) {
	inner := NewMemory()
	key := bytes.Repeat([]byte{7}, 32)
	s, err := NewEncrypted(inner, key)
	if err != nil {
		t.Fatalf("NewEncrypted() error = %v", err)
	}
	exerciseStore(t, s)

	ctx := context.Background()
	_ = s.Set(ctx, "dental_current_user", []byte(`{"email":"admin@entnt.in"}`))
	raw, _, _ := inner.Get(ctx, "dental_current_user")
	if bytes.Contains(raw, []byte("admin@entnt.in")) {
		t.Error("inner store holds plaintext")
	}

	// a value moved under another key must not open
	_ = inner.Set(ctx, "dental_users", raw)
	if _, ok, err := s.Get(ctx, "dental_users"); !ok || !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get(swapped) = ok %v err %v, want ErrCorrupt", ok, err)
	}

	if _, err := NewEncrypted(inner, []byte("short")); err == nil {
		t.Error("NewEncrypted() accepted a short key")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Driver: "memory"}},
		{name: "sqlite", cfg: config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "a.db")}},
		{name: "encrypted memory", cfg: config.StorageConfig{Driver: "memory", EncryptionKey: testKeyHex}},
		{name: "redis without client", cfg: config.StorageConfig{Driver: "redis"}, wantErr: true},
		{name: "bad key", cfg: config.StorageConfig{Driver: "memory", EncryptionKey: "nothex"}, wantErr: true},
		{name: "unknown", cfg: config.StorageConfig{Driver: "bolt"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				exerciseStore(t, s)
				s.Close()
			}
		})
	}
}

func TestTraced(t *testing.T) {
	exerciseStore(t, NewTraced(NewMemory(), "memory"))
}
