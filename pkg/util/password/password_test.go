package password

import (
	"strings"
	"testing"
)

// fast keeps the suite quick; production params are exercised in
// TestDefaultHasher only.
var fast = &Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHash(t *testing.T) {
	h := NewHasher(fast)

	hash, err := h.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash() format invalid, got %s", hash)
	}
	if !strings.Contains(hash, "m=1024,t=1,p=1") {
		t.Errorf("Hash() params not encoded: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("Hash() expected 6 parts, got %d", len(parts))
	}
	if !IsHash(hash) {
		t.Error("IsHash() = false for fresh hash")
	}
}

func TestVerify(t *testing.T) {
	h := NewHasher(fast)
	hash, err := h.Hash("patient123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{name: "correct password", hash: hash, password: "patient123"},
		{name: "wrong password", hash: hash, password: "patient124", wantErr: ErrMismatch},
		{name: "empty password", hash: hash, password: "", wantErr: ErrMismatch},
		{name: "plaintext stored value", hash: "patient123", password: "patient123", wantErr: ErrInvalidHash},
		{name: "empty hash", hash: "", password: "x", wantErr: ErrInvalidHash},
		{
			name:     "wrong algorithm",
			hash:     "$argon2i$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g",
			password: "x",
			wantErr:  ErrInvalidHash,
		},
		{
			name:     "malformed params",
			hash:     "$argon2id$v=19$invalid$c29tZXNhbHQ$c29tZWhhc2g",
			password: "x",
			wantErr:  ErrInvalidHash,
		},
		{
			name:     "future version",
			hash:     "$argon2id$v=20$m=1024,t=1,p=1$c29tZXNhbHQ$c29tZWhhc2g",
			password: "x",
			wantErr:  ErrIncompatibleVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Verify(tt.hash, tt.password); err != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashUniqueness(t *testing.T) {
	h := NewHasher(fast)
	hash1, _ := h.Hash("samepassword")
	hash2, _ := h.Hash("samepassword")

	if hash1 == hash2 {
		t.Error("Hash() should salt each call")
	}
	if !h.Match(hash1, "samepassword") || !h.Match(hash2, "samepassword") {
		t.Error("salted hashes failed to verify")
	}
}

func TestVerifyAcrossParams(t *testing.T) {
	old := NewHasher(&Params{Memory: 2048, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	hash, _ := old.Hash("admin123")

	current := NewHasher(fast)
	if err := current.Verify(hash, "admin123"); err != nil {
		t.Errorf("Verify() with other params error = %v", err)
	}
	if !current.NeedsRehash(hash) {
		t.Error("NeedsRehash() = false for hash with other params")
	}
	if old.NeedsRehash(hash) {
		t.Error("NeedsRehash() = true for hash with own params")
	}
	if !current.NeedsRehash("admin123") {
		t.Error("NeedsRehash() = false for plaintext")
	}
}

func TestConfigToParams(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Params
	}{
		{name: "zero config uses defaults", cfg: Config{}, want: *DefaultParams()},
		{
			name: "low memory caps memory",
			cfg:  Config{MemoryKiB: 128 * 1024, LowMemoryMode: true},
			want: Params{Memory: 32 * 1024, Iterations: 4, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		},
		{
			name: "explicit values win",
			cfg:  Config{MemoryKiB: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
			want: Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := *tt.cfg.ToParams(); got != tt.want {
				t.Errorf("ToParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultHasher(t *testing.T) {
	if testing.Short() {
		t.Skip("64 MiB argon2 in -short mode")
	}
	h := NewHasher(nil)
	hash, err := h.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h.NeedsRehash(hash) {
		t.Error("NeedsRehash() = true for default params")
	}
}

func BenchmarkHash(b *testing.B) {
	h := NewHasher(nil)
	for i := 0; i < b.N; i++ {
		h.Hash("benchmarkpassword")
	}
}

func BenchmarkVerify(b *testing.B) {
	h := NewHasher(nil)
	hash, _ := h.Hash("benchmarkpassword")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Verify(hash, "benchmarkpassword")
	}
}
