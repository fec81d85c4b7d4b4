package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
)

// writeConfig drops a config.yaml into dir that keeps the store in a sqlite
// file next to it and hashes with cheap Argon2 params.
func writeConfig(t *testing.T, dir string, seed bool) string {
	t.Helper()
	body := fmt.Sprintf(`clinic:
  seed_on_start: %t
storage:
  driver: sqlite
  path: %s
password:
  memory_kib: 1024
  iterations: 1
  parallelism: 1
logging:
  level: error
`, seed, filepath.Join(dir, "desk.db"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "dentaldesk", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("config", cfgPath, "config file path")
	root.AddCommand(NewSessionCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoginSeedsFreshStore(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), true)

	out, err := run(t, cfg, "session", "login", "--email", "admin@entnt.in", "--password", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "admin@entnt.in (Admin)") {
		t.Errorf("login output = %q", out)
	}

	out, err = run(t, cfg, "session", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "admin@entnt.in") {
		t.Errorf("whoami output = %q", out)
	}

	if _, err := run(t, cfg, "session", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := run(t, cfg, "session", "whoami"); !errors.Is(err, cmdutil.ErrNotLoggedIn) {
		t.Errorf("whoami after logout err = %v, want ErrNotLoggedIn", err)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		seed     bool
		password string
	}{
		{"wrong password", true, "nope"},
		{"seeding disabled", false, "admin123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeConfig(t, t.TempDir(), tt.seed)
			_, err := run(t, cfg, "session", "login", "--email", "admin@entnt.in", "--password", tt.password)
			if !errors.Is(err, errBadCredentials) {
				t.Fatalf("login err = %v, want errBadCredentials", err)
			}
		})
	}
}
