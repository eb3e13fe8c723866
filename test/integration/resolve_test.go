package integration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/vsphere-config/internal/application"
	"github.com/eugenenazirov/vsphere-config/internal/config"
)

var vcenterVars = []string{
	config.EnvServer, config.EnvUser, config.EnvPassword,
	config.EnvDatacenter, config.EnvInsecure, config.EnvSSL, config.EnvPort,
}

// clearEnv unsets every VCENTER_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range vcenterVars {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultFileName)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveFromProcessEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvServer, "vsphere.example.com")
	t.Setenv(config.EnvUser, "user")
	t.Setenv(config.EnvPassword, "password")
	t.Setenv(config.EnvPort, "8090")

	dir := t.TempDir()
	writeConfig(t, dir, "vcenter: {\n  host: \"ignored.example.com\"\n}\n")

	cfg, err := config.New(config.WithConfDir(dir), config.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("config.New returned error: %v", err)
	}
	if cfg.Host() != "vsphere.example.com" {
		t.Fatalf("expected environment host, got %s", cfg.Host())
	}

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New returned error: %v", err)
	}
	if got, want := app.Endpoint().URL().String(), "https://user@vsphere.example.com:8090/sdk"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestResolveFromDefaultFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
vcenter: {
  host: "vsphere2.example.com"
  user: "user2"
  password: "password2"
  ssl: false
  insecure: false
}
`)

	cfg, err := config.New(config.WithConfDir(dir))
	if err != nil {
		t.Fatalf("config.New returned error: %v", err)
	}
	if cfg.Source().Path != path {
		t.Fatalf("expected source path %s, got %s", path, cfg.Source().Path)
	}

	app, err := application.New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("application.New returned error: %v", err)
	}
	ep := app.Endpoint()
	if ep.Scheme != "http" || ep.Port != 80 || ep.Insecure {
		t.Fatalf("unexpected endpoint: %+v", ep)
	}
}

func TestResolveFailures(t *testing.T) {
	clearEnv(t)

	_, err := config.New(config.WithConfDir(t.TempDir()))
	if !errors.Is(err, config.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}

	t.Setenv(config.EnvServer, "vsphere.example.com")
	_, err = config.New(config.WithConfDir(t.TempDir()))
	if !errors.Is(err, config.ErrMissingSettings) {
		t.Fatalf("expected ErrMissingSettings, got %v", err)
	}
	if got, want := err.Error(), "To use this module you must provide the following settings: user password"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
