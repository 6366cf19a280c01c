package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/windowkit/config"
)

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	cfg, err := config.Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "windowkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func validConfig() string {
	return `
server:
  host: "127.0.0.1"
  port: 9090

store:
  driver: "memory"
`
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 15s

store:
  driver: "sqlite"
  dsn: ":memory:"

logging:
  level: "debug"
  format: "console"

metrics:
  enabled: true
  path: "/stats"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %s, want sqlite", cfg.Store.Driver)
	}
	if cfg.Store.DSN != ":memory:" {
		t.Errorf("Store.DSN = %s, want :memory:", cfg.Store.DSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Metrics.Path != "/stats" {
		t.Errorf("Metrics.Path = %s, want /stats", cfg.Metrics.Path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "{}\n")

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("default ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("default Store.Driver = %s, want memory", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "windowkit.db" {
		t.Errorf("default Store.DSN = %s, want windowkit.db", cfg.Store.DSN)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %s, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("default Logging.Format = %s, want json", cfg.Logging.Format)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %s, want /metrics", cfg.Metrics.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WINDOWKIT_SERVER_PORT", "7070")
	t.Setenv("WINDOWKIT_STORE_DRIVER", "sqlite")
	t.Setenv("WINDOWKIT_STORE_DSN", "/tmp/test.db")
	t.Setenv("WINDOWKIT_LOG_LEVEL", "warn")
	t.Setenv("WINDOWKIT_METRICS_ENABLED", "true")

	cfg := writeAndLoad(t, validConfig())

	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070 (env override)", cfg.Server.Port)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %s, want sqlite (env override)", cfg.Store.Driver)
	}
	if cfg.Store.DSN != "/tmp/test.db" {
		t.Errorf("Store.DSN = %s, want /tmp/test.db (env override)", cfg.Store.DSN)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %s, want warn (env override)", cfg.Logging.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true (env override)")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server: [not a mapping"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad store driver",
			content: "store:\n  driver: postgres\n",
			wantErr: "store.driver",
		},
		{
			name:    "bad log level",
			content: "logging:\n  level: verbose\n",
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			content: "logging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "port out of range",
			content: "server:\n  port: 99999\n",
			wantErr: "server.port",
		},
		{
			name:    "missing modules dir",
			content: "modules:\n  dir: /nonexistent/manifest/dir\n",
			wantErr: "modules.dir",
		},
		{
			name:    "missing windows dir",
			content: "windows:\n  dir: /nonexistent/window/dir\n",
			wantErr: "windows.dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_STORE_PATH", "/tmp/expanded.db")

	content := `
store:
  driver: "sqlite"
  dsn: "${TEST_STORE_PATH}"
`
	cfg := writeAndLoad(t, content)

	if cfg.Store.DSN != "/tmp/expanded.db" {
		t.Errorf("Store.DSN = %s, want /tmp/expanded.db", cfg.Store.DSN)
	}
}

func TestLoad_DirectoriesValidated(t *testing.T) {
	dir := t.TempDir()
	modDir := filepath.Join(dir, "modules")
	winDir := filepath.Join(dir, "windows")
	for _, d := range []string{modDir, winDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	content := "modules:\n  dir: " + modDir + "\nwindows:\n  dir: " + winDir + "\n"
	cfg := writeAndLoad(t, content)

	if cfg.Modules.Dir != modDir {
		t.Errorf("Modules.Dir = %s, want %s", cfg.Modules.Dir, modDir)
	}
	if cfg.Windows.Dir != winDir {
		t.Errorf("Windows.Dir = %s, want %s", cfg.Windows.Dir, winDir)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WINDOWKIT_SERVER_PORT", "6060")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv error: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Port = %d, want 6060", cfg.Server.Port)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %s, want memory", cfg.Store.Driver)
	}
}

func TestLoadWithFallback(t *testing.T) {
	// Existing file wins.
	path := writeConfig(t, validConfig())
	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090 from file", cfg.Server.Port)
	}

	// Absent file falls back to env + defaults.
	cfg, err = config.LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback fallback error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
}
