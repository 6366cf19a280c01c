// Package e2e exercises the full stack: bootstrap wiring, sqlite
// persistence, headless host events and the inspector HTTP surface.
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/windowkit/bootstrap"
	"github.com/artpar/windowkit/config"
)

const inventoryDef = `
namespace: inventory
shortcut: toggle-inventory
custom_input: open-inventory
prebuild: true
tree:
  - type: frame
    name: window
    titlebar:
      - type: module
        module: titlebar
        name: bar
        props:
          title: Inventory
    children:
      - type: module
        module: button_row
        props:
          count: 3
`

const dividerManifest = `
module: divider
description: Horizontal divider line.
params:
  thickness:
    types: [number]
    optional: true
    default: 1
template:
  - type: line
    props:
      thickness: "${thickness}"
`

type env struct {
	app *bootstrap.App
	srv *httptest.Server
}

func newEnv(t *testing.T, dsn string) *env {
	t.Helper()

	modDir := t.TempDir()
	writeFile(t, modDir, "divider.yaml", dividerManifest)

	winDir := t.TempDir()
	writeFile(t, winDir, "inventory.yaml", inventoryDef)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Store:   config.StoreConfig{Driver: "sqlite", DSN: dsn},
		Modules: config.ModulesConfig{Dir: modDir},
		Windows: config.WindowsConfig{Dir: winDir},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}

	a, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	srv := httptest.NewServer(a.HTTPServer.Handler)
	t.Cleanup(srv.Close)

	return &env{app: a, srv: srv}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func (e *env) post(t *testing.T, path, body string) int {
	t.Helper()
	resp, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func (e *env) getWindows(t *testing.T) []map[string]any {
	t.Helper()
	resp, err := http.Get(e.srv.URL + "/windows")
	if err != nil {
		t.Fatalf("GET /windows: %v", err)
	}
	defer resp.Body.Close()
	var out []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode windows: %v", err)
	}
	return out
}

func TestFullLifecycle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "state.db")
	e := newEnv(t, dsn)
	ctx := context.Background()

	// Joining prebuilds the window hidden.
	e.app.Host.Join("alice")

	st, ok, err := e.app.Windows.State(ctx, "inventory", "alice")
	if err != nil || !ok {
		t.Fatalf("state after join: ok=%v err=%v", ok, err)
	}
	if st.Root.Visible() {
		t.Error("prebuilt window should start hidden")
	}

	// Shortcut toggles it visible and focuses it.
	e.app.Host.PressShortcut("toggle-inventory", "alice")
	if !st.Root.Visible() {
		t.Fatal("window should be visible after shortcut")
	}
	if opened := e.app.Host.Opened("alice"); opened == nil || opened.ID() != st.Root.ID() {
		t.Error("window should hold the opened focus after shortcut")
	}

	// Pin it, then close: pin suppresses the focus release.
	if err := e.app.Host.Click("inventory", "alice", "bar_pin"); err != nil {
		t.Fatalf("click pin: %v", err)
	}
	if !st.Pinned() {
		t.Fatal("window should be pinned after pin click")
	}
	if err := e.app.Host.Click("inventory", "alice", "bar_close"); err != nil {
		t.Fatalf("click close: %v", err)
	}
	if e.app.Host.Opened("alice") == nil {
		t.Error("close on a pinned window must not release focus")
	}
	if !st.Root.Visible() {
		t.Error("close must never change visibility")
	}

	// Unpin, close: focus released, still visible.
	if err := e.app.Host.Click("inventory", "alice", "bar_pin"); err != nil {
		t.Fatalf("click pin: %v", err)
	}
	if err := e.app.Host.Click("inventory", "alice", "bar_close"); err != nil {
		t.Fatalf("click close: %v", err)
	}
	if e.app.Host.Opened("alice") != nil {
		t.Error("close on an unpinned window must release focus")
	}
	if !st.Root.Visible() {
		t.Error("close must never change visibility")
	}

	// The inspector sees the live window.
	wins := e.getWindows(t)
	if len(wins) != 1 || wins[0]["user"] != "alice" {
		t.Fatalf("windows = %v, want one for alice", wins)
	}

	// Host-side destruction makes the state stale; the next access drops it.
	e.app.Host.DestroyRoot("inventory", "alice")
	if _, ok, _ := e.app.Windows.State(ctx, "inventory", "alice"); ok {
		t.Fatal("destroyed window should be reported absent")
	}
	if len(e.getWindows(t)) != 0 {
		t.Error("inspector should see no windows after destruction")
	}

	// Custom input with no live state builds a fresh visible window.
	if code := e.post(t, "/simulate/input", `{"name":"open-inventory","user":"alice"}`); code != http.StatusOK {
		t.Fatalf("simulate input status = %d", code)
	}
	st2, ok, err := e.app.Windows.State(ctx, "inventory", "alice")
	if err != nil || !ok {
		t.Fatalf("state after custom input: ok=%v err=%v", ok, err)
	}
	if !st2.Root.Visible() {
		t.Error("rebuilt window should be visible")
	}
	if st2.Root.ID() == st.Root.ID() {
		t.Error("rebuild should produce a fresh root handle")
	}
}

func TestPinSurvivesRestart(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "state.db")

	e1 := newEnv(t, dsn)
	ctx := context.Background()

	e1.app.Host.Join("bob")
	if err := e1.app.Windows.SetPinned(ctx, "inventory", "bob", true); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := e1.app.Close(); err != nil {
		t.Fatalf("close first run: %v", err)
	}
	e1.srv.Close()

	// Same database, same definition: the pin comes back on rebuild.
	e2 := newEnv(t, dsn)
	e2.app.Host.Join("bob")

	st, ok, err := e2.app.Windows.State(ctx, "inventory", "bob")
	if err != nil || !ok {
		t.Fatalf("state after restart: ok=%v err=%v", ok, err)
	}
	if !st.Pinned() {
		t.Error("pin should survive a restart through the sqlite store")
	}
}

func TestVersionChangePurges(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "state.db")

	e1 := newEnv(t, dsn)
	ctx := context.Background()

	e1.app.Host.Join("carol")
	if err := e1.app.Windows.SetPinned(ctx, "inventory", "carol", true); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := e1.app.Close(); err != nil {
		t.Fatalf("close first run: %v", err)
	}
	e1.srv.Close()

	// Second run with an edited definition: the fingerprint changes, the
	// namespace's persisted records are purged, the pin is gone.
	modDir := t.TempDir()
	writeFile(t, modDir, "divider.yaml", dividerManifest)
	winDir := t.TempDir()
	writeFile(t, winDir, "inventory.yaml", strings.Replace(inventoryDef, "count: 3", "count: 4", 1))

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Store:   config.StoreConfig{Driver: "sqlite", DSN: dsn},
		Modules: config.ModulesConfig{Dir: modDir},
		Windows: config.WindowsConfig{Dir: winDir},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
	a2, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("bootstrap second run: %v", err)
	}
	defer a2.Close()

	a2.Host.Join("carol")
	st, ok, err := a2.Windows.State(ctx, "inventory", "carol")
	if err != nil || !ok {
		t.Fatalf("state after version change: ok=%v err=%v", ok, err)
	}
	if st.Pinned() {
		t.Error("version change should purge persisted pins")
	}
}
