package bootstrap_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/windowkit/bootstrap"
	"github.com/artpar/windowkit/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Store:   config.StoreConfig{Driver: "memory"},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNew_MemoryStore(t *testing.T) {
	a, err := bootstrap.New(testConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	if a.Store == nil {
		t.Error("Store is nil")
	}
	if a.DB != nil {
		t.Error("DB should be nil for the memory driver")
	}
	if a.Windows == nil {
		t.Fatal("Windows service is nil")
	}

	// Built-ins are registered and the registry is frozen.
	names := a.Registry.Names()
	want := []string{"button_row", "titlebar"}
	if len(names) != len(want) {
		t.Fatalf("Registry.Names() = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("Registry.Names()[%d] = %s, want %s", i, names[i], n)
		}
	}
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "sqlite"
	cfg.Store.DSN = filepath.Join(t.TempDir(), "state.db")

	a, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	if a.DB == nil {
		t.Fatal("DB is nil for the sqlite driver")
	}
}

func TestNew_LoadsModulesAndWindows(t *testing.T) {
	modDir := t.TempDir()
	writeFile(t, modDir, "divider.yaml", `
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
`)

	winDir := t.TempDir()
	writeFile(t, winDir, "inventory.yaml", `
namespace: inventory
shortcut: toggle-inventory
tree:
  - type: frame
    name: window
    children:
      - type: module
        module: divider
      - type: module
        module: button_row
        props:
          count: 2
`)

	cfg := testConfig()
	cfg.Modules.Dir = modDir
	cfg.Windows.Dir = winDir

	a, err := bootstrap.New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer a.Close()

	if _, ok := a.Registry.Get("divider"); !ok {
		t.Error("template module divider not registered")
	}

	info, ok := a.Windows.Namespace("inventory")
	if !ok {
		t.Fatal("namespace inventory not registered")
	}
	if info.Shortcut != "toggle-inventory" {
		t.Errorf("Shortcut = %s, want toggle-inventory", info.Shortcut)
	}
}

func TestNew_BadWindowDefinition(t *testing.T) {
	winDir := t.TempDir()
	writeFile(t, winDir, "broken.yaml", `
namespace: broken
tree:
  - type: module
    module: does_not_exist
`)

	cfg := testConfig()
	cfg.Windows.Dir = winDir

	if _, err := bootstrap.New(cfg); err == nil {
		t.Fatal("expected New to fail on an unknown module")
	}
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "namespace: beta\ntree:\n  - type: frame\n")
	writeFile(t, dir, "a.yml", "namespace: alpha\ntree:\n  - type: frame\n")
	writeFile(t, dir, "notes.txt", "ignored")

	defs, err := bootstrap.LoadDefinitions(dir)
	if err != nil {
		t.Fatalf("LoadDefinitions error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}
	// Sorted by path, so a.yml first.
	if defs[0].Namespace != "alpha" || defs[1].Namespace != "beta" {
		t.Errorf("namespaces = %s, %s; want alpha, beta", defs[0].Namespace, defs[1].Namespace)
	}
}

func TestLoadDefinitions_DuplicateNamespace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", "namespace: same\ntree:\n  - type: frame\n")
	writeFile(t, dir, "two.yaml", "namespace: same\ntree:\n  - type: frame\n")

	_, err := bootstrap.LoadDefinitions(dir)
	if err == nil {
		t.Fatal("expected duplicate namespace error")
	}
	if !strings.Contains(err.Error(), "same") {
		t.Errorf("error = %v, want mention of the namespace", err)
	}
}

func TestLoadDefinition_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "namespace: \"\"\ntree: []\n")

	if _, err := bootstrap.LoadDefinition(path); err == nil {
		t.Fatal("expected validation error")
	}
}
