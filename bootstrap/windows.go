package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/windowkit/domain/gui"
)

// LoadDefinitions reads every window definition from the YAML files under
// dir, sorted by path for a stable registration order. Subdirectories are
// walked; non-YAML files are skipped.
func LoadDefinitions(dir string) ([]gui.Definition, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk window definitions %s: %w", dir, err)
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	defs := make([]gui.Definition, 0, len(paths))
	for _, path := range paths {
		def, err := LoadDefinition(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Namespace]; ok {
			return nil, fmt.Errorf("namespace %q defined in both %s and %s", def.Namespace, prev, path)
		}
		seen[def.Namespace] = path
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadDefinition reads one window definition from a YAML file.
func LoadDefinition(path string) (gui.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gui.Definition{}, fmt.Errorf("read window definition: %w", err)
	}

	var def gui.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return gui.Definition{}, fmt.Errorf("parse window definition %s: %w", path, err)
	}
	if err := def.Validate(); err != nil {
		return gui.Definition{}, fmt.Errorf("window definition %s: %w", path, err)
	}
	return def, nil
}
