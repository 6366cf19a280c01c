// Package registry holds the process-wide table of module definitions.
// Definitions are registered during startup, either from Go code or from a
// manifest directory, and the table is frozen before the first namespace is
// registered.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/artpar/windowkit/core/schema"
	"github.com/artpar/windowkit/domain/gui"
)

// BuildFunc produces a module's subtree from its invocation node. The node's
// Props arrive validated and defaulted. The returned root replaces the module
// node in the tree and may itself contain further module nodes.
type BuildFunc func(node *gui.Node) (*gui.Node, error)

// Definition binds a manifest to its build function and default handlers.
// Template-backed definitions leave Build nil and carry a manifest template.
type Definition struct {
	Manifest schema.Manifest
	Build    BuildFunc
	Handlers map[string]gui.HandlerFunc
}

// DuplicateError reports a second registration of a module name.
type DuplicateError struct {
	Module string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("module %q already registered", e.Module)
}

// FrozenError reports a registration after the registry was frozen.
type FrozenError struct {
	Module string
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("module %q: registry is frozen", e.Module)
}

type entry struct {
	def  Definition
	kind schema.ModuleKind
}

// Registry is the module table. Safe for concurrent use; mutations are
// rejected after Freeze.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]entry
	frozen bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]entry)}
}

// Register adds a definition. The manifest must validate, the handler names
// the manifest declares must exactly match the functions the definition
// provides, and the module name must be free.
func (r *Registry) Register(def Definition) error {
	if err := def.Manifest.Validate(); err != nil {
		return err
	}
	name := def.Manifest.Module

	kind := schema.KindGo
	if def.Build == nil {
		if def.Manifest.Template == nil {
			return fmt.Errorf("module %q: no build function and no template", name)
		}
		def.Build = templateBuilder(def.Manifest)
		kind = schema.KindTemplate
	}
	if err := checkHandlerParity(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &FrozenError{Module: name}
	}
	if _, exists := r.defs[name]; exists {
		return &DuplicateError{Module: name}
	}
	r.defs[name] = entry{def: def, kind: kind}
	return nil
}

// checkHandlerParity verifies the manifest's declared handler names and the
// definition's provided functions are the same set.
func checkHandlerParity(def Definition) error {
	name := def.Manifest.Module
	declared := make(map[string]bool, len(def.Manifest.Handlers))
	for _, h := range def.Manifest.Handlers {
		declared[h] = true
	}
	for _, h := range def.Manifest.Handlers {
		if _, ok := def.Handlers[h]; !ok {
			return fmt.Errorf("module %q: manifest declares handler %q but no function is provided", name, h)
		}
	}
	for h := range def.Handlers {
		if !declared[h] {
			return fmt.Errorf("module %q: handler %q provided but not declared in the manifest", name, h)
		}
	}
	return nil
}

// LoadDir registers every manifest under dir as a template-backed module and
// returns how many were loaded. Go-backed modules register through Register;
// a manifest without a template is an error here.
func (r *Registry) LoadDir(dir string) (int, error) {
	manifests, err := schema.ParseDir(dir)
	if err != nil {
		return 0, err
	}
	for _, m := range manifests {
		if m.Template == nil {
			return 0, fmt.Errorf("manifest %q: modules loaded from a directory require a template", m.Module)
		}
		if err := r.Register(Definition{Manifest: m}); err != nil {
			return 0, err
		}
	}
	return len(manifests), nil
}

// Freeze makes the registry immutable. Later Register calls fail.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.defs[name]
	return e.def, ok
}

// Names returns all registered module names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Descriptors returns catalog entries for every module, sorted by name.
func (r *Registry) Descriptors() []schema.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]schema.Descriptor, 0, len(r.defs))
	for _, e := range r.defs {
		out = append(out, schema.Describe(e.def.Manifest, e.kind))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}
