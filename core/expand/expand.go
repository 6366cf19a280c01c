// Package expand turns declarative trees with module invocations into
// primitive-only trees, and resolves symbolic handler references against a
// namespace's handler table.
package expand

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/core/registry"
	"github.com/artpar/windowkit/core/schema"
	"github.com/artpar/windowkit/core/validation"
	"github.com/artpar/windowkit/domain/gui"
)

// maxReplacements bounds one expansion pass. Legitimate trees sit orders of
// magnitude below this; only cyclic module definitions reach it.
const maxReplacements = 10000

// Report summarizes one expansion pass.
type Report struct {
	// Expanded counts replaced module nodes.
	Expanded int
	// Collisions counts default-handler names that lost to an earlier
	// registration.
	Collisions int
}

// Expander replaces module nodes with their built subtrees.
type Expander struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// New creates an expander backed by the module registry.
func New(reg *registry.Registry, logger zerolog.Logger) *Expander {
	return &Expander{
		registry: reg,
		logger:   logger.With().Str("component", "expand").Logger(),
	}
}

// Expand walks tree and replaces every module node with its build output,
// merging each expanded module's default handlers into table (first
// registration wins, collisions logged). Built subtrees may contain further
// module nodes; they are expanded in the same pass.
//
// The tree is mutated in place. On error the tree may be partially expanded
// and must be discarded.
func (e *Expander) Expand(tree []*gui.Node, table *gui.HandlerTable) (Report, error) {
	var report Report

	err := gui.Walk(tree, func(c gui.Cursor) error {
		node := c.Node
		if !node.IsModule() {
			return nil
		}
		if node.Module == "" {
			return &NoModuleNameError{Element: node.Name}
		}

		def, ok := e.registry.Get(node.Module)
		if !ok {
			return &UnknownModuleError{Module: node.Module}
		}
		if err := validation.ValidateParams(def.Manifest, node.Props); err != nil {
			return err
		}
		applyDefaults(def.Manifest.Params, node)

		built, err := def.Build(node)
		if err != nil {
			return err
		}
		if built == nil {
			return &EmptyBuildError{Module: node.Module}
		}
		c.Replace(built)

		report.Expanded++
		if report.Expanded > maxReplacements {
			return &LimitError{Limit: maxReplacements}
		}

		for _, name := range sortedHandlerNames(def.Handlers) {
			if table.Put(name, def.Handlers[name]) {
				continue
			}
			report.Collisions++
			e.logger.Warn().
				Str("module", node.Module).
				Str("handler", name).
				Msg("handler overridden")
		}
		return nil
	})

	return report, err
}

// applyDefaults fills absent defaulted parameters on the invocation node so
// build functions see a complete parameter set.
func applyDefaults(specs map[string]schema.ParamSpec, node *gui.Node) {
	for name, spec := range specs {
		if spec.Default == nil {
			continue
		}
		if _, supplied := node.Props[name]; supplied {
			continue
		}
		if node.Props == nil {
			node.Props = make(map[string]any)
		}
		node.Props[name] = gui.CloneValue(spec.Default)
	}
}

func sortedHandlerNames(handlers map[string]gui.HandlerFunc) []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
