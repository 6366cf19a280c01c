package gui

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModuleType is the node type that marks a module invocation. Module nodes
// are replaced by the module's built subtree before a window is built.
const ModuleType = "module"

// Node is a single element in a declarative window tree.
type Node struct {
	// Type names a primitive element kind understood by the toolkit
	// (frame, flow, button, label, ...) or ModuleType.
	Type string `yaml:"type" json:"type"`

	// Module names the module to expand when Type is ModuleType.
	Module string `yaml:"module,omitempty" json:"module,omitempty"`

	// Name keys the built element's handle in State.Elems. Optional.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Props carries toolkit attributes for primitive nodes and parameters
	// for module nodes. Type and Module are structural and never live here.
	Props map[string]any `yaml:"props,omitempty" json:"props,omitempty"`

	// Handler references this element's handlers by symbolic name.
	Handler *HandlerRef `yaml:"handler,omitempty" json:"handler,omitempty"`

	// Child sequences, walked in field declaration order.
	Titlebar []*Node `yaml:"titlebar,omitempty" json:"titlebar,omitempty"`
	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`
	Footer   []*Node `yaml:"footer,omitempty" json:"footer,omitempty"`
}

// IsModule reports whether the node is a module invocation.
func (n *Node) IsModule() bool {
	return n != nil && n.Type == ModuleType
}

// Clone returns a deep copy of the node and its subtree. Resolved handler
// functions are carried over.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:   n.Type,
		Module: n.Module,
		Name:   n.Name,
	}
	if n.Props != nil {
		out.Props = cloneMap(n.Props)
	}
	if n.Handler != nil {
		out.Handler = n.Handler.Clone()
	}
	out.Titlebar = CloneNodes(n.Titlebar)
	out.Children = CloneNodes(n.Children)
	out.Footer = CloneNodes(n.Footer)
	return out
}

// CloneNodes deep-copies a node sequence.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// CloneValue deep-copies a decoded YAML/JSON value: maps and slices are
// copied, scalars returned as is.
func CloneValue(v any) any {
	return cloneValue(v)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// HandlerRef references handlers by symbolic name: either a single name
// covering every event kind, or a mapping from event kind to name. The
// resolver fills the function fields during namespace registration.
type HandlerRef struct {
	// Name is the single-name form.
	Name string
	// ByKind maps an event kind to a handler name.
	ByKind map[string]string

	// Fn and FnByKind hold the resolved functions. Never serialized.
	Fn       HandlerFunc
	FnByKind map[string]HandlerFunc
}

// Clone returns a copy of the reference, including resolved functions.
func (h *HandlerRef) Clone() *HandlerRef {
	if h == nil {
		return nil
	}
	out := &HandlerRef{Name: h.Name, Fn: h.Fn}
	if h.ByKind != nil {
		out.ByKind = make(map[string]string, len(h.ByKind))
		for k, v := range h.ByKind {
			out.ByKind[k] = v
		}
	}
	if h.FnByKind != nil {
		out.FnByKind = make(map[string]HandlerFunc, len(h.FnByKind))
		for k, v := range h.FnByKind {
			out.FnByKind[k] = v
		}
	}
	return out
}

// For returns the resolved handler for an event kind.
func (h *HandlerRef) For(kind string) (HandlerFunc, bool) {
	if h == nil {
		return nil, false
	}
	if h.Fn != nil {
		return h.Fn, true
	}
	fn, ok := h.FnByKind[kind]
	return fn, ok
}

// Names returns the symbolic names the reference uses, sorted and deduplicated.
func (h *HandlerRef) Names() []string {
	if h == nil {
		return nil
	}
	if h.Name != "" {
		return []string{h.Name}
	}
	seen := make(map[string]bool, len(h.ByKind))
	var names []string
	for _, name := range h.ByKind {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// UnmarshalYAML accepts either a scalar handler name or a mapping from event
// kind to handler name.
func (h *HandlerRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&h.Name)
	case yaml.MappingNode:
		return value.Decode(&h.ByKind)
	default:
		return fmt.Errorf("handler: expected a name or a kind-to-name mapping")
	}
}

// MarshalYAML emits the scalar form when a single name is set, the mapping
// form otherwise.
func (h HandlerRef) MarshalYAML() (any, error) {
	if h.Name != "" {
		return h.Name, nil
	}
	return h.ByKind, nil
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON declarations.
func (h *HandlerRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &h.Name)
	}
	return json.Unmarshal(data, &h.ByKind)
}

// MarshalJSON mirrors MarshalYAML.
func (h HandlerRef) MarshalJSON() ([]byte, error) {
	if h.Name != "" {
		return json.Marshal(h.Name)
	}
	return json.Marshal(h.ByKind)
}
