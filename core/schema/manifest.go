package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/artpar/windowkit/domain/gui"
)

// ParamType names a parameter value type as it appears after YAML or JSON
// decoding.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number" // int or float
	TypeBool   ParamType = "bool"
	TypeList   ParamType = "list"
	TypeMap    ParamType = "map"
)

// paramTypes is the set of declarable parameter types.
var paramTypes = map[ParamType]bool{
	TypeString: true,
	TypeNumber: true,
	TypeBool:   true,
	TypeList:   true,
	TypeMap:    true,
}

// Known reports whether t is a declarable parameter type.
func (t ParamType) Known() bool {
	return paramTypes[t]
}

// TypeOf reports the ParamType vocabulary name for a decoded value. Values
// outside the vocabulary (including nil) report a descriptive non-declarable
// name so error messages stay honest.
func TypeOf(v any) ParamType {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return TypeNumber
	case []any:
		return TypeList
	case map[string]any:
		return TypeMap
	case nil:
		return ParamType("null")
	default:
		return ParamType(fmt.Sprintf("%T", v))
	}
}

// ParamSpec declares a single module parameter.
type ParamSpec struct {
	// Types lists the accepted value types. At least one is required.
	Types []ParamType `yaml:"types" json:"types"`

	// Optional marks the parameter as omissible.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`

	// Default fills the parameter when omitted. A default implies Optional.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`

	// Description documents the parameter in the catalog.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Required reports whether the parameter must be supplied.
func (p ParamSpec) Required() bool {
	return !p.Optional && p.Default == nil
}

// Accepts reports whether t is one of the accepted types.
func (p ParamSpec) Accepts(t ParamType) bool {
	for _, accepted := range p.Types {
		if accepted == t {
			return true
		}
	}
	return false
}

// TypeNames returns the accepted type names joined for error messages,
// e.g. "number" or "string or number".
func (p ParamSpec) TypeNames() string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = string(t)
	}
	return strings.Join(names, " or ")
}

// Manifest declares a module's interface.
type Manifest struct {
	// Module is the unique module-type name used in declarative trees.
	Module string `yaml:"module" json:"module"`

	// Description documents the module in the catalog.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Params declares the accepted parameters, keyed by name.
	Params map[string]ParamSpec `yaml:"params,omitempty" json:"params,omitempty"`

	// Handlers lists the handler names the module registers by default.
	Handlers []string `yaml:"handlers,omitempty" json:"handlers,omitempty"`

	// Template, when present, defines the module's output declaratively:
	// the subtree is cloned and ${param} placeholders are substituted at
	// expansion time. Exactly one root node.
	Template []*gui.Node `yaml:"template,omitempty" json:"template,omitempty"`
}

// ParamNames returns the declared parameter names, sorted.
func (m Manifest) ParamNames() []string {
	names := make([]string, 0, len(m.Params))
	for name := range m.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the manifest is well formed.
func (m Manifest) Validate() error {
	var errs []string

	if m.Module == "" {
		errs = append(errs, "module name is required")
	}
	if strings.ContainsAny(m.Module, " \t\n") {
		errs = append(errs, fmt.Sprintf("module name %q must not contain whitespace", m.Module))
	}

	for _, name := range m.ParamNames() {
		spec := m.Params[name]
		if name == "" {
			errs = append(errs, "parameter with empty name")
			continue
		}
		if len(spec.Types) == 0 {
			errs = append(errs, fmt.Sprintf("parameter %q: at least one type is required", name))
		}
		for _, t := range spec.Types {
			if !t.Known() {
				errs = append(errs, fmt.Sprintf("parameter %q: unknown type %q", name, t))
			}
		}
		if spec.Default != nil && len(spec.Types) > 0 && !spec.Accepts(TypeOf(spec.Default)) {
			errs = append(errs, fmt.Sprintf("parameter %q: default is %s, accepts %s",
				name, TypeOf(spec.Default), spec.TypeNames()))
		}
	}

	seen := make(map[string]bool, len(m.Handlers))
	for _, h := range m.Handlers {
		if h == "" {
			errs = append(errs, "handler with empty name")
			continue
		}
		if seen[h] {
			errs = append(errs, fmt.Sprintf("handler %q declared twice", h))
		}
		seen[h] = true
	}

	if m.Template != nil {
		if len(m.Template) != 1 {
			errs = append(errs, fmt.Sprintf("template must have exactly one root node, got %d", len(m.Template)))
		} else if m.Template[0] == nil {
			errs = append(errs, "template root is nil")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest %q invalid:\n  - %s", m.Module, strings.Join(errs, "\n  - "))
	}
	return nil
}
