package gui

import (
	"fmt"
	"strings"
)

// DefaultRoot is the root region a window attaches to when the definition
// does not name one.
const DefaultRoot = "screen"

// Definition declares one namespace's window: where it attaches, its
// declarative tree, and how host inputs reach it.
type Definition struct {
	// Namespace uniquely identifies the window within the process.
	Namespace string `yaml:"namespace" json:"namespace"`

	// Root names the toolkit region the window attaches to. Defaults to
	// DefaultRoot when empty.
	Root string `yaml:"root,omitempty" json:"root,omitempty"`

	// Version invalidates persisted state when it changes. Empty means the
	// version is fingerprinted from the expanded tree.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Shortcut and CustomInput claim host input names that toggle the
	// window. Claims are unique across namespaces.
	Shortcut    string `yaml:"shortcut,omitempty" json:"shortcut,omitempty"`
	CustomInput string `yaml:"custom_input,omitempty" json:"custom_input,omitempty"`

	// Prebuild builds the window hidden when a user joins the host.
	Prebuild bool `yaml:"prebuild,omitempty" json:"prebuild,omitempty"`

	// Tree is the declarative tree, exactly one top-level node.
	Tree []*Node `yaml:"tree" json:"tree"`
}

// Validate checks the definition is well formed.
func (d Definition) Validate() error {
	if d.Namespace == "" {
		return fmt.Errorf("definition: namespace is required")
	}
	if strings.ContainsAny(d.Namespace, " \t\n") {
		return fmt.Errorf("definition %q: namespace must not contain whitespace", d.Namespace)
	}
	if len(d.Tree) != 1 {
		return fmt.Errorf("definition %q: tree must have exactly one top-level node, got %d", d.Namespace, len(d.Tree))
	}
	if d.Tree[0] == nil {
		return fmt.Errorf("definition %q: tree root is nil", d.Namespace)
	}
	return nil
}
