package expand

import "fmt"

// NoModuleNameError reports a module node without a module name.
type NoModuleNameError struct {
	// Element is the node's Name, when it has one.
	Element string
}

func (e *NoModuleNameError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("module node %q has no module name", e.Element)
	}
	return "module node has no module name"
}

// UnknownModuleError reports a module name absent from the registry.
type UnknownModuleError struct {
	Module string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module type %q", e.Module)
}

// EmptyBuildError reports a build function that returned no subtree.
type EmptyBuildError struct {
	Module string
}

func (e *EmptyBuildError) Error() string {
	return fmt.Sprintf("module %q: build returned no subtree", e.Module)
}

// LimitError reports a pass that exceeded the replacement budget, almost
// always a cycle between module definitions.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("module expansion exceeded %d replacements, definitions likely cyclic", e.Limit)
}

// UnknownHandlerError reports a symbolic handler name absent from the table.
type UnknownHandlerError struct {
	Handler string
	// Element is the referencing node's Name, when it has one.
	Element string
	// Kind is the event kind, for by-kind references.
	Kind string
}

func (e *UnknownHandlerError) Error() string {
	msg := fmt.Sprintf("unknown handler %q", e.Handler)
	if e.Element != "" {
		msg += fmt.Sprintf(" referenced by element %q", e.Element)
	}
	if e.Kind != "" {
		msg += fmt.Sprintf(" for event kind %q", e.Kind)
	}
	return msg
}
