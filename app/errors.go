package app

import (
	"fmt"

	"github.com/artpar/windowkit/domain/gui"
)

// NamespaceTakenError reports a second registration of a window namespace.
type NamespaceTakenError struct {
	Namespace string
}

func (e *NamespaceTakenError) Error() string {
	return fmt.Sprintf("namespace %q is already registered", e.Namespace)
}

// UndefinedNamespaceError reports an operation on an unregistered namespace.
type UndefinedNamespaceError struct {
	Namespace string
}

func (e *UndefinedNamespaceError) Error() string {
	return fmt.Sprintf("namespace %q is not registered", e.Namespace)
}

// NoWindowError reports an operation on a user with no live window.
type NoWindowError struct {
	Namespace string
	User      gui.UserID
}

func (e *NoWindowError) Error() string {
	return fmt.Sprintf("no window for user %q in namespace %q", e.User, e.Namespace)
}

// ShortcutTakenError reports a shortcut already claimed by another namespace.
type ShortcutTakenError struct {
	Shortcut string
	Owner    string
}

func (e *ShortcutTakenError) Error() string {
	return fmt.Sprintf("shortcut %q is already claimed by namespace %q", e.Shortcut, e.Owner)
}

// CustomInputTakenError reports a custom input already claimed by another
// namespace.
type CustomInputTakenError struct {
	Name  string
	Owner string
}

func (e *CustomInputTakenError) Error() string {
	return fmt.Sprintf("custom input %q is already claimed by namespace %q", e.Name, e.Owner)
}
