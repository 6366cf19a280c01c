package gui

import (
	"sync"
	"time"
)

// ElemRef is a live handle to a built toolkit element.
type ElemRef interface {
	// ID is the toolkit-assigned element identifier.
	ID() string
	// Valid reports whether the underlying element still exists.
	Valid() bool
	// Visible reports the element's visibility.
	Visible() bool
	// SetVisible shows or hides the element. No-op on invalid handles.
	SetVisible(visible bool)
}

// State is the live window state for one (namespace, user) pair.
//
// Root validity is the only liveness truth: a state whose root handle is no
// longer valid is stale and gets removed lazily on access.
type State struct {
	// Namespace is the owning window namespace.
	Namespace string
	// User is the owning user.
	User UserID
	// Root is the handle to the window's top element.
	Root ElemRef
	// Elems holds handles for every named element in the build.
	Elems map[string]ElemRef
	// BuiltAt is the instant the window was built.
	BuiltAt time.Time

	mu     sync.RWMutex
	pinned bool
}

// Pinned reports whether the window is pinned. Pinned windows ignore the
// close handler's focus release.
func (s *State) Pinned() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinned
}

// SetPinned pins or unpins the window.
func (s *State) SetPinned(pinned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = pinned
}

// Live reports whether the window still exists on the toolkit side.
func (s *State) Live() bool {
	return s != nil && s.Root != nil && s.Root.Valid()
}

// Elem returns the handle for a named element, nil when absent.
func (s *State) Elem(name string) ElemRef {
	if s == nil {
		return nil
	}
	return s.Elems[name]
}
