package headless

import (
	"sync"

	"github.com/artpar/windowkit/domain/gui"
)

// Element is a headless widget handle. It tracks the visibility and
// validity a real toolkit widget would, without rendering anything.
type Element struct {
	mu      sync.RWMutex
	id      string
	name    string
	kind    string
	visible bool
	valid   bool
	handler *gui.HandlerRef
}

// ID returns the toolkit-assigned element identifier.
func (e *Element) ID() string {
	return e.id
}

// Name returns the declaration name of the element, "" when unnamed.
func (e *Element) Name() string {
	return e.name
}

// Kind returns the widget type of the element.
func (e *Element) Kind() string {
	return e.kind
}

// Valid reports whether the underlying widget still exists.
func (e *Element) Valid() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.valid
}

// Visible reports whether the element is currently shown.
func (e *Element) Visible() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.visible
}

// SetVisible shows or hides the element. No-op once destroyed.
func (e *Element) SetVisible(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid {
		return
	}
	e.visible = v
}

// Destroy invalidates the element. Destroyed elements never become
// valid again.
func (e *Element) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.valid = false
	e.visible = false
}

// Ensure interface compliance.
var _ gui.ElemRef = (*Element)(nil)
