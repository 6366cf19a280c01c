package gui

import (
	"sort"
	"sync"
)

// HandlerTable maps symbolic handler names to functions for one namespace.
// It is shared by reference with the toolkit's dispatch, so access is
// synchronized. Construct with NewHandlerTable.
type HandlerTable struct {
	mu  sync.RWMutex
	fns map[string]HandlerFunc
}

// NewHandlerTable returns an empty table.
func NewHandlerTable() *HandlerTable {
	return &HandlerTable{fns: make(map[string]HandlerFunc)}
}

// Put registers fn under name unless the name is already taken. The first
// registration always wins; Put reports whether fn was stored.
func (t *HandlerTable) Put(name string, fn HandlerFunc) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.fns[name]; exists {
		return false
	}
	t.fns[name] = fn
	return true
}

// Get returns the handler registered under name.
func (t *HandlerTable) Get(name string) (HandlerFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.fns[name]
	return fn, ok
}

// Has reports whether name is registered.
func (t *HandlerTable) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Names returns all registered names, sorted.
func (t *HandlerTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.fns))
	for name := range t.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered handlers.
func (t *HandlerTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.fns)
}
