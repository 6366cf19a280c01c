// Package headless provides an in-process toolkit and host bus with no
// rendering. It backs tests, the inspector's simulation endpoints and any
// deployment that drives windows programmatically.
package headless

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

type windowKey struct {
	namespace string
	user      gui.UserID
}

type window struct {
	root  *Element
	elems map[string]*Element
	all   []*Element
}

type dispatchEntry struct {
	table   *gui.HandlerTable
	wrapper gui.DispatchFunc
}

// Host implements the Toolkit and HostBus ports in memory.
type Host struct {
	mu       sync.RWMutex
	ids      ports.IDGenerator
	logger   zerolog.Logger
	dispatch map[string]dispatchEntry
	windows  map[windowKey]*window
	opened   map[gui.UserID]gui.ElemRef
	joined   []func(gui.UserID)
	custom   []func(string, gui.UserID)
	shortcut []func(string, gui.UserID)
}

// New creates a headless host.
func New(ids ports.IDGenerator, logger zerolog.Logger) *Host {
	return &Host{
		ids:      ids,
		logger:   logger.With().Str("component", "headless").Logger(),
		dispatch: make(map[string]dispatchEntry),
		windows:  make(map[windowKey]*window),
		opened:   make(map[gui.UserID]gui.ElemRef),
	}
}

// BuildTree realizes a primitive-only tree and returns element handles.
func (h *Host) BuildTree(ctx context.Context, namespace string, user gui.UserID, root string, tree []*gui.Node) (gui.ElemRef, map[string]gui.ElemRef, error) {
	w := &window{elems: make(map[string]*Element)}

	err := gui.Walk(tree, func(c gui.Cursor) error {
		node := c.Node
		if node.IsModule() {
			return fmt.Errorf("tree contains unexpanded module node %q", node.Module)
		}
		el := &Element{
			id:      h.ids.New(),
			name:    node.Name,
			kind:    node.Type,
			visible: visibleProp(node),
			valid:   true,
			handler: node.Handler,
		}
		if w.root == nil {
			w.root = el
		}
		if node.Name != "" {
			w.elems[node.Name] = el
		}
		w.all = append(w.all, el)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if w.root == nil {
		return nil, nil, fmt.Errorf("empty tree for namespace %q", namespace)
	}

	key := windowKey{namespace: namespace, user: user}
	h.mu.Lock()
	if prev, ok := h.windows[key]; ok {
		for _, el := range prev.all {
			el.Destroy()
		}
	}
	h.windows[key] = w
	h.mu.Unlock()

	named := make(map[string]gui.ElemRef, len(w.elems))
	for name, el := range w.elems {
		named[name] = el
	}

	h.logger.Debug().
		Str("namespace", namespace).
		Str("user", string(user)).
		Str("root", root).
		Int("elements", len(w.all)).
		Msg("window built")

	return w.root, named, nil
}

// RegisterDispatch installs the routing wrapper for a namespace.
func (h *Host) RegisterDispatch(namespace string, table *gui.HandlerTable, wrapper gui.DispatchFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.dispatch[namespace]; ok {
		return fmt.Errorf("dispatch already registered for namespace %q", namespace)
	}
	h.dispatch[namespace] = dispatchEntry{table: table, wrapper: wrapper}
	return nil
}

// UnregisterDispatch removes a namespace's dispatch registration.
func (h *Host) UnregisterDispatch(namespace string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.dispatch, namespace)
}

// SetOpened makes root the user's currently opened window.
func (h *Host) SetOpened(user gui.UserID, root gui.ElemRef) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened[user] = root
}

// ClearOpened releases the user's currently opened focus.
func (h *Host) ClearOpened(user gui.UserID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.opened, user)
}

// Opened returns the user's currently opened window, nil when none.
func (h *Host) Opened(user gui.UserID) gui.ElemRef {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.opened[user]
}

// OnUserJoined registers a callback for new users.
func (h *Host) OnUserJoined(fn func(user gui.UserID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joined = append(h.joined, fn)
}

// OnCustomInput registers a callback for named custom inputs.
func (h *Host) OnCustomInput(fn func(name string, user gui.UserID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.custom = append(h.custom, fn)
}

// OnShortcut registers a callback for shortcut activations.
func (h *Host) OnShortcut(fn func(name string, user gui.UserID)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shortcut = append(h.shortcut, fn)
}

// Join synthesizes a user joining the host.
func (h *Host) Join(user gui.UserID) {
	h.mu.RLock()
	fns := make([]func(gui.UserID), len(h.joined))
	copy(fns, h.joined)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(user)
	}
}

// SendCustomInput synthesizes a named custom input from a user.
func (h *Host) SendCustomInput(name string, user gui.UserID) {
	h.mu.RLock()
	fns := make([]func(string, gui.UserID), len(h.custom))
	copy(fns, h.custom)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(name, user)
	}
}

// PressShortcut synthesizes a shortcut activation from a user.
func (h *Host) PressShortcut(name string, user gui.UserID) {
	h.mu.RLock()
	fns := make([]func(string, gui.UserID), len(h.shortcut))
	copy(fns, h.shortcut)
	h.mu.RUnlock()
	for _, fn := range fns {
		fn(name, user)
	}
}

// Click synthesizes a click on a named element.
func (h *Host) Click(namespace string, user gui.UserID, element string) error {
	return h.fire(gui.Event{
		Namespace: namespace,
		User:      user,
		Kind:      gui.KindClick,
		Element:   element,
	})
}

// Input synthesizes a text change on a named element.
func (h *Host) Input(namespace string, user gui.UserID, element, value string) error {
	return h.fire(gui.Event{
		Namespace: namespace,
		User:      user,
		Kind:      gui.KindTextChanged,
		Element:   element,
		Value:     value,
	})
}

// Confirm synthesizes a confirmed input on a named element.
func (h *Host) Confirm(namespace string, user gui.UserID, element, value string) error {
	return h.fire(gui.Event{
		Namespace: namespace,
		User:      user,
		Kind:      gui.KindConfirmed,
		Element:   element,
		Value:     value,
	})
}

// DestroyRoot tears down a user's window the way a host-side close would,
// invalidating every element handle the build produced.
func (h *Host) DestroyRoot(namespace string, user gui.UserID) {
	key := windowKey{namespace: namespace, user: user}
	h.mu.Lock()
	w, ok := h.windows[key]
	if ok {
		delete(h.windows, key)
		if h.opened[user] == gui.ElemRef(w.root) {
			delete(h.opened, user)
		}
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	for _, el := range w.all {
		el.Destroy()
	}
}

// fire routes a synthesized element event through the registered dispatch.
func (h *Host) fire(ev gui.Event) error {
	key := windowKey{namespace: ev.Namespace, user: ev.User}

	h.mu.RLock()
	entry, haveDispatch := h.dispatch[ev.Namespace]
	w, haveWindow := h.windows[key]
	h.mu.RUnlock()

	if !haveDispatch {
		return fmt.Errorf("no dispatch registered for namespace %q", ev.Namespace)
	}
	if !haveWindow {
		return fmt.Errorf("no window for user %q in namespace %q", ev.User, ev.Namespace)
	}

	el, ok := w.elems[ev.Element]
	if !ok {
		return fmt.Errorf("no element %q in namespace %q", ev.Element, ev.Namespace)
	}
	if !el.Valid() {
		return fmt.Errorf("element %q is destroyed", ev.Element)
	}
	if el.handler == nil {
		return fmt.Errorf("element %q has no handler", ev.Element)
	}
	fn, ok := el.handler.For(ev.Kind)
	if !ok || fn == nil {
		return fmt.Errorf("element %q has no handler for %q", ev.Element, ev.Kind)
	}

	entry.wrapper(ev, fn)
	return nil
}

func visibleProp(node *gui.Node) bool {
	if v, ok := node.Props["visible"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return true
}

// Ensure interface compliance.
var (
	_ ports.Toolkit = (*Host)(nil)
	_ ports.HostBus = (*Host)(nil)
)
