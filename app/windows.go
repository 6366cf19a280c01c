// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/adapters/metrics"
	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/core/expand"
	"github.com/artpar/windowkit/core/registry"
	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

// WindowService owns namespace registration, window builds and event
// routing. It is the single writer of per-user window state.
type WindowService struct {
	registry *registry.Registry
	expander *expand.Expander
	toolkit  ports.Toolkit
	bus      ports.HostBus
	store    ports.StateStore
	clock    ports.Clock
	events   *events.Bus
	metrics  *metrics.Collector
	logger   zerolog.Logger

	mu         sync.RWMutex
	namespaces map[string]*namespaceEntry
	shortcuts  map[string]string // shortcut name -> owning namespace
	inputs     map[string]string // custom input name -> owning namespace

	busOnce sync.Once
}

// namespaceEntry is everything the service keeps for one registered
// namespace. The expanded tree and handler table are immutable once the
// registration completes; states is guarded by smu.
type namespaceEntry struct {
	tree      []*gui.Node
	table     *gui.HandlerTable
	root      string
	version   string
	shortcut  string
	input     string
	prebuild  bool
	ready     bool
	completed bool

	smu    sync.Mutex
	states map[gui.UserID]*gui.State
}

// NewWindowService creates a window service.
func NewWindowService(
	reg *registry.Registry,
	toolkit ports.Toolkit,
	bus ports.HostBus,
	store ports.StateStore,
	clock ports.Clock,
	lifecycle *events.Bus,
	collector *metrics.Collector,
	logger zerolog.Logger,
) *WindowService {
	return &WindowService{
		registry:   reg,
		expander:   expand.New(reg, logger),
		toolkit:    toolkit,
		bus:        bus,
		store:      store,
		clock:      clock,
		events:     lifecycle,
		metrics:    collector,
		logger:     logger.With().Str("service", "windows").Logger(),
		namespaces: make(map[string]*namespaceEntry),
		shortcuts:  make(map[string]string),
		inputs:     make(map[string]string),
	}
}

// entry returns a namespace's entry, failing before registration completes.
func (s *WindowService) entry(namespace string) (*namespaceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.namespaces[namespace]
	if !ok || !e.ready {
		return nil, &UndefinedNamespaceError{Namespace: namespace}
	}
	return e, nil
}

// abort removes every trace of a failed registration.
func (s *WindowService) abort(namespace string) {
	s.toolkit.UnregisterDispatch(namespace)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	for name, owner := range s.shortcuts {
		if owner == namespace {
			delete(s.shortcuts, name)
		}
	}
	for name, owner := range s.inputs {
		if owner == namespace {
			delete(s.inputs, name)
		}
	}
}

// NamespaceInfo describes one registered namespace for inspection.
type NamespaceInfo struct {
	Namespace   string   `json:"namespace"`
	Root        string   `json:"root"`
	Version     string   `json:"version"`
	Shortcut    string   `json:"shortcut,omitempty"`
	CustomInput string   `json:"custom_input,omitempty"`
	Prebuild    bool     `json:"prebuild,omitempty"`
	Handlers    []string `json:"handlers"`
	LiveWindows int      `json:"live_windows"`
}

// Namespaces returns info for every registered namespace, sorted by name.
func (s *WindowService) Namespaces() []NamespaceInfo {
	s.mu.RLock()
	names := make([]string, 0, len(s.namespaces))
	for name, e := range s.namespaces {
		if e.ready {
			names = append(names, name)
		}
	}
	s.mu.RUnlock()
	sort.Strings(names)

	out := make([]NamespaceInfo, 0, len(names))
	for _, name := range names {
		if info, ok := s.Namespace(name); ok {
			out = append(out, info)
		}
	}
	return out
}

// Namespace returns info for one namespace.
func (s *WindowService) Namespace(name string) (NamespaceInfo, bool) {
	e, err := s.entry(name)
	if err != nil {
		return NamespaceInfo{}, false
	}

	e.smu.Lock()
	live := 0
	for _, st := range e.states {
		if st.Live() {
			live++
		}
	}
	e.smu.Unlock()

	return NamespaceInfo{
		Namespace:   name,
		Root:        e.root,
		Version:     e.version,
		Shortcut:    e.shortcut,
		CustomInput: e.input,
		Prebuild:    e.prebuild,
		Handlers:    e.table.Names(),
		LiveWindows: live,
	}, true
}

// State returns the user's live window state. Stale states are removed on
// access and reported absent.
func (s *WindowService) State(ctx context.Context, namespace string, user gui.UserID) (*gui.State, bool, error) {
	entry, err := s.entry(namespace)
	if err != nil {
		return nil, false, err
	}

	entry.smu.Lock()
	defer entry.smu.Unlock()

	st, ok := entry.states[user]
	if !ok {
		return nil, false, nil
	}
	if !st.Live() {
		s.removeStaleLocked(ctx, entry, namespace, st)
		return nil, false, nil
	}
	return st, true, nil
}

// States returns all live window states for a namespace, sorted by user.
// Stale states encountered along the way are removed.
func (s *WindowService) States(ctx context.Context, namespace string) ([]*gui.State, error) {
	entry, err := s.entry(namespace)
	if err != nil {
		return nil, err
	}

	entry.smu.Lock()
	defer entry.smu.Unlock()

	var out []*gui.State
	var stale []*gui.State
	for _, st := range entry.states {
		if st.Live() {
			out = append(out, st)
		} else {
			stale = append(stale, st)
		}
	}
	for _, st := range stale {
		s.removeStaleLocked(ctx, entry, namespace, st)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].User < out[j].User })
	return out, nil
}

// requireState returns the user's live state or a NoWindowError.
func (s *WindowService) requireState(ctx context.Context, namespace string, user gui.UserID) (*gui.State, error) {
	st, ok, err := s.State(ctx, namespace, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NoWindowError{Namespace: namespace, User: user}
	}
	return st, nil
}

func elemNames(elems map[string]gui.ElemRef) []string {
	names := make([]string, 0, len(elems))
	for name := range elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
