package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/core/expand"
	"github.com/artpar/windowkit/domain/gui"
)

// HandlerOptions carries the host input claims a registration completes
// with. Non-empty values override the definition's own claims.
type HandlerOptions struct {
	Shortcut    string
	CustomInput string
}

// CompleteFunc finishes a two-stage registration. It merges the caller's
// handlers into the namespace's table, resolves every handler reference in
// the expanded tree, claims host inputs and arms dispatch. A nil extra map
// is fine for windows whose tree only uses standard and module handlers.
type CompleteFunc func(ctx context.Context, extra map[string]gui.HandlerFunc, opts HandlerOptions) error

// RegisterNamespace starts registering a window definition. The definition's
// tree is cloned, seeded with the standard handlers and fully expanded; the
// returned completion function finishes the registration. A registration
// that fails at any stage leaves no trace: the namespace can be registered
// again from scratch.
//
// Each namespace registers exactly once. Until the completion function
// returns nil the namespace stays invisible to builds and events.
func (s *WindowService) RegisterNamespace(ctx context.Context, def gui.Definition) (CompleteFunc, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	ns := def.Namespace

	entry := &namespaceEntry{
		root:     def.Root,
		shortcut: def.Shortcut,
		input:    def.CustomInput,
		prebuild: def.Prebuild,
		states:   make(map[gui.UserID]*gui.State),
	}
	if entry.root == "" {
		entry.root = gui.DefaultRoot
	}

	s.mu.Lock()
	if _, ok := s.namespaces[ns]; ok {
		s.mu.Unlock()
		return nil, &NamespaceTakenError{Namespace: ns}
	}
	s.namespaces[ns] = entry
	s.mu.Unlock()

	tree := gui.CloneNodes(def.Tree)

	table := gui.NewHandlerTable()
	for name, fn := range s.standardHandlers() {
		table.Put(name, fn)
	}

	report, err := s.expander.Expand(tree, table)
	if err != nil {
		s.abort(ns)
		return nil, fmt.Errorf("expand namespace %q: %w", ns, err)
	}
	if s.metrics != nil {
		s.metrics.ModulesExpanded.WithLabelValues(ns).Add(float64(report.Expanded))
		s.metrics.HandlerCollisions.WithLabelValues(ns).Add(float64(report.Collisions))
	}

	version := def.Version
	if version == "" {
		version, err = fingerprint(tree)
		if err != nil {
			s.abort(ns)
			return nil, fmt.Errorf("fingerprint namespace %q: %w", ns, err)
		}
	}

	entry.tree = tree
	entry.table = table
	entry.version = version

	return func(cctx context.Context, extra map[string]gui.HandlerFunc, opts HandlerOptions) error {
		return s.complete(cctx, ns, entry, extra, opts)
	}, nil
}

// complete runs the second registration stage.
func (s *WindowService) complete(ctx context.Context, ns string, entry *namespaceEntry, extra map[string]gui.HandlerFunc, opts HandlerOptions) error {
	s.mu.Lock()
	if entry.completed {
		s.mu.Unlock()
		return fmt.Errorf("namespace %q: registration already completed", ns)
	}
	entry.completed = true
	s.mu.Unlock()

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !entry.table.Put(name, extra[name]) {
			s.logger.Warn().
				Str("namespace", ns).
				Str("handler", name).
				Msg("handler overridden")
		}
	}

	if err := expand.Resolve(entry.tree, entry.table); err != nil {
		s.abort(ns)
		return fmt.Errorf("resolve namespace %q: %w", ns, err)
	}

	shortcut, input := entry.shortcut, entry.input
	if opts.Shortcut != "" {
		shortcut = opts.Shortcut
	}
	if opts.CustomInput != "" {
		input = opts.CustomInput
	}

	s.mu.Lock()
	if shortcut != "" {
		if owner, ok := s.shortcuts[shortcut]; ok {
			s.mu.Unlock()
			s.abort(ns)
			return &ShortcutTakenError{Shortcut: shortcut, Owner: owner}
		}
	}
	if input != "" {
		if owner, ok := s.inputs[input]; ok {
			s.mu.Unlock()
			s.abort(ns)
			return &CustomInputTakenError{Name: input, Owner: owner}
		}
	}
	if shortcut != "" {
		s.shortcuts[shortcut] = ns
	}
	if input != "" {
		s.inputs[input] = ns
	}
	entry.shortcut = shortcut
	entry.input = input
	s.mu.Unlock()

	// Dispatch is armed before anything touches the durable store, so a
	// toolkit failure aborts without leaving a sentinel (or worse, having
	// purged records for a registration that never completed).
	if err := s.toolkit.RegisterDispatch(ns, entry.table, s.wrap(ns)); err != nil {
		s.abort(ns)
		return fmt.Errorf("register dispatch for namespace %q: %w", ns, err)
	}

	stored, err := s.store.Version(ctx, ns)
	if err != nil {
		s.abort(ns)
		return fmt.Errorf("read version for namespace %q: %w", ns, err)
	}
	if stored != "" && stored != entry.version {
		s.logger.Warn().
			Str("namespace", ns).
			Str("stored", stored).
			Str("current", entry.version).
			Msg("definition version changed, purging persisted state")
		if err := s.store.Purge(ctx, ns); err != nil {
			s.abort(ns)
			return fmt.Errorf("purge namespace %q: %w", ns, err)
		}
		if s.metrics != nil {
			s.metrics.StorePurges.WithLabelValues(ns).Inc()
		}
		s.events.Publish(ctx, events.Event{
			Name:      events.StorePurged,
			Namespace: ns,
			Data:      map[string]any{"stored": stored, "current": entry.version},
		})
	}
	if err := s.store.SetVersion(ctx, ns, entry.version); err != nil {
		s.abort(ns)
		return fmt.Errorf("write version for namespace %q: %w", ns, err)
	}

	s.busOnce.Do(s.hookBus)

	s.mu.Lock()
	entry.ready = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.NamespacesRegistered.Inc()
	}
	s.events.Publish(ctx, events.Event{Name: events.NamespaceRegistered, Namespace: ns})
	s.logger.Info().
		Str("namespace", ns).
		Str("version", entry.version).
		Int("handlers", entry.table.Len()).
		Msg("namespace registered")

	return nil
}

// Register is the single-stage convenience: it registers the definition and
// completes immediately.
func (s *WindowService) Register(ctx context.Context, def gui.Definition, extra map[string]gui.HandlerFunc, opts HandlerOptions) error {
	complete, err := s.RegisterNamespace(ctx, def)
	if err != nil {
		return err
	}
	return complete(ctx, extra, opts)
}
