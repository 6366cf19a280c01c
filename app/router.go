package app

import (
	"context"
	"sort"

	"github.com/artpar/windowkit/domain/gui"
)

// wrap returns the dispatch wrapper the toolkit calls for every element
// event in a namespace. The wrapper locates the user's window state and
// applies the liveness rules before the handler runs.
func (s *WindowService) wrap(namespace string) gui.DispatchFunc {
	return func(ev gui.Event, fn gui.HandlerFunc) {
		s.route(context.Background(), ev, fn)
	}
}

// route delivers one element event: no state drops it, a stale state is
// removed and drops it, a live state reaches the handler.
func (s *WindowService) route(ctx context.Context, ev gui.Event, fn gui.HandlerFunc) {
	entry, err := s.entry(ev.Namespace)
	if err != nil {
		s.dropEvent(ev.Namespace, "unregistered")
		return
	}

	entry.smu.Lock()
	st, ok := entry.states[ev.User]
	if !ok {
		entry.smu.Unlock()
		s.dropEvent(ev.Namespace, "no_state")
		s.logger.Debug().
			Str("namespace", ev.Namespace).
			Str("user", string(ev.User)).
			Str("element", ev.Element).
			Msg("event dropped, no window state")
		return
	}
	if !st.Live() {
		s.removeStaleLocked(ctx, entry, ev.Namespace, st)
		entry.smu.Unlock()
		s.dropEvent(ev.Namespace, "stale")
		s.logger.Debug().
			Str("namespace", ev.Namespace).
			Str("user", string(ev.User)).
			Str("element", ev.Element).
			Msg("event dropped, stale window state")
		return
	}
	entry.smu.Unlock()

	if s.metrics != nil {
		s.metrics.EventsDispatched.WithLabelValues(ev.Namespace, ev.Kind).Inc()
	}
	if err := fn(ctx, st, ev); err != nil {
		if s.metrics != nil {
			s.metrics.HandlerErrors.WithLabelValues(ev.Namespace).Inc()
		}
		s.logger.Error().Err(err).
			Str("namespace", ev.Namespace).
			Str("element", ev.Element).
			Str("kind", ev.Kind).
			Msg("handler failed")
	}
}

func (s *WindowService) dropEvent(namespace, reason string) {
	if s.metrics != nil {
		s.metrics.EventsDropped.WithLabelValues(namespace, reason).Inc()
	}
}

// hookBus subscribes the service to host-level events. Called once, from
// the first completed registration.
func (s *WindowService) hookBus() {
	s.bus.OnUserJoined(s.onUserJoined)
	s.bus.OnCustomInput(s.onCustomInput)
	s.bus.OnShortcut(s.onShortcut)
}

// onUserJoined prebuilds hidden windows for namespaces that opted in.
func (s *WindowService) onUserJoined(user gui.UserID) {
	ctx := context.Background()
	for _, ns := range s.prebuildNamespaces() {
		if _, ok, _ := s.State(ctx, ns, user); ok {
			continue
		}
		st, err := s.Build(ctx, ns, user)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("namespace", ns).
				Str("user", string(user)).
				Msg("prebuild failed")
			continue
		}
		s.hideState(st)
	}
}

func (s *WindowService) prebuildNamespaces() []string {
	s.mu.RLock()
	var out []string
	for name, e := range s.namespaces {
		if e.ready && e.prebuild {
			out = append(out, name)
		}
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// onCustomInput opens or toggles the window whose namespace claimed the
// input name. Unclaimed names are ignored.
func (s *WindowService) onCustomInput(name string, user gui.UserID) {
	s.mu.RLock()
	ns, ok := s.inputs[name]
	s.mu.RUnlock()
	if !ok {
		s.logger.Debug().Str("input", name).Msg("custom input unclaimed")
		return
	}
	s.activate(context.Background(), ns, user)
}

// onShortcut opens or toggles the window whose namespace claimed the
// shortcut. Unclaimed shortcuts are ignored.
func (s *WindowService) onShortcut(name string, user gui.UserID) {
	s.mu.RLock()
	ns, ok := s.shortcuts[name]
	s.mu.RUnlock()
	if !ok {
		s.logger.Debug().Str("shortcut", name).Msg("shortcut unclaimed")
		return
	}
	s.activate(context.Background(), ns, user)
}

// activate toggles an existing window or builds and shows a new one.
func (s *WindowService) activate(ctx context.Context, namespace string, user gui.UserID) {
	st, ok, err := s.State(ctx, namespace, user)
	if err != nil {
		s.logger.Warn().Err(err).Str("namespace", namespace).Msg("activation failed")
		return
	}
	if ok {
		s.toggleState(st)
		return
	}

	st, err = s.Build(ctx, namespace, user)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("namespace", namespace).
			Str("user", string(user)).
			Msg("window build failed")
		return
	}
	s.showState(st)
}
