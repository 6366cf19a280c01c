package app

import (
	"context"
	"fmt"

	"github.com/artpar/windowkit/core/events"
	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

// Build realizes the namespace's window for a user. When the user already
// has a live window the existing state is returned unchanged. A previously
// pinned window comes back pinned: the pin survives rebuilds through the
// state store.
func (s *WindowService) Build(ctx context.Context, namespace string, user gui.UserID) (*gui.State, error) {
	entry, err := s.entry(namespace)
	if err != nil {
		return nil, err
	}

	entry.smu.Lock()
	defer entry.smu.Unlock()

	if st, ok := entry.states[user]; ok {
		if st.Live() {
			return st, nil
		}
		s.removeStaleLocked(ctx, entry, namespace, st)
	}

	start := s.clock.Now()

	pinned := false
	if rec, ok, err := s.store.Get(ctx, namespace, user); err != nil {
		s.logger.Warn().Err(err).
			Str("namespace", namespace).
			Str("user", string(user)).
			Msg("state record read failed")
	} else if ok {
		pinned = rec.Pinned
	}

	root, named, err := s.toolkit.BuildTree(ctx, namespace, user, entry.root, entry.tree)
	if err != nil {
		if s.metrics != nil {
			s.metrics.BuildErrors.WithLabelValues(namespace).Inc()
		}
		return nil, fmt.Errorf("build window %q for user %q: %w", namespace, user, err)
	}

	st := &gui.State{
		Namespace: namespace,
		User:      user,
		Root:      root,
		Elems:     named,
		BuiltAt:   s.clock.Now(),
	}
	st.SetPinned(pinned)
	entry.states[user] = st

	rec := ports.Record{User: user, Pinned: pinned, Elems: elemNames(named), BuiltAt: st.BuiltAt}
	if err := s.store.Put(ctx, namespace, rec); err != nil {
		s.logger.Warn().Err(err).
			Str("namespace", namespace).
			Str("user", string(user)).
			Msg("state record write failed")
	}

	if s.metrics != nil {
		s.metrics.BuildsTotal.WithLabelValues(namespace).Inc()
		s.metrics.BuildDuration.WithLabelValues(namespace).Observe(s.clock.Now().Sub(start).Seconds())
		s.metrics.LiveWindows.WithLabelValues(namespace).Inc()
	}
	s.events.Publish(ctx, events.Event{Name: events.WindowBuilt, Namespace: namespace, User: user})
	s.logger.Debug().
		Str("namespace", namespace).
		Str("user", string(user)).
		Int("elements", len(named)).
		Msg("window built")

	return st, nil
}

// removeStaleLocked drops a stale state from memory and storage. The caller
// holds entry.smu.
func (s *WindowService) removeStaleLocked(ctx context.Context, entry *namespaceEntry, namespace string, st *gui.State) {
	delete(entry.states, st.User)
	if err := s.store.Delete(ctx, namespace, st.User); err != nil {
		s.logger.Warn().Err(err).
			Str("namespace", namespace).
			Str("user", string(st.User)).
			Msg("stale record delete failed")
	}
	if s.metrics != nil {
		s.metrics.StaleCleanups.WithLabelValues(namespace).Inc()
		s.metrics.LiveWindows.WithLabelValues(namespace).Dec()
	}
	s.events.Publish(ctx, events.Event{Name: events.WindowStale, Namespace: namespace, User: st.User})
	s.logger.Debug().
		Str("namespace", namespace).
		Str("user", string(st.User)).
		Msg("stale window state removed")
}
