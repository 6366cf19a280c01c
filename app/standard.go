package app

import (
	"context"
	"fmt"

	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

// Names of the handlers every namespace's table is seeded with.
const (
	HandlerClose  = "close"
	HandlerHide   = "hide"
	HandlerShow   = "show"
	HandlerToggle = "toggle"
)

// standardHandlers returns the four handlers seeded into every namespace's
// table before expansion. Module defaults and caller extras never displace
// them.
func (s *WindowService) standardHandlers() map[string]gui.HandlerFunc {
	return map[string]gui.HandlerFunc{
		HandlerClose:  s.handleClose,
		HandlerHide:   s.handleHide,
		HandlerShow:   s.handleShow,
		HandlerToggle: s.handleToggle,
	}
}

func (s *WindowService) handleClose(ctx context.Context, st *gui.State, ev gui.Event) error {
	s.closeState(st)
	return nil
}

func (s *WindowService) handleHide(ctx context.Context, st *gui.State, ev gui.Event) error {
	s.hideState(st)
	return nil
}

func (s *WindowService) handleShow(ctx context.Context, st *gui.State, ev gui.Event) error {
	s.showState(st)
	return nil
}

func (s *WindowService) handleToggle(ctx context.Context, st *gui.State, ev gui.Event) error {
	s.toggleState(st)
	return nil
}

// closeState releases the host's "opened window" focus when it points at
// this window. Pinned windows ignore it. Visibility never changes here;
// the window stays on screen until hidden or destroyed.
func (s *WindowService) closeState(st *gui.State) {
	if st.Pinned() {
		return
	}
	opened := s.toolkit.Opened(st.User)
	if opened != nil && st.Root != nil && opened.ID() == st.Root.ID() {
		s.toolkit.ClearOpened(st.User)
	}
}

// hideState makes the window invisible. Pin and focus are untouched.
func (s *WindowService) hideState(st *gui.State) {
	if st.Root != nil {
		st.Root.SetVisible(false)
	}
}

// showState makes the window visible and, for unpinned windows, gives it
// the host's "opened window" focus.
func (s *WindowService) showState(st *gui.State) {
	if st.Root == nil {
		return
	}
	st.Root.SetVisible(true)
	if !st.Pinned() {
		s.toolkit.SetOpened(st.User, st.Root)
	}
}

// toggleState flips visibility and returns the resulting visibility.
func (s *WindowService) toggleState(st *gui.State) bool {
	if st.Root != nil && st.Root.Visible() {
		s.hideState(st)
		return false
	}
	s.showState(st)
	return true
}

// Close runs the standard close behavior for a user's window.
func (s *WindowService) Close(ctx context.Context, namespace string, user gui.UserID) error {
	st, err := s.requireState(ctx, namespace, user)
	if err != nil {
		return err
	}
	s.closeState(st)
	return nil
}

// Hide makes a user's window invisible.
func (s *WindowService) Hide(ctx context.Context, namespace string, user gui.UserID) error {
	st, err := s.requireState(ctx, namespace, user)
	if err != nil {
		return err
	}
	s.hideState(st)
	return nil
}

// Show makes a user's window visible and focuses it when unpinned.
func (s *WindowService) Show(ctx context.Context, namespace string, user gui.UserID) error {
	st, err := s.requireState(ctx, namespace, user)
	if err != nil {
		return err
	}
	s.showState(st)
	return nil
}

// Toggle flips a user's window visibility and returns the result.
func (s *WindowService) Toggle(ctx context.Context, namespace string, user gui.UserID) (bool, error) {
	st, err := s.requireState(ctx, namespace, user)
	if err != nil {
		return false, err
	}
	return s.toggleState(st), nil
}

// SetPinned pins or unpins a user's window and persists the pin.
func (s *WindowService) SetPinned(ctx context.Context, namespace string, user gui.UserID, pinned bool) error {
	st, err := s.requireState(ctx, namespace, user)
	if err != nil {
		return err
	}
	return s.persistPin(ctx, st, pinned)
}

// persistPin updates the live pin and writes it through to the record.
func (s *WindowService) persistPin(ctx context.Context, st *gui.State, pinned bool) error {
	st.SetPinned(pinned)
	rec := ports.Record{User: st.User, Pinned: pinned, Elems: elemNames(st.Elems), BuiltAt: st.BuiltAt}
	if err := s.store.Put(ctx, st.Namespace, rec); err != nil {
		return fmt.Errorf("persist pin for %q: %w", st.User, err)
	}
	return nil
}
