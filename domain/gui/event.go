package gui

import "context"

// UserID identifies a host user (a player, a session participant).
type UserID string

// Event kinds delivered by toolkits.
const (
	KindClick            = "click"
	KindConfirmed        = "confirmed"
	KindTextChanged      = "text_changed"
	KindSelectionChanged = "selection_changed"
	KindClosed           = "closed"
)

// Event is a single user interaction delivered to a handler.
type Event struct {
	// Namespace is the window namespace the originating element belongs to.
	Namespace string `json:"namespace"`
	// User is the interacting user.
	User UserID `json:"user"`
	// Kind is one of the Kind constants.
	Kind string `json:"kind"`
	// Element is the Name of the originating element, when it has one.
	Element string `json:"element,omitempty"`
	// Value carries the kind-specific payload: entered text, selection
	// index, and so on. Nil for plain clicks.
	Value any `json:"value,omitempty"`
}

// HandlerFunc is an event handler bound to a live window state.
type HandlerFunc func(ctx context.Context, st *State, ev Event) error

// DispatchFunc receives a toolkit event together with the handler the
// toolkit's dispatch selected for it. The router installs one per namespace.
type DispatchFunc func(ev Event, fn HandlerFunc)
