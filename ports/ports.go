// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/windowkit/domain/gui"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Toolkit Port
// -----------------------------------------------------------------------------

// Toolkit is the widget toolkit the composition layer builds windows with.
// Rendering, layout and input capture happen on the toolkit's side of this
// boundary; the composition layer only hands over primitive-only trees and
// receives element handles and events back.
type Toolkit interface {
	// BuildTree realizes a primitive-only tree for user under the named
	// root region. It returns the handle of the top element and a handle
	// for every named element in the tree. A tree still containing module
	// nodes is an error.
	BuildTree(ctx context.Context, namespace string, user gui.UserID, root string, tree []*gui.Node) (gui.ElemRef, map[string]gui.ElemRef, error)

	// RegisterDispatch shares a namespace's handler table with the
	// toolkit's event dispatch and installs the routing wrapper the
	// toolkit calls for every element event. One registration per
	// namespace; a second is an error.
	RegisterDispatch(namespace string, table *gui.HandlerTable, wrapper gui.DispatchFunc) error

	// UnregisterDispatch removes a namespace's dispatch registration so
	// the namespace can register again. No-op when none is registered.
	UnregisterDispatch(namespace string)

	// SetOpened makes root the user's "currently opened" window, the one
	// host-level close inputs act on.
	SetOpened(user gui.UserID, root gui.ElemRef)

	// ClearOpened releases the user's "currently opened" focus.
	ClearOpened(user gui.UserID)

	// Opened returns the user's "currently opened" window, nil when none.
	Opened(user gui.UserID) gui.ElemRef
}

// -----------------------------------------------------------------------------
// Host Bus Port
// -----------------------------------------------------------------------------

// HostBus delivers host-level events that originate outside any window:
// users joining, named custom inputs, shortcut activations. Callbacks are
// invoked on the host's event goroutine.
type HostBus interface {
	// OnUserJoined registers a callback for new users.
	OnUserJoined(fn func(user gui.UserID))

	// OnCustomInput registers a callback for named custom inputs.
	OnCustomInput(fn func(name string, user gui.UserID))

	// OnShortcut registers a callback for shortcut activations.
	OnShortcut(fn func(name string, user gui.UserID))
}

// -----------------------------------------------------------------------------
// State Store Port
// -----------------------------------------------------------------------------

// VersionKey is the reserved user key a namespace's definition version is
// stored under. Records never use it.
const VersionKey = "0"

// Record is the durable projection of one user's window state. Live element
// handles never leave the process; the projection carries what survives a
// restart.
type Record struct {
	User    gui.UserID
	Pinned  bool
	Elems   []string // names of the elements the build produced
	BuiltAt time.Time
}

// StateStore persists per-namespace window records plus the definition
// version sentinel. Implementations must be safe for concurrent use.
type StateStore interface {
	// SetVersion writes the namespace's version sentinel under VersionKey.
	SetVersion(ctx context.Context, namespace, version string) error

	// Version reads the namespace's version sentinel, "" when absent.
	Version(ctx context.Context, namespace string) (string, error)

	// Put upserts a user's record. Rejects the reserved VersionKey user.
	Put(ctx context.Context, namespace string, rec Record) error

	// Get retrieves a user's record.
	Get(ctx context.Context, namespace string, user gui.UserID) (Record, bool, error)

	// Delete removes a user's record. Absent records are not an error.
	Delete(ctx context.Context, namespace string, user gui.UserID) error

	// List returns all records for a namespace, excluding the sentinel.
	List(ctx context.Context, namespace string) ([]Record, error)

	// Purge drops the namespace's records and its version sentinel.
	Purge(ctx context.Context, namespace string) error
}
