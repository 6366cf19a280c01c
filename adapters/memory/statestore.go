// Package memory provides in-memory implementations for testing.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/artpar/windowkit/domain/gui"
	"github.com/artpar/windowkit/ports"
)

// StateStore is an in-memory state store.
type StateStore struct {
	mu       sync.RWMutex
	records  map[string]map[gui.UserID]ports.Record
	versions map[string]string
}

// NewStateStore creates a new in-memory state store.
func NewStateStore() *StateStore {
	return &StateStore{
		records:  make(map[string]map[gui.UserID]ports.Record),
		versions: make(map[string]string),
	}
}

// SetVersion records the version sentinel for a namespace.
func (s *StateStore) SetVersion(ctx context.Context, namespace, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[namespace] = version
	return nil
}

// Version returns the version sentinel for a namespace, or "" when absent.
func (s *StateStore) Version(ctx context.Context, namespace string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[namespace], nil
}

// Put stores a record for namespace/user. The version sentinel key is reserved.
func (s *StateStore) Put(ctx context.Context, namespace string, rec ports.Record) error {
	if string(rec.User) == ports.VersionKey {
		return fmt.Errorf("user id %q is reserved", ports.VersionKey)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	users, ok := s.records[namespace]
	if !ok {
		users = make(map[gui.UserID]ports.Record)
		s.records[namespace] = users
	}
	users[rec.User] = rec
	return nil
}

// Get returns the record for namespace/user, or false when absent.
func (s *StateStore) Get(ctx context.Context, namespace string, user gui.UserID) (ports.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[namespace][user]
	return rec, ok, nil
}

// Delete removes the record for namespace/user. Missing records are not an error.
func (s *StateStore) Delete(ctx context.Context, namespace string, user gui.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records[namespace], user)
	return nil
}

// List returns all records for a namespace, excluding the version sentinel.
func (s *StateStore) List(ctx context.Context, namespace string) ([]ports.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := s.records[namespace]
	out := make([]ports.Record, 0, len(users))
	for _, rec := range users {
		out = append(out, rec)
	}
	return out, nil
}

// Purge removes all records and the version sentinel for a namespace.
func (s *StateStore) Purge(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, namespace)
	delete(s.versions, namespace)
	return nil
}

// Clear removes everything. For testing.
func (s *StateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]map[gui.UserID]ports.Record)
	s.versions = make(map[string]string)
}

// Ensure interface compliance.
var _ ports.StateStore = (*StateStore)(nil)
