// Package idgen provides ID generation implementations.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/artpar/windowkit/ports"
)

// UUID generates random UUIDv4 identifiers.
type UUID struct{}

// New returns a new random UUID string.
func (UUID) New() string {
	return uuid.New().String()
}

// Sequential generates predictable identifiers for testing.
// IDs take the form "<prefix><n>" with n starting at 1.
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential generator with the given prefix.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next identifier in the sequence.
func (s *Sequential) New() string {
	n := s.counter.Add(1)
	return s.prefix + strconv.FormatUint(n, 10)
}

// Reset restarts the sequence from the beginning.
func (s *Sequential) Reset() {
	s.counter.Store(0)
}

// Ensure interface compliance.
var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
