package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator issues sequential ids with a fixed prefix
// ("step-0001", "step-0002", ...) instead of UUIDv7s.
//
// Implements registry.IDGenerator. Deterministic ids keep step definition
// references stable inside golden trace files.
type FixedIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedIDGenerator creates a generator with the given prefix.
// An empty prefix defaults to "id".
func NewFixedIDGenerator(prefix string) *FixedIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &FixedIDGenerator{prefix: prefix}
}

// NewID returns the next sequential id.
func (g *FixedIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
