package registry

import "github.com/google/uuid"

// IDGenerator produces ids for step definitions and conformance runs.
// Implemented by UUIDv7Generator (production) and testutil.FixedIDGenerator
// (deterministic tests and golden files).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator issues time-ordered RFC 9562 UUIDv7 ids.
//
// UUIDv7 keeps ids sortable by creation time, which makes trace output and
// debugging output follow registration order for free.
type UUIDv7Generator struct{}

// NewUUIDv7Generator creates the production id generator.
func NewUUIDv7Generator() *UUIDv7Generator {
	return &UUIDv7Generator{}
}

// NewID returns a new UUIDv7 string.
func (*UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
