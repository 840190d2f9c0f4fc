package model

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique entity ids. Edits that create systems or
// staves take one so callers control id generation.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator returns random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator returns Prefix followed by an increasing counter,
// starting at 1. It is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NewSequenceGenerator creates a sequence generator with the given prefix
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NewID returns the next id in the sequence
func (g *SequenceGenerator) NewID() string {
	return g.Prefix + strconv.FormatInt(g.n.Add(1), 10)
}
