// Package ids provides node identity generation. Every AST node receives a
// process-unique integer at construction; IDs are never reused or reassigned.
package ids

import "sync/atomic"

// Generator produces fresh node IDs. Implementations must be monotonic and
// must never return the same ID twice.
type Generator interface {
	NextID() int32
}

// Sequence is the standard Generator: an atomic counter starting at 1. It is
// safe for concurrent use, so independent compilation units may share one or
// hold one each.
type Sequence struct {
	last atomic.Int32
}

// NewSequence returns a generator whose first ID is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NextID returns the next unused ID.
func (s *Sequence) NextID() int32 {
	return s.last.Add(1)
}
