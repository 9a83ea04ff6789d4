package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out ids for strokes and comments. Ids only need to be
// unique within an annotation session.
type IDGenerator interface {
	NewID(kind string) string
}

// UUIDGenerator prefixes a random UUID with the record kind, e.g.
// "stroke_6f1c...".
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(kind string) string {
	return kind + "_" + uuid.NewString()
}

// CounterGenerator is a monotonic generator. Ids are "<kind>-<n>" with n
// starting at 1 and shared across kinds.
type CounterGenerator struct {
	n uint64
}

func (g *CounterGenerator) NewID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, atomic.AddUint64(&g.n, 1))
}
