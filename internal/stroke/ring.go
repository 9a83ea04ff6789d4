package stroke

import "github.com/sushantdwivedi/Frame-io/internal/state"

// DefaultMaxPoints bounds a single in-progress stroke.
const DefaultMaxPoints = 1000

// Ring is a fixed-capacity point buffer. Once full, each push evicts the
// oldest point so long gestures keep their most recent shape.
type Ring struct {
	buf   []state.Point
	start int
	n     int
}

// NewRing allocates a ring holding at most capacity points. A non-positive
// capacity uses DefaultMaxPoints.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultMaxPoints
	}
	return &Ring{buf: make([]state.Point, capacity)}
}

func (r *Ring) Cap() int { return len(r.buf) }
func (r *Ring) Len() int { return r.n }

// Push appends p, evicting the oldest point when full.
func (r *Ring) Push(p state.Point) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = p
		r.n++
		return
	}
	r.buf[r.start] = p
	r.start = (r.start + 1) % len(r.buf)
}

// Points returns the buffered points, oldest first, in a fresh slice.
func (r *Ring) Points() []state.Point {
	out := make([]state.Point, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Reset empties the ring without releasing its storage.
func (r *Ring) Reset() {
	r.start, r.n = 0, 0
}
