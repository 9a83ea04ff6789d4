// Package stroke turns captured touch points into smoothed, renderable paths.
package stroke

import "github.com/sushantdwivedi/Frame-io/internal/state"

// Verb is the kind of a path segment.
type Verb int

const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	Circle
)

func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case Circle:
		return "C"
	}
	return "?"
}

// Segment is one path command. Ctrl is only meaningful for QuadTo and
// Radius only for Circle (where To is the centre).
type Segment struct {
	Verb   Verb
	Ctrl   state.Point
	To     state.Point
	Radius float32
}

// Path is a vector path built from a stroke's points.
type Path struct {
	Segments []Segment
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// Start returns the first point of the path.
func (p Path) Start() (state.Point, bool) {
	if p.Empty() {
		return state.Point{}, false
	}
	return p.Segments[0].To, true
}

// End returns the point the path terminates on. For a dot this is its centre.
func (p Path) End() (state.Point, bool) {
	if p.Empty() {
		return state.Point{}, false
	}
	return p.Segments[len(p.Segments)-1].To, true
}

// Build smooths points into a path. A single point becomes a dot of radius
// width/2. With two or more points the path opens with a straight segment,
// then runs quadratic curves through the midpoints of consecutive points
// using the earlier point as control, and finally closes with a line onto
// the last captured point.
//
// Build is pure; it is recomputed on every render for every visible stroke.
func Build(points []state.Point, width float32) Path {
	switch len(points) {
	case 0:
		return Path{}
	case 1:
		return Path{Segments: []Segment{
			{Verb: MoveTo, To: points[0]},
			{Verb: Circle, To: points[0], Radius: width / 2},
		}}
	}

	segs := make([]Segment, 0, len(points)+1)
	segs = append(segs,
		Segment{Verb: MoveTo, To: points[0]},
		Segment{Verb: LineTo, To: points[1]},
	)
	for i := 2; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		segs = append(segs, Segment{Verb: QuadTo, Ctrl: prev, To: midpoint(prev, cur)})
	}
	if len(points) > 2 {
		segs = append(segs, Segment{Verb: LineTo, To: points[len(points)-1]})
	}
	return Path{Segments: segs}
}

func midpoint(a, b state.Point) state.Point {
	return state.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
