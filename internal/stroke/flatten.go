package stroke

import "github.com/sushantdwivedi/Frame-io/internal/state"

// Flatten approximates the path with a polyline suitable for surfaces that
// only draw straight segments. Each quadratic curve is sampled at steps
// evenly spaced parameters. Dots are returned separately because they are
// filled, not stroked.
func Flatten(p Path, steps int) (lines [][]state.Point, dots []Segment) {
	if steps < 1 {
		steps = 1
	}
	var cur []state.Point
	var cursor state.Point
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	for _, seg := range p.Segments {
		switch seg.Verb {
		case MoveTo:
			flush()
			cur = []state.Point{seg.To}
		case LineTo:
			cur = append(cur, seg.To)
		case QuadTo:
			for i := 1; i <= steps; i++ {
				t := float32(i) / float32(steps)
				cur = append(cur, quadAt(cursor, seg.Ctrl, seg.To, t))
			}
		case Circle:
			dots = append(dots, seg)
		}
		cursor = seg.To
	}
	flush()
	return lines, dots
}

func quadAt(p0, c, p1 state.Point, t float32) state.Point {
	u := 1 - t
	return state.Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}
