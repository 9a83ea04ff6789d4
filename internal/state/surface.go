package state

// Surface is the drawable area over the video, in pixels. Points captured on
// it are clamped into [0,Width]x[0,Height].
type Surface struct {
	Width  float32
	Height float32
}

// NewSurface builds a surface for a video box of the given width, keeping the
// 16:9 aspect the player lays out.
func NewSurface(width float32) Surface {
	return Surface{Width: width, Height: width * 9 / 16}
}

// Contains reports whether p lies inside the surface, edges included.
func (s Surface) Contains(p Point) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// Clamp pulls p onto the nearest point of the surface.
func (s Surface) Clamp(p Point) Point {
	return Point{X: clamp(p.X, 0, s.Width), Y: clamp(p.Y, 0, s.Height)}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
