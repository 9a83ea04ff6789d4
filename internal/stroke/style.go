package stroke

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

type Cap int

const (
	CapButt Cap = iota
	CapRound
)

type Join int

const (
	JoinMiter Join = iota
	JoinRound
)

// Style carries the render attributes that sit next to a path rather than
// inside it.
type Style struct {
	Color color.NRGBA
	Width float32
	Cap   Cap
	Join  Join
}

// StyleOf returns the render style for a stroke. Caps and joins are always
// round so the quadratic-to-line transitions show no seams. An unparseable
// colour falls back to black.
func StyleOf(s state.Stroke) Style {
	c, err := ParseHexColor(s.Color)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	return Style{Color: c, Width: s.Width, Cap: CapRound, Join: JoinRound}
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: bad length", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
