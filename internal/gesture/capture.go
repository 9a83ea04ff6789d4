// Package gesture tracks an in-progress touch gesture and turns it into a
// finished stroke.
package gesture

import (
	"log/slog"

	"github.com/sushantdwivedi/Frame-io/internal/observability"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/stroke"
)

// State of the capture machine. Committed is transient: Up reports it and the
// machine is back to Idle before it returns.
type State int

const (
	Idle State = iota
	Drawing
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Committed:
		return "committed"
	}
	return "unknown"
}

// Options configure a Capture.
type Options struct {
	Surface   state.Surface
	MaxPoints int
	Color     string
	Width     float32
	IDs       state.IDGenerator
	Logger    *slog.Logger
}

// Capture is the gesture state machine. It is driven from a single event
// goroutine and is not safe for concurrent use.
type Capture struct {
	surface state.Surface
	ids     state.IDGenerator
	log     *slog.Logger

	Color string
	Width float32

	active bool
	state  State

	id     string
	timeMs int64
	color  string
	width  float32
	points *stroke.Ring
}

func New(opts Options) *Capture {
	if opts.IDs == nil {
		opts.IDs = state.UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = observability.Logger()
	}
	if opts.Width <= 0 {
		opts.Width = 3
	}
	return &Capture{
		surface: opts.Surface,
		ids:     opts.IDs,
		log:     opts.Logger.With("component", "gesture"),
		Color:   opts.Color,
		Width:   opts.Width,
		points:  stroke.NewRing(opts.MaxPoints),
	}
}

func (c *Capture) State() State { return c.state }
func (c *Capture) Active() bool { return c.active }

// SetSurface updates the clamp bounds, e.g. after the video box is resized.
func (c *Capture) SetSurface(s state.Surface) { c.surface = s }

// SetActive toggles whether input is accepted. Deactivating mid-gesture
// discards the gesture.
func (c *Capture) SetActive(active bool) {
	if c.active && !active && c.state == Drawing {
		c.Cancel()
	}
	c.active = active
}

// Down starts a new stroke at p stamped with atMs. It reports whether a
// gesture was started.
func (c *Capture) Down(p state.Point, atMs int64) bool {
	if !c.active || c.state != Idle {
		return false
	}
	c.state = Drawing
	c.id = c.ids.NewID("stroke")
	c.timeMs = atMs
	c.color = c.Color
	c.width = c.Width
	c.points.Reset()
	c.push(p)
	c.log.Debug("gesture started", "stroke_id", c.id, "time_ms", atMs)
	return true
}

// Move appends a clamped point to the in-progress stroke.
func (c *Capture) Move(p state.Point) {
	if !c.active || c.state != Drawing {
		return
	}
	c.push(p)
}

func (c *Capture) push(p state.Point) {
	if !c.surface.Contains(p) {
		c.log.Debug("point clamped to surface", "x", p.X, "y", p.Y)
		p = c.surface.Clamp(p)
	}
	c.points.Push(p)
}

// Up finishes the gesture. When at least one point was captured the finished
// stroke is returned with ok set; the caller owns it from then on.
func (c *Capture) Up() (s state.Stroke, ok bool) {
	if !c.active || c.state != Drawing {
		return state.Stroke{}, false
	}
	if c.points.Len() == 0 {
		c.reset()
		return state.Stroke{}, false
	}
	c.state = Committed
	s = c.snapshot()
	c.log.Debug("gesture committed", "stroke_id", s.ID, "points", len(s.Points), "point_cap", c.points.Cap())
	c.reset()
	return s, true
}

// Cancel drops the in-progress stroke, e.g. when the host steals the gesture.
func (c *Capture) Cancel() {
	if c.state == Idle {
		return
	}
	c.log.Debug("gesture cancelled", "stroke_id", c.id, "points", c.points.Len())
	c.reset()
}

// Current returns a copy of the stroke being drawn, for live rendering.
func (c *Capture) Current() (state.Stroke, bool) {
	if c.state != Drawing {
		return state.Stroke{}, false
	}
	return c.snapshot(), true
}

func (c *Capture) snapshot() state.Stroke {
	return state.Stroke{
		ID:     c.id,
		TimeMs: c.timeMs,
		Color:  c.color,
		Width:  c.width,
		Points: c.points.Points(),
	}
}

func (c *Capture) reset() {
	c.state = Idle
	c.id = ""
	c.timeMs = 0
	c.points.Reset()
}
