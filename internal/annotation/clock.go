// Package annotation synchronises freehand drawings and comments with video
// playback.
//
// Three clocks are involved. Playback time is the video position. Lock time
// is the frozen position an annotation is being written against. Overlay
// time is the position of the past comment whose drawing is on screen. Lock
// and overlay time never coexist: the Coordinator holds exactly one Mode.
package annotation

import (
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
)

// DefaultDriftThresholdMs is how far playback may move from an overlay's
// timestamp before the overlay hides itself.
const DefaultDriftThresholdMs = 250

// Mode is one of Idle, Editing or Reviewing.
type Mode interface {
	isMode()
}

// Idle: playback time is authoritative and nothing is overlaid.
type Idle struct{}

// Editing: an annotation is being composed against LockMs. Drawing is set
// while the surface accepts strokes.
type Editing struct {
	LockMs  int64
	Drawing bool
}

// Reviewing: the strokes of CommentID are shown read-only.
type Reviewing struct {
	OverlayMs int64
	CommentID string
}

func (Idle) isMode() {}
func (Editing) isMode() {}
func (Reviewing) isMode() {}

// Coordinator owns the clock model and the working set. The working set's
// role follows the mode: strokes being drawn while Editing, the overlay
// while Reviewing, empty while Idle.
type Coordinator struct {
	driftMs int64

	playbackMs int64
	durationMs int64
	playing    bool

	mode    Mode
	working []state.Stroke
}

func NewCoordinator(driftThresholdMs int64) *Coordinator {
	if driftThresholdMs <= 0 {
		driftThresholdMs = DefaultDriftThresholdMs
	}
	return &Coordinator{driftMs: driftThresholdMs, mode: Idle{}}
}

func (c *Coordinator) Mode() Mode { return c.mode }
func (c *Coordinator) PlaybackMs() int64 { return c.playbackMs }
func (c *Coordinator) DurationMs() int64 { return c.durationMs }
func (c *Coordinator) Playing() bool { return c.playing }
func (c *Coordinator) SetPlaying(p bool) { c.playing = p }
func (c *Coordinator) DriftThreshold() int64 { return c.driftMs }

// Status returns the last playback status seen.
func (c *Coordinator) Status() player.Status {
	return player.Status{CurrentMs: c.playbackMs, DurationMs: c.durationMs, IsPlaying: c.playing}
}

// LockMs returns the lock time while editing.
func (c *Coordinator) LockMs() (int64, bool) {
	if e, ok := c.mode.(Editing); ok {
		return e.LockMs, true
	}
	return 0, false
}

// AnnotationMs is the timestamp new strokes and comments receive: lock time
// if set, otherwise playback time.
func (c *Coordinator) AnnotationMs() int64 {
	if lock, ok := c.LockMs(); ok {
		return lock
	}
	return c.playbackMs
}

// DrawingActive reports whether the surface should accept strokes.
func (c *Coordinator) DrawingActive() bool {
	e, ok := c.mode.(Editing)
	return ok && e.Drawing
}

// Visible returns the strokes to render, whichever role the working set has.
func (c *Coordinator) Visible() []state.Stroke {
	return state.CloneStrokes(c.working)
}

// DrawingStrokes returns the strokes drawn in the current edit session.
func (c *Coordinator) DrawingStrokes() []state.Stroke {
	if _, ok := c.mode.(Editing); !ok {
		return nil
	}
	return state.CloneStrokes(c.working)
}

// OverlayStrokes returns the strokes of the comment under review.
func (c *Coordinator) OverlayStrokes() []state.Stroke {
	if _, ok := c.mode.(Reviewing); !ok {
		return nil
	}
	return state.CloneStrokes(c.working)
}

// UpdatePlayback records a new playback status and hides the overlay once
// playback has drifted more than the threshold from it. It reports whether
// the overlay was cleared.
func (c *Coordinator) UpdatePlayback(s player.Status) bool {
	c.playbackMs = s.CurrentMs
	c.durationMs = s.DurationMs
	c.playing = s.IsPlaying

	r, ok := c.mode.(Reviewing)
	if !ok {
		return false
	}
	if !c.OverlayVisibleAt(r.OverlayMs, c.playbackMs) {
		c.ClearOverlay()
		return true
	}
	return false
}

// OverlayVisibleAt reports whether an overlay at overlayMs survives playback
// at playbackMs.
func (c *Coordinator) OverlayVisibleAt(overlayMs, playbackMs int64) bool {
	return abs(playbackMs-overlayMs) <= c.driftMs
}

// Seek moves playback to ms and resolves the overlay for it. The target
// comment is found by commentID first, then by an exact timestamp match. A
// comment with drawings becomes the overlay; otherwise any overlay is
// cleared. While editing only playback time moves: the lock stays put and
// no overlay is shown. The resolved comment, if any, is returned.
func (c *Coordinator) Seek(ms int64, commentID string, comments []state.Comment, drawings []state.Stroke) *state.Comment {
	c.playbackMs = ms
	if _, editing := c.mode.(Editing); editing {
		return nil
	}

	target := resolveComment(ms, commentID, comments)
	if target == nil || !target.HasDrawings() {
		c.ClearOverlay()
		return target
	}
	c.ShowOverlay(*target, drawings)
	return target
}

func resolveComment(ms int64, commentID string, comments []state.Comment) *state.Comment {
	if commentID != "" {
		for i := range comments {
			if comments[i].ID == commentID {
				return &comments[i]
			}
		}
	}
	for i := range comments {
		if comments[i].TimeMs == ms {
			return &comments[i]
		}
	}
	return nil
}

// ShowOverlay displays the comment's strokes read-only. It does nothing
// while editing.
func (c *Coordinator) ShowOverlay(comment state.Comment, drawings []state.Stroke) {
	if _, editing := c.mode.(Editing); editing {
		return
	}
	c.mode = Reviewing{OverlayMs: comment.TimeMs, CommentID: comment.ID}
	c.working = state.FilterStrokes(drawings, comment.DrawingIDs)
}

// ClearOverlay hides the overlay. It does nothing unless reviewing.
func (c *Coordinator) ClearOverlay() {
	if _, ok := c.mode.(Reviewing); !ok {
		return
	}
	c.mode = Idle{}
	c.working = nil
}

// BeginComposing locks the current playback time for a new annotation
// without enabling drawing. Any overlay is dropped. Calling it while already
// editing keeps the existing lock.
func (c *Coordinator) BeginComposing() {
	if _, ok := c.mode.(Editing); ok {
		return
	}
	c.mode = Editing{LockMs: c.playbackMs}
	c.working = nil
}

// EnterDrawing switches to drawing, locking playback time unless a lock is
// already held.
func (c *Coordinator) EnterDrawing() {
	c.BeginComposing()
	e := c.mode.(Editing)
	e.Drawing = true
	c.mode = e
}

// ExitEditing abandons the edit session: the working set is discarded and
// playback time is authoritative again.
func (c *Coordinator) ExitEditing() {
	if _, ok := c.mode.(Editing); !ok {
		return
	}
	c.mode = Idle{}
	c.working = nil
}

// AppendStroke adds a finished stroke to the edit session, stamped with the
// lock time. It reports false, and drops the stroke, when not drawing.
func (c *Coordinator) AppendStroke(s state.Stroke) bool {
	e, ok := c.mode.(Editing)
	if !ok || !e.Drawing {
		return false
	}
	s = s.Clone()
	s.TimeMs = e.LockMs
	c.working = append(c.working, s)
	return true
}

// ClearDrawing empties the edit session's strokes without leaving it.
func (c *Coordinator) ClearDrawing() {
	if _, ok := c.mode.(Editing); ok {
		c.working = nil
	}
}

// finishSubmit ends the edit session and puts the new comment on screen.
func (c *Coordinator) finishSubmit(comment state.Comment, strokes []state.Stroke) {
	c.mode = Reviewing{OverlayMs: comment.TimeMs, CommentID: comment.ID}
	c.working = state.CloneStrokes(strokes)
}

type clockSnapshot struct {
	playbackMs int64
	durationMs int64
	playing    bool
	mode       Mode
	working    []state.Stroke
}

func (c *Coordinator) snapshot() clockSnapshot {
	return clockSnapshot{
		playbackMs: c.playbackMs,
		durationMs: c.durationMs,
		playing:    c.playing,
		mode:       c.mode,
		working:    state.CloneStrokes(c.working),
	}
}

func (c *Coordinator) restore(s clockSnapshot) {
	c.playbackMs = s.playbackMs
	c.durationMs = s.durationMs
	c.playing = s.playing
	c.mode = s.mode
	c.working = s.working
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
