package annotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sushantdwivedi/Frame-io/internal/gesture"
	"github.com/sushantdwivedi/Frame-io/internal/observability"
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/storage"
)

// Options configure a Session. Store and Player are required.
type Options struct {
	Store  storage.Store
	Player player.Controller

	Surface          state.Surface
	User             state.User
	Color            string
	Width            float32
	MaxPoints        int
	DriftThresholdMs int64
	EndThresholdMs   int64

	IDs    state.IDGenerator
	Now    func() time.Time
	Logger *slog.Logger
}

// Session ties gesture capture, the clock coordinator and the binder to the
// playback and persistence collaborators. In-memory state is updated first;
// when a collaborator call then fails, the state is rolled back to what it
// was before the operation and the error is returned for the caller to show
// as a non-fatal notice.
//
// A Session is driven from one event goroutine and is not safe for
// concurrent use.
type Session struct {
	store   storage.Store
	player  player.Controller
	clock   *Coordinator
	capture *gesture.Capture
	binder  Binder
	log     *slog.Logger

	endThresholdMs int64
	ended          bool

	comments []state.Comment
	drawings []state.Stroke

	// OnChange is called after any operation that changed what should be
	// on screen.
	OnChange func()
}

func NewSession(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("annotation session needs a store")
	}
	if opts.Player == nil {
		return nil, errors.New("annotation session needs a player")
	}
	if opts.IDs == nil {
		opts.IDs = state.UUIDGenerator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = observability.Logger()
	}
	if opts.EndThresholdMs <= 0 {
		opts.EndThresholdMs = player.DefaultEndThresholdMs
	}

	return &Session{
		store:  opts.Store,
		player: opts.Player,
		clock:  NewCoordinator(opts.DriftThresholdMs),
		capture: gesture.New(gesture.Options{
			Surface:   opts.Surface,
			MaxPoints: opts.MaxPoints,
			Color:     opts.Color,
			Width:     opts.Width,
			IDs:       opts.IDs,
			Logger:    opts.Logger,
		}),
		binder:         Binder{IDs: opts.IDs, Now: opts.Now, User: opts.User},
		log:            opts.Logger.With("component", "annotation"),
		endThresholdMs: opts.EndThresholdMs,
		comments:       []state.Comment{},
		drawings:       []state.Stroke{},
	}, nil
}

// Load replaces the in-memory collections with the persisted ones. On
// failure the collections are left empty.
func (s *Session) Load(ctx context.Context) error {
	comments, drawings, err := storage.LoadAll(ctx, s.store)
	if err != nil {
		s.comments, s.drawings = []state.Comment{}, []state.Stroke{}
		s.log.Warn("load annotations failed", "error", err)
		s.changed()
		return fmt.Errorf("load annotations: %w", err)
	}
	s.comments, s.drawings = comments, drawings
	s.log.Info("annotations loaded", "comments", len(comments), "drawings", len(drawings))
	s.changed()
	return nil
}

// Comments returns the comments ordered by timestamp.
func (s *Session) Comments() []state.Comment { return state.SortByTime(s.comments) }

// Drawings returns a copy of the persisted drawing collection.
func (s *Session) Drawings() []state.Stroke { return state.CloneStrokes(s.drawings) }

func (s *Session) Mode() Mode { return s.clock.Mode() }
func (s *Session) Status() player.Status { return s.clock.Status() }
func (s *Session) AnnotationMs() int64 { return s.clock.AnnotationMs() }
func (s *Session) Visible() []state.Stroke { return s.clock.Visible() }
func (s *Session) DrawingStrokes() []state.Stroke { return s.clock.DrawingStrokes() }
func (s *Session) OverlayStrokes() []state.Stroke { return s.clock.OverlayStrokes() }
func (s *Session) Ended() bool { return s.ended }

// Drawing reports whether drawing mode is on.
func (s *Session) Drawing() bool { return s.clock.DrawingActive() }

// CurrentStroke returns the stroke under the finger, if any.
func (s *Session) CurrentStroke() (state.Stroke, bool) { return s.capture.Current() }

// SetBrush changes colour and width for strokes started from now on.
func (s *Session) SetBrush(color string, width float32) {
	s.capture.Color = color
	if width > 0 {
		s.capture.Width = width
	}
}

// SetSurface updates the drawable area after a layout change.
func (s *Session) SetSurface(surface state.Surface) { s.capture.SetSurface(surface) }

// HandleTimeUpdate processes a timeUpdate event from the player.
func (s *Session) HandleTimeUpdate(currentMs, durationMs int64) error {
	st, err := player.NewStatus(currentMs, durationMs, s.clock.Playing())
	if err != nil {
		s.log.Warn("ignoring time update", "error", err)
		return err
	}
	s.ended = st.Ended(s.endThresholdMs)
	if s.ended {
		st.IsPlaying = false
	}
	if s.clock.UpdatePlayback(st) {
		s.log.Debug("overlay cleared by drift", "playback_ms", st.CurrentMs)
	}
	s.changed()
	return nil
}

// HandleStatusChange processes a statusChange event from the player.
func (s *Session) HandleStatusChange(isPlaying bool) {
	s.clock.SetPlaying(isPlaying && !s.ended)
	s.changed()
}

// TogglePlay pauses, resumes, or restarts from zero once playback has ended.
func (s *Session) TogglePlay(ctx context.Context) error {
	var err error
	switch {
	case s.ended:
		if err = s.player.Seek(ctx, 0); err == nil {
			err = s.player.Play(ctx)
		}
		if err == nil {
			s.ended = false
		}
	case s.clock.Playing():
		err = s.player.Pause(ctx)
	default:
		err = s.player.Play(ctx)
	}
	if err != nil {
		s.log.Warn("toggle play failed", "error", err)
		return fmt.Errorf("toggle play: %w", err)
	}
	return nil
}

// SeekTo jumps playback to ms. commentID, when set, names the comment being
// jumped to; see Coordinator.Seek for how the overlay is resolved.
//
// A negative target is rejected with player.ErrInvalidStatus. A target past
// the end of a video of known length is clamped to the end, matching what
// the player itself does.
func (s *Session) SeekTo(ctx context.Context, ms int64, commentID string) error {
	target, err := player.NewStatus(ms, s.knownDurationMs(), s.clock.Playing())
	if err != nil {
		s.log.Warn("rejecting seek", "ms", ms, "error", err)
		return fmt.Errorf("seek to %d: %w", ms, err)
	}
	ms = target.CurrentMs

	snap := s.clock.snapshot()
	fromMs := s.clock.PlaybackMs()
	wasEnded := s.ended

	resolved := s.clock.Seek(ms, commentID, s.comments, s.drawings)
	s.ended = false

	if err := s.player.Seek(ctx, ms); err != nil {
		s.clock.restore(snap)
		s.ended = wasEnded
		s.log.Warn("seek failed, rolled back", "ms", ms, "error", err)
		s.changed()
		return fmt.Errorf("seek to %d: %w", ms, err)
	}
	if resolved != nil {
		s.log.Info("seeked to comment", "comment_id", resolved.ID, "from_ms", fromMs, "ms", ms, "overlay_strokes", len(s.clock.OverlayStrokes()))
	}
	s.changed()
	return nil
}

// knownDurationMs returns the video length from the last time update, or
// from the player when none has arrived yet. 0 means unknown.
func (s *Session) knownDurationMs() int64 {
	if d := s.clock.DurationMs(); d > 0 {
		return d
	}
	if r, ok := s.player.(player.Reporter); ok {
		return r.Status().DurationMs
	}
	return 0
}

// FocusComment starts composing: playback pauses and the current time is
// locked for the annotation.
func (s *Session) FocusComment(ctx context.Context) error {
	return s.enterEditing(ctx, false)
}

// ToggleDrawMode enters drawing mode, or leaves it discarding the strokes
// drawn so far.
func (s *Session) ToggleDrawMode(ctx context.Context) error {
	if s.clock.DrawingActive() {
		s.CancelEditing()
		return nil
	}
	return s.enterEditing(ctx, true)
}

func (s *Session) enterEditing(ctx context.Context, drawing bool) error {
	snap := s.clock.snapshot()
	if drawing {
		s.clock.EnterDrawing()
	} else {
		s.clock.BeginComposing()
	}
	s.syncCapture()

	if err := s.player.Pause(ctx); err != nil {
		s.clock.restore(snap)
		s.syncCapture()
		s.log.Warn("pause for editing failed, rolled back", "error", err)
		s.changed()
		return fmt.Errorf("pause for editing: %w", err)
	}
	s.clock.SetPlaying(false)
	s.log.Info("editing started", "lock_ms", s.clock.AnnotationMs(), "drawing", drawing)
	s.changed()
	return nil
}

// CancelEditing abandons the edit session without submitting.
func (s *Session) CancelEditing() {
	if _, ok := s.clock.Mode().(Editing); !ok {
		return
	}
	discarded := len(s.clock.DrawingStrokes())
	s.clock.ExitEditing()
	s.syncCapture()
	s.log.Info("editing cancelled", "discarded_strokes", discarded)
	s.changed()
}

// ClearDrawing discards the strokes drawn so far but stays in drawing mode.
func (s *Session) ClearDrawing() {
	s.clock.ClearDrawing()
	s.changed()
}

// TouchDown starts a stroke when drawing mode is on.
func (s *Session) TouchDown(p state.Point) {
	if s.capture.Down(p, s.clock.AnnotationMs()) {
		s.changed()
	}
}

func (s *Session) TouchMove(p state.Point) {
	if s.capture.State() != gesture.Drawing {
		return
	}
	s.capture.Move(p)
	s.changed()
}

// TouchUp finishes the stroke and adds it to the edit session.
func (s *Session) TouchUp() {
	st, ok := s.capture.Up()
	if !ok {
		return
	}
	s.clock.AppendStroke(st)
	s.changed()
}

// TouchCancel discards the stroke in progress.
func (s *Session) TouchCancel() {
	if s.capture.State() == gesture.Idle {
		return
	}
	s.capture.Cancel()
	s.changed()
}

// CanSubmit reports whether Submit would produce a comment.
func (s *Session) CanSubmit(text string) bool {
	return CanSubmit(text, s.clock.DrawingStrokes())
}

// Submit binds text and the session's strokes into a comment at the
// annotation time. Drawings are appended and saved before the comment that
// references them. On success the new comment becomes the overlay and the
// edit session ends.
func (s *Session) Submit(ctx context.Context, text string) (state.Comment, error) {
	working := s.clock.DrawingStrokes()
	comment, strokes, err := s.binder.Bind(text, working, s.clock.AnnotationMs())
	if err != nil {
		return state.Comment{}, err
	}

	snap := s.clock.snapshot()
	prevComments, prevDrawings := s.comments, s.drawings

	s.drawings = append(state.CloneStrokes(prevDrawings), strokes...)
	s.comments = append(append([]state.Comment(nil), prevComments...), comment)
	s.clock.finishSubmit(comment, strokes)
	s.capture.Cancel()
	s.syncCapture()
	s.changed()

	if err := s.persist(ctx, len(strokes) > 0, prevDrawings); err != nil {
		s.comments, s.drawings = prevComments, prevDrawings
		s.clock.restore(snap)
		s.syncCapture()
		s.log.Warn("submit failed, rolled back", "comment_id", comment.ID, "error", err)
		s.changed()
		return state.Comment{}, fmt.Errorf("save comment: %w", err)
	}

	s.log.Info("comment posted", "comment_id", comment.ID, "time_ms", comment.TimeMs, "strokes", len(strokes))
	return comment, nil
}

func (s *Session) persist(ctx context.Context, newStrokes bool, prevDrawings []state.Stroke) error {
	if newStrokes {
		if err := s.store.SaveDrawings(ctx, s.drawings); err != nil {
			return err
		}
	}
	if err := s.store.SaveComments(ctx, s.comments); err != nil {
		if newStrokes {
			if rerr := s.store.SaveDrawings(ctx, prevDrawings); rerr != nil {
				s.log.Warn("restore drawings failed", "error", rerr)
			}
		}
		return err
	}
	return nil
}

// Reset deletes every comment and drawing.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		s.log.Warn("reset failed", "error", err)
		return fmt.Errorf("reset annotations: %w", err)
	}
	s.comments, s.drawings = []state.Comment{}, []state.Stroke{}
	s.clock.ExitEditing()
	s.clock.ClearOverlay()
	s.capture.Cancel()
	s.syncCapture()
	s.log.Info("annotations reset")
	s.changed()
	return nil
}

func (s *Session) syncCapture() {
	s.capture.SetActive(s.clock.DrawingActive())
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
