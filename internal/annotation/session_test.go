package annotation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sushantdwivedi/Frame-io/internal/annotation"
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/storage"
)

var errBoom = errors.New("boom")

// flakyStore fails the named save once.
type flakyStore struct {
	*storage.Memory
	failComments bool
	failDrawings bool
	failLoad     bool
	saveOrder    []string
}

func (f *flakyStore) LoadComments(ctx context.Context) ([]state.Comment, error) {
	if f.failLoad {
		return nil, errBoom
	}
	return f.Memory.LoadComments(ctx)
}

func (f *flakyStore) SaveComments(ctx context.Context, c []state.Comment) error {
	f.saveOrder = append(f.saveOrder, "comments")
	if f.failComments {
		f.failComments = false
		return errBoom
	}
	return f.Memory.SaveComments(ctx, c)
}

func (f *flakyStore) SaveDrawings(ctx context.Context, d []state.Stroke) error {
	f.saveOrder = append(f.saveOrder, "drawings")
	if f.failDrawings {
		f.failDrawings = false
		return errBoom
	}
	return f.Memory.SaveDrawings(ctx, d)
}

type fixture struct {
	session *annotation.Session
	store   *flakyStore
	player  *player.Simulated
	changes int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  &flakyStore{Memory: storage.NewMemory()},
		player: player.NewSimulated(60000),
	}
	s, err := annotation.NewSession(annotation.Options{
		Store:            f.store,
		Player:           f.player,
		Surface:          state.Surface{Width: 640, Height: 360},
		User:             state.User{Name: "Noah Green", Avatar: "a.png"},
		Color:            "#ff4757",
		Width:            3,
		DriftThresholdMs: 250,
		IDs:              &state.CounterGenerator{},
		Now:              func() time.Time { return time.UnixMilli(42) },
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.OnChange = func() { f.changes++ }
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	f.session = s
	return f
}

func (f *fixture) draw(points ...state.Point) {
	f.session.TouchDown(points[0])
	for _, p := range points[1:] {
		f.session.TouchMove(p)
	}
	f.session.TouchUp()
}

func TestSubmitAtLockedTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session

	s.HandleTimeUpdate(5000, 60000)
	if err := s.ToggleDrawMode(ctx); err != nil {
		t.Fatalf("ToggleDrawMode: %v", err)
	}
	// playback keeps moving; the lock does not
	s.HandleTimeUpdate(5300, 60000)

	f.draw(state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2}, state.Point{X: 3, Y: 3})

	if !s.CanSubmit("hi") {
		t.Fatal("CanSubmit = false")
	}
	c, err := s.Submit(ctx, "hi")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if c.TimeMs != 5000 || c.Text != "hi" || len(c.DrawingIDs) != 1 {
		t.Errorf("comment = %+v", c)
	}
	drawings := s.Drawings()
	if len(drawings) != 1 || drawings[0].TimeMs != 5000 || drawings[0].ID != c.DrawingIDs[0] {
		t.Errorf("drawings = %+v", drawings)
	}
	if len(drawings[0].Points) != 3 {
		t.Errorf("stroke has %d points", len(drawings[0].Points))
	}

	// the new comment is on screen and the edit session is over
	if r, ok := s.Mode().(annotation.Reviewing); !ok || r.CommentID != c.ID {
		t.Errorf("mode = %#v", s.Mode())
	}
	if len(s.OverlayStrokes()) != 1 || len(s.DrawingStrokes()) != 0 {
		t.Errorf("overlay %d drawing %d", len(s.OverlayStrokes()), len(s.DrawingStrokes()))
	}
	if s.Drawing() {
		t.Errorf("still in drawing mode")
	}

	// persisted: drawings before the comment, and every id resolvable
	if got := f.store.saveOrder; len(got) != 2 || got[0] != "drawings" || got[1] != "comments" {
		t.Errorf("save order = %v", got)
	}
	persisted, err := f.store.LoadDrawings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range c.DrawingIDs {
		if len(state.FilterStrokes(persisted, []string{id})) != 1 {
			t.Errorf("drawing %s missing from store", id)
		}
	}
}

func TestSeekShowsAndDriftHides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session

	f.store.SaveDrawings(ctx, []state.Stroke{{ID: "s1", TimeMs: 12000}, {ID: "s2", TimeMs: 12000}, {ID: "s9", TimeMs: 1}})
	f.store.SaveComments(ctx, []state.Comment{{ID: "c1", TimeMs: 12000, DrawingIDs: []string{"s1", "s2"}}})
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if err := s.SeekTo(ctx, 12000, ""); err != nil {
		t.Fatalf("SeekTo: %v", err)
	}
	overlay := s.OverlayStrokes()
	if len(overlay) != 2 || overlay[0].ID != "s1" || overlay[1].ID != "s2" {
		t.Fatalf("overlay = %+v", overlay)
	}
	if f.player.Status().CurrentMs != 12000 {
		t.Errorf("player at %d", f.player.Status().CurrentMs)
	}

	s.HandleTimeUpdate(12400, 60000)
	if len(s.Visible()) != 0 {
		t.Errorf("overlay survived drift to 12400")
	}
}

func TestCancelledGestureLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.ToggleDrawMode(ctx)

	s.TouchDown(state.Point{X: 1})
	s.TouchMove(state.Point{X: 2})
	s.TouchMove(state.Point{X: 3})
	if _, ok := s.CurrentStroke(); !ok {
		t.Fatal("no stroke in progress")
	}
	s.TouchCancel()

	if _, ok := s.CurrentStroke(); ok {
		t.Errorf("stroke survived cancel")
	}
	if len(s.DrawingStrokes()) != 0 || len(s.Drawings()) != 0 {
		t.Errorf("cancelled gesture was kept")
	}
	if s.CanSubmit("") {
		t.Errorf("CanSubmit true with nothing drawn")
	}
}

func TestCompletedGesturesAddOneEach(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.ToggleDrawMode(ctx)

	for i := 1; i <= 3; i++ {
		f.draw(state.Point{X: float32(i)}, state.Point{X: float32(i + 1)})
		if n := len(s.DrawingStrokes()); n != i {
			t.Fatalf("after gesture %d: %d strokes", i, n)
		}
	}
}

func TestTouchesIgnoredOutsideDrawingMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session

	f.draw(state.Point{X: 1}, state.Point{X: 2})
	s.FocusComment(ctx)
	f.draw(state.Point{X: 1}, state.Point{X: 2})

	if len(s.Visible()) != 0 {
		t.Errorf("strokes captured outside drawing mode")
	}
}

func TestToggleDrawModeOffDiscards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.HandleTimeUpdate(7000, 60000)
	s.ToggleDrawMode(ctx)
	f.draw(state.Point{X: 1}, state.Point{X: 2})

	s.ToggleDrawMode(ctx)

	if _, ok := s.Mode().(annotation.Idle); !ok {
		t.Errorf("mode = %#v", s.Mode())
	}
	if len(s.Visible()) != 0 {
		t.Errorf("working set survived")
	}
	s.HandleTimeUpdate(8000, 60000)
	if s.AnnotationMs() != 8000 {
		t.Errorf("AnnotationMs = %d, want playback", s.AnnotationMs())
	}
}

func TestFocusCommentLocksAndPauses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	f.player.Play(ctx)
	s.HandleStatusChange(true)
	s.HandleTimeUpdate(3000, 60000)

	if err := s.FocusComment(ctx); err != nil {
		t.Fatalf("FocusComment: %v", err)
	}
	if f.player.Status().IsPlaying {
		t.Errorf("player still playing")
	}
	s.HandleTimeUpdate(3100, 60000)

	c, err := s.Submit(ctx, "text only")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.TimeMs != 3000 || c.DrawingIDs != nil {
		t.Errorf("comment = %+v", c)
	}
	if got := f.store.saveOrder; len(got) != 1 || got[0] != "comments" {
		t.Errorf("save order = %v", got)
	}
}

func TestSubmitEmptyIsInert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.ToggleDrawMode(ctx)
	before := s.Mode()

	if _, err := s.Submit(ctx, "   "); !errors.Is(err, annotation.ErrEmptySubmission) {
		t.Errorf("err = %v", err)
	}
	if s.Mode() != before || len(s.Comments()) != 0 || len(f.store.saveOrder) != 0 {
		t.Errorf("empty submit changed state")
	}
}

func TestSubmitRollsBackOnCommentSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.HandleTimeUpdate(5000, 60000)
	s.ToggleDrawMode(ctx)
	f.draw(state.Point{X: 1}, state.Point{X: 2})

	f.store.failComments = true
	if _, err := s.Submit(ctx, "hi"); !errors.Is(err, errBoom) {
		t.Fatalf("Submit err = %v, want boom", err)
	}

	if len(s.Comments()) != 0 || len(s.Drawings()) != 0 {
		t.Errorf("in-memory collections not rolled back")
	}
	if !s.Drawing() || len(s.DrawingStrokes()) != 1 {
		t.Errorf("edit session not restored: drawing=%v strokes=%d", s.Drawing(), len(s.DrawingStrokes()))
	}
	if s.AnnotationMs() != 5000 {
		t.Errorf("lock not restored: %d", s.AnnotationMs())
	}
	persisted, _ := f.store.LoadDrawings(ctx)
	if len(persisted) != 0 {
		t.Errorf("orphan drawings left in store: %+v", persisted)
	}

	// the restored session can still submit
	if _, err := s.Submit(ctx, "hi"); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if len(s.Comments()) != 1 || len(s.Drawings()) != 1 {
		t.Errorf("retry did not land")
	}
}

func TestSubmitRollsBackOnDrawingSaveFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.ToggleDrawMode(ctx)
	f.draw(state.Point{X: 1})

	f.store.failDrawings = true
	if _, err := s.Submit(ctx, ""); err == nil {
		t.Fatal("expected error")
	}
	if got := f.store.saveOrder; len(got) != 1 || got[0] != "drawings" {
		t.Errorf("comment saved after drawing failure: %v", got)
	}
	if len(s.Comments()) != 0 || len(s.DrawingStrokes()) != 1 {
		t.Errorf("state not rolled back")
	}
}

func TestPauseFailureRollsBackDrawMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	f.store.SaveDrawings(ctx, []state.Stroke{{ID: "s1"}})
	f.store.SaveComments(ctx, []state.Comment{{ID: "c1", TimeMs: 0, DrawingIDs: []string{"s1"}}})
	s.Load(ctx)
	s.SeekTo(ctx, 0, "c1")

	f.player.FailNext = errBoom
	if err := s.ToggleDrawMode(ctx); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if s.Drawing() {
		t.Errorf("drawing mode survived failed pause")
	}
	if r, ok := s.Mode().(annotation.Reviewing); !ok || r.CommentID != "c1" {
		t.Errorf("overlay not restored: %#v", s.Mode())
	}
	s.TouchDown(state.Point{X: 1})
	if _, ok := s.CurrentStroke(); ok {
		t.Errorf("capture left active after rollback")
	}
}

func TestSeekFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.HandleTimeUpdate(1000, 60000)

	f.player.FailNext = errBoom
	if err := s.SeekTo(ctx, 9000, ""); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if s.Status().CurrentMs != 1000 {
		t.Errorf("playback = %d, want 1000", s.Status().CurrentMs)
	}
}

func TestSeekTargetStaysInsideVideo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session

	// No time update yet: the length comes from the player.
	if err := s.SeekTo(ctx, 90000, ""); err != nil {
		t.Fatalf("SeekTo past end: %v", err)
	}
	if got := s.AnnotationMs(); got != 60000 {
		t.Errorf("AnnotationMs = %d, want clamp to 60000", got)
	}
	if got := f.player.Status().CurrentMs; got != 60000 {
		t.Errorf("player at %d, want 60000", got)
	}

	if err := s.FocusComment(ctx); err != nil {
		t.Fatalf("FocusComment: %v", err)
	}
	c, err := s.Submit(ctx, "x")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.TimeMs != 60000 {
		t.Errorf("comment TimeMs = %d, want 60000", c.TimeMs)
	}

	s.HandleTimeUpdate(3000, 60000)
	if err := s.SeekTo(ctx, -500, ""); !errors.Is(err, player.ErrInvalidStatus) {
		t.Fatalf("SeekTo(-500) err = %v, want ErrInvalidStatus", err)
	}
	if got := s.AnnotationMs(); got != 3000 {
		t.Errorf("AnnotationMs = %d after rejected seek, want 3000", got)
	}

	if err := s.FocusComment(ctx); err != nil {
		t.Fatalf("FocusComment: %v", err)
	}
	c, err = s.Submit(ctx, "y")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.TimeMs < 0 || c.TimeMs > 60000 {
		t.Errorf("comment TimeMs = %d outside [0, 60000]", c.TimeMs)
	}
}

func TestTogglePlayReplaysAfterEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	f.player.Seek(ctx, 59950)

	s.HandleTimeUpdate(59950, 60000)
	if !s.Ended() {
		t.Fatal("Ended = false at 59950/60000")
	}
	if err := s.TogglePlay(ctx); err != nil {
		t.Fatalf("TogglePlay: %v", err)
	}
	st := f.player.Status()
	if st.CurrentMs != 0 || !st.IsPlaying {
		t.Errorf("player = %+v, want playing from 0", st)
	}
	if s.Ended() {
		t.Errorf("still ended")
	}

	s.HandleStatusChange(true)
	s.TogglePlay(ctx)
	if f.player.Status().IsPlaying {
		t.Errorf("second toggle did not pause")
	}
}

func TestInvalidTimeUpdateIgnored(t *testing.T) {
	f := newFixture(t)
	s := f.session
	s.HandleTimeUpdate(2000, 60000)

	if err := s.HandleTimeUpdate(-5, 60000); !errors.Is(err, player.ErrInvalidStatus) {
		t.Errorf("err = %v", err)
	}
	if s.Status().CurrentMs != 2000 {
		t.Errorf("invalid update applied")
	}
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session
	s.ToggleDrawMode(ctx)
	f.draw(state.Point{X: 1})
	s.Submit(ctx, "x")

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(s.Comments()) != 0 || len(s.Drawings()) != 0 || len(s.Visible()) != 0 {
		t.Errorf("state survived reset")
	}
	comments, drawings, _ := storage.LoadAll(ctx, f.store)
	if len(comments) != 0 || len(drawings) != 0 {
		t.Errorf("store survived reset")
	}
}

func TestLoadFailureLeavesEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.failLoad = true

	if err := f.session.Load(ctx); !errors.Is(err, errBoom) {
		t.Errorf("err = %v", err)
	}
	if len(f.session.Comments()) != 0 {
		t.Errorf("comments not empty")
	}
}

func TestCommentsSortedByTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session

	for _, ms := range []int64{9000, 1000, 5000} {
		s.HandleTimeUpdate(ms, 60000)
		if _, err := s.Submit(ctx, "note"); err != nil {
			t.Fatal(err)
		}
	}
	got := s.Comments()
	if got[0].TimeMs != 1000 || got[1].TimeMs != 5000 || got[2].TimeMs != 9000 {
		t.Errorf("order = %d,%d,%d", got[0].TimeMs, got[1].TimeMs, got[2].TimeMs)
	}
}

func TestNewSessionRequiresCollaborators(t *testing.T) {
	if _, err := annotation.NewSession(annotation.Options{Player: player.NewSimulated(0)}); err == nil {
		t.Error("expected error without store")
	}
	if _, err := annotation.NewSession(annotation.Options{Store: storage.NewMemory()}); err == nil {
		t.Error("expected error without player")
	}
}
