package ui

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/sushantdwivedi/Frame-io/internal/annotation"
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/storage"
)

func newTestSession(t *testing.T) *annotation.Session {
	t.Helper()
	s, err := annotation.NewSession(annotation.Options{
		Store:   storage.NewMemory(),
		Player:  player.NewSimulated(10000),
		Surface: state.NewSurface(640),
		Color:   "#ff4757",
		Width:   3,
		IDs:     &state.CounterGenerator{},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestOverlayFeedsGesture(t *testing.T) {
	s := newTestSession(t)
	o := &OverlayWidget{session: s}

	if err := s.ToggleDrawMode(context.Background()); err != nil {
		t.Fatalf("ToggleDrawMode: %v", err)
	}

	o.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Button:     desktop.MouseButtonPrimary,
	})
	o.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}})
	o.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 25)}})
	o.DragEnd()

	got := s.DrawingStrokes()
	if len(got) != 1 {
		t.Fatalf("expected 1 working stroke, got %d", len(got))
	}
	if n := len(got[0].Points); n != 3 {
		t.Errorf("expected 3 points, got %d", n)
	}

	// A mouse up after the drag has already finished the stroke is ignored.
	o.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	if len(s.DrawingStrokes()) != 1 {
		t.Errorf("duplicate stroke after mouse up")
	}
}

func TestOverlayIgnoresSecondaryButton(t *testing.T) {
	s := newTestSession(t)
	o := &OverlayWidget{session: s}
	if err := s.ToggleDrawMode(context.Background()); err != nil {
		t.Fatalf("ToggleDrawMode: %v", err)
	}

	o.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Button:     desktop.MouseButtonSecondary,
	})
	if _, ok := s.CurrentStroke(); ok {
		t.Error("secondary button started a stroke")
	}
}

func TestOverlayDoesNothingOutsideDrawingMode(t *testing.T) {
	s := newTestSession(t)
	o := &OverlayWidget{session: s}

	o.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Button:     desktop.MouseButtonPrimary,
	})
	o.DragEnd()
	if len(s.DrawingStrokes()) != 0 {
		t.Error("stroke captured while not drawing")
	}
}

func TestStrokeObjects(t *testing.T) {
	dot := state.Stroke{Color: "#00ff00", Width: 6, Points: []state.Point{{X: 5, Y: 5}}}
	objs := strokeObjects(dot)
	if len(objs) != 1 {
		t.Fatalf("single point: expected 1 object, got %d", len(objs))
	}
	c, ok := objs[0].(*canvas.Circle)
	if !ok {
		t.Fatalf("single point: expected circle, got %T", objs[0])
	}
	if c.Position1 != fyne.NewPos(2, 2) || c.Position2 != fyne.NewPos(8, 8) {
		t.Errorf("dot bounds = %v..%v", c.Position1, c.Position2)
	}

	line := state.Stroke{Color: "#ff0000", Width: 2, Points: []state.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	var lines int
	var caps []*canvas.Circle
	for _, o := range strokeObjects(line) {
		switch v := o.(type) {
		case *canvas.Line:
			lines++
			if v.StrokeWidth != 2 {
				t.Errorf("line width = %v", v.StrokeWidth)
			}
		case *canvas.Circle:
			caps = append(caps, v)
		}
	}
	if lines != 1 {
		t.Errorf("two points: expected 1 line, got %d", lines)
	}
	if len(caps) != 2 {
		t.Fatalf("two points: expected 2 round caps, got %d", len(caps))
	}
	if caps[0].Position1 != fyne.NewPos(-1, -1) || caps[1].Position2 != fyne.NewPos(11, 1) {
		t.Errorf("caps at %v and %v", caps[0].Position1, caps[1].Position2)
	}
}
