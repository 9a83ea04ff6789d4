package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/sushantdwivedi/Frame-io/internal/annotation"
	"github.com/sushantdwivedi/Frame-io/internal/state"
	"github.com/sushantdwivedi/Frame-io/internal/stroke"
)

// curveSteps is how many line segments approximate each quadratic curve.
const curveSteps = 8

// OverlayWidget sits over the video surface. It feeds pointer events to the
// session's gesture machine and paints whatever strokes the session says
// are visible, plus the stroke under the pointer.
type OverlayWidget struct {
	widget.BaseWidget
	session *annotation.Session
}

var _ fyne.Widget = (*OverlayWidget)(nil)
var _ fyne.Draggable = (*OverlayWidget)(nil)
var _ desktop.Mouseable = (*OverlayWidget)(nil)

func NewOverlayWidget(s *annotation.Session) *OverlayWidget {
	o := &OverlayWidget{session: s}
	o.ExtendBaseWidget(o)
	return o
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: p.X, Y: p.Y}
}

func (o *OverlayWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		o.session.TouchDown(toPoint(e.Position))
	}
}

func (o *OverlayWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		o.session.TouchUp()
	}
}

func (o *OverlayWidget) Dragged(e *fyne.DragEvent) {
	o.session.TouchMove(toPoint(e.Position))
}

func (o *OverlayWidget) DragEnd() {
	o.session.TouchUp()
}

func (o *OverlayWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &overlayRenderer{overlay: o}
	r.background = canvas.NewRectangle(color.Transparent)
	return r
}

type overlayRenderer struct {
	overlay    *OverlayWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *overlayRenderer) Objects() []fyne.CanvasObject {
	if r.objects == nil {
		r.rebuild()
	}
	return r.objects
}

func (r *overlayRenderer) rebuild() {
	s := r.overlay.session
	strokes := s.Visible()
	if cur, ok := s.CurrentStroke(); ok {
		strokes = append(strokes, cur)
	}

	objects := []fyne.CanvasObject{r.background}
	for _, st := range strokes {
		objects = append(objects, strokeObjects(st)...)
	}
	r.objects = objects
}

// strokeObjects flattens a stroke's smoothed path into fyne primitives.
// canvas.Line has butt ends, so round joins and caps are drawn as dots.
func strokeObjects(st state.Stroke) []fyne.CanvasObject {
	style := stroke.StyleOf(st)
	path := stroke.Build(st.Points, st.Width)
	lines, dots := stroke.Flatten(path, curveSteps)
	r := style.Width / 2

	var out []fyne.CanvasObject
	for _, poly := range lines {
		for i := 1; i < len(poly); i++ {
			seg := canvas.NewLine(style.Color)
			seg.StrokeWidth = style.Width
			seg.Position1 = fyne.NewPos(poly[i-1].X, poly[i-1].Y)
			seg.Position2 = fyne.NewPos(poly[i].X, poly[i].Y)
			out = append(out, seg)
		}
		if style.Join == stroke.JoinRound {
			for _, p := range poly[1 : len(poly)-1] {
				out = append(out, dot(p, r, style.Color))
			}
		}
	}
	if len(lines) > 0 && style.Cap == stroke.CapRound {
		start, _ := path.Start()
		end, _ := path.End()
		out = append(out, dot(start, r, style.Color), dot(end, r, style.Color))
	}
	for _, d := range dots {
		out = append(out, dot(d.To, d.Radius, style.Color))
	}
	return out
}

func dot(center state.Point, radius float32, c color.Color) fyne.CanvasObject {
	circle := canvas.NewCircle(c)
	circle.Position1 = fyne.NewPos(center.X-radius, center.Y-radius)
	circle.Position2 = fyne.NewPos(center.X+radius, center.Y+radius)
	return circle
}

func (r *overlayRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.overlay)
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.overlay.session.SetSurface(state.Surface{Width: size.Width, Height: size.Height})
}

func (r *overlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 180)
}

func (r *overlayRenderer) Destroy() {}
