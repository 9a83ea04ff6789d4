package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sushantdwivedi/Frame-io/internal/listing"
	"github.com/sushantdwivedi/Frame-io/internal/stroke"
)

// palette is offered next to the draw toggle. The first entry matches the
// default brush colour.
var palette = []string{"#ff4757", "#ffa502", "#2ed573", "#1e90ff", "#ffffff", "#000000"}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	c, err := stroke.ParseHexColor(s.Hex)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	rect := canvas.NewRectangle(c)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// toolbar holds the playback and drawing controls. refresh re-reads the
// session so button labels follow the clock mode.
type toolbar struct {
	view *view

	play   *widget.Button
	draw   *widget.Button
	clear  *widget.Button
	time   *widget.Label
	colors *fyne.Container
	width  *widget.Slider

	brushColor string
	brushWidth float32
}

func newToolbar(v *view, brushColor string, width float32) *toolbar {
	t := &toolbar{view: v, brushColor: brushColor, brushWidth: width}

	t.play = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), v.togglePlay)
	t.draw = widget.NewButtonWithIcon("Draw", theme.DocumentCreateIcon(), v.toggleDraw)
	t.clear = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), v.clearDrawing)
	t.time = widget.NewLabel("00:00 / 00:00")

	onColor := func(hex string) {
		t.brushColor = hex
		v.session.SetBrush(t.brushColor, t.brushWidth)
	}
	t.colors = container.NewHBox()
	for _, hex := range palette {
		t.colors.Add(newColorSwatch(hex, onColor))
	}

	t.width = widget.NewSlider(1, 20)
	t.width.SetValue(float64(width))
	t.width.OnChanged = func(val float64) {
		t.brushWidth = float32(val)
		v.session.SetBrush(t.brushColor, t.brushWidth)
	}
	return t
}

func (t *toolbar) object() fyne.CanvasObject {
	slider := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), t.width)
	reset := widget.NewButtonWithIcon("Reset", theme.DeleteIcon(), t.view.confirmReset)
	return container.NewHBox(
		t.play,
		t.time,
		widget.NewSeparator(),
		t.draw,
		t.colors,
		slider,
		t.clear,
		layout.NewSpacer(),
		reset,
	)
}

func (t *toolbar) refresh() {
	s := t.view.session
	switch {
	case s.Ended():
		t.play.SetIcon(theme.MediaReplayIcon())
	case s.Status().IsPlaying:
		t.play.SetIcon(theme.MediaPauseIcon())
	default:
		t.play.SetIcon(theme.MediaPlayIcon())
	}

	st := s.Status()
	t.time.SetText(listing.FormatTime(st.CurrentMs) + " / " + listing.FormatTime(st.DurationMs))

	if s.Drawing() {
		t.draw.SetText("Done")
		t.draw.Importance = widget.HighImportance
		t.colors.Show()
		t.width.Show()
		t.clear.Show()
	} else {
		t.draw.SetText("Draw")
		t.draw.Importance = widget.MediumImportance
		t.colors.Hide()
		t.width.Hide()
		t.clear.Hide()
	}
	t.draw.Refresh()
}
