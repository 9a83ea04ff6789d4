package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/sushantdwivedi/Frame-io/internal/annotation"
	"github.com/sushantdwivedi/Frame-io/internal/config"
	"github.com/sushantdwivedi/Frame-io/internal/listing"
	"github.com/sushantdwivedi/Frame-io/internal/observability"
	"github.com/sushantdwivedi/Frame-io/internal/player"
	"github.com/sushantdwivedi/Frame-io/internal/state"
)

// commentEntry reports focus so composing can pause playback and lock the
// annotation time.
type commentEntry struct {
	widget.Entry
	onFocus func()
}

func newCommentEntry() *commentEntry {
	e := &commentEntry{}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.SetPlaceHolder("Leave a comment")
	e.ExtendBaseWidget(e)
	return e
}

func (e *commentEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus()
	}
}

// view owns the window's widgets. Every method runs on the fyne event
// goroutine, which is also the only goroutine touching the session.
type view struct {
	ctx     context.Context
	session *annotation.Session
	window  fyne.Window
	log     *slog.Logger

	overlay *OverlayWidget
	tools   *toolbar
	entry   *commentEntry
	stamp   *widget.Label
	post    *widget.Button
	list    *widget.List

	comments []state.Comment
}

// RunApp opens the review window and blocks until it is closed. The
// simulated player is ticked in the background and its status is handed to
// the session on the fyne goroutine.
func RunApp(ctx context.Context, cfg *config.Config, session *annotation.Session, sim *player.Simulated) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	myApp := app.New()
	myWindow := myApp.NewWindow("Frame-io Review")
	myWindow.Resize(fyne.NewSize(cfg.Surface.Width+320, cfg.Surface.Width*9/16+160))

	v := &view{
		ctx:     ctx,
		session: session,
		window:  myWindow,
		log:     observability.WithFields("component", "ui"),
	}
	v.build(cfg)
	session.OnChange = v.refresh
	v.refresh()

	go sim.Run(ctx, cfg.Video.Tick, func(st player.Status) {
		fyne.Do(func() { v.onStatus(st) })
	})

	myWindow.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			v.session.TouchCancel()
			v.session.CancelEditing()
		}
	})
	myWindow.ShowAndRun()
}

func (v *view) build(cfg *config.Config) {
	v.overlay = NewOverlayWidget(v.session)
	v.tools = newToolbar(v, cfg.Drawing.Color, cfg.Drawing.Width)

	video := canvas.NewRectangle(color.NRGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff})
	stage := container.NewStack(video, v.overlay)

	v.entry = newCommentEntry()
	v.entry.onFocus = v.focusComment
	v.entry.OnChanged = func(string) { v.refresh() }
	v.stamp = widget.NewLabel("")
	v.post = widget.NewButton("Post", v.submit)
	composer := container.NewBorder(nil, nil, v.stamp, v.post, v.entry)

	v.list = widget.NewList(
		func() int { return len(v.comments) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(commentLabel(v.comments[id]))
		},
	)
	v.list.OnSelected = func(id widget.ListItemID) {
		if id < len(v.comments) {
			c := v.comments[id]
			v.report(v.session.SeekTo(v.ctx, c.TimeMs, c.ID))
		}
		v.list.UnselectAll()
	}

	body := container.NewBorder(v.tools.object(), composer, nil, nil, stage)
	split := container.NewHSplit(body, v.list)
	split.Offset = 0.75
	v.window.SetContent(split)
}

func commentLabel(c state.Comment) string {
	text := c.Text
	if !c.HasText() {
		text = "(drawing only)"
	}
	if c.HasDrawings() {
		text += fmt.Sprintf(" [%d strokes]", len(c.DrawingIDs))
	}
	return listing.FormatTime(c.TimeMs) + "  " + c.User.Name + ": " + text
}

func (v *view) onStatus(st player.Status) {
	if err := v.session.HandleTimeUpdate(st.CurrentMs, st.DurationMs); err != nil {
		return
	}
	v.session.HandleStatusChange(st.IsPlaying)
}

func (v *view) togglePlay() {
	v.report(v.session.TogglePlay(v.ctx))
}

func (v *view) toggleDraw() {
	v.report(v.session.ToggleDrawMode(v.ctx))
}

func (v *view) focusComment() {
	v.report(v.session.FocusComment(v.ctx))
}

func (v *view) clearDrawing() {
	v.session.ClearDrawing()
}

func (v *view) submit() {
	_, err := v.session.Submit(v.ctx, v.entry.Text)
	if errors.Is(err, annotation.ErrEmptySubmission) {
		return
	}
	if v.report(err) {
		v.entry.SetText("")
	}
}

func (v *view) confirmReset() {
	dialog.ShowConfirm("Reset annotations", "Delete every comment and drawing?", func(ok bool) {
		if ok {
			v.report(v.session.Reset(v.ctx))
		}
	}, v.window)
}

// report shows a failed collaborator call as a non-fatal notice. It returns
// true when err is nil.
func (v *view) report(err error) bool {
	if err == nil {
		return true
	}
	v.log.Warn("operation failed", "error", err)
	dialog.ShowError(err, v.window)
	return false
}

func (v *view) refresh() {
	v.comments = v.session.Comments()
	v.list.Refresh()
	v.tools.refresh()
	v.overlay.Refresh()

	if _, editing := v.session.Mode().(annotation.Editing); editing {
		v.stamp.SetText("@ " + listing.FormatTime(v.session.AnnotationMs()))
	} else {
		v.stamp.SetText("")
	}
	if v.session.CanSubmit(v.entry.Text) {
		v.post.Enable()
	} else {
		v.post.Disable()
	}
}
