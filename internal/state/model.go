package state

import (
	"errors"
	"sort"
	"strings"
)

// Point is a surface-local pixel coordinate.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Stroke is one freehand gesture tagged with the annotation timestamp it
// belongs to. TimeMs is the video position the stroke was drawn against,
// not the moment the finger moved.
type Stroke struct {
	ID     string  `json:"id"`
	TimeMs int64   `json:"timeMs"`
	Color  string  `json:"color"`
	Width  float32 `json:"width"`
	Points []Point `json:"points"`
}

// User identifies the author of a comment.
type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Comment is a timestamped annotation. DrawingIDs is the only link between a
// comment and its strokes; strokes carry no back-reference.
type Comment struct {
	ID         string   `json:"id"`
	User       User     `json:"user"`
	TimeMs     int64    `json:"timeMs"`
	Text       string   `json:"text,omitempty"`
	DrawingIDs []string `json:"drawingIds,omitempty"`
	CreatedAt  int64    `json:"createdAt"`
}

// ErrEmptyComment is returned for a comment that has neither text nor drawings.
var ErrEmptyComment = errors.New("comment has no text and no drawings")

// HasText reports whether the comment carries non-blank text.
func (c Comment) HasText() bool {
	return strings.TrimSpace(c.Text) != ""
}

// HasDrawings reports whether the comment references at least one stroke.
func (c Comment) HasDrawings() bool {
	return len(c.DrawingIDs) > 0
}

// Validate checks that the comment carries content.
func (c Comment) Validate() error {
	if !c.HasText() && !c.HasDrawings() {
		return ErrEmptyComment
	}
	return nil
}

// Clone returns a deep copy so the caller may stamp or mutate it freely.
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = append([]Point(nil), s.Points...)
	return out
}

// CloneStrokes deep-copies a stroke slice.
func CloneStrokes(strokes []Stroke) []Stroke {
	if strokes == nil {
		return nil
	}
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}

// SortByTime returns the comments ordered ascending by TimeMs. Comments with
// equal timestamps keep their input order.
func SortByTime(comments []Comment) []Comment {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeMs < sorted[j].TimeMs
	})
	return sorted
}

// FilterStrokes returns the strokes whose ids appear in ids, in the order
// they appear in strokes.
func FilterStrokes(strokes []Stroke, ids []string) []Stroke {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []Stroke
	for _, s := range strokes {
		if _, ok := want[s.ID]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}
