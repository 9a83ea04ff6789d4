package annotation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

// MaxCommentRunes caps comment text.
const MaxCommentRunes = 500

// ErrEmptySubmission means there was neither text nor a stroke to submit.
// Callers disable their submit affordance with CanSubmit so this is only
// seen when that check is skipped; nothing is changed when it is returned.
var ErrEmptySubmission = errors.New("nothing to submit")

// Binder freezes an edit session's text and strokes into one comment whose
// drawing ids point at those strokes.
type Binder struct {
	IDs  state.IDGenerator
	Now  func() time.Time
	User state.User
}

// CanSubmit reports whether text or strokes give a comment content.
func CanSubmit(text string, strokes []state.Stroke) bool {
	return strings.TrimSpace(text) != "" || len(strokes) > 0
}

// Bind stamps every stroke with atMs and builds the comment referencing
// them. Strokes without an id are given one. The inputs are not modified.
func (b Binder) Bind(text string, working []state.Stroke, atMs int64) (state.Comment, []state.Stroke, error) {
	if !CanSubmit(text, working) {
		return state.Comment{}, nil, ErrEmptySubmission
	}
	ids := b.IDs
	if ids == nil {
		ids = state.UUIDGenerator{}
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}

	strokes := state.CloneStrokes(working)
	var drawingIDs []string
	for i := range strokes {
		if strokes[i].ID == "" {
			strokes[i].ID = ids.NewID("stroke")
		}
		strokes[i].TimeMs = atMs
		drawingIDs = append(drawingIDs, strokes[i].ID)
	}

	comment := state.Comment{
		ID:         ids.NewID("comment"),
		User:       b.User,
		TimeMs:     atMs,
		Text:       truncateRunes(strings.TrimSpace(text), MaxCommentRunes),
		DrawingIDs: drawingIDs,
		CreatedAt:  now().UnixMilli(),
	}
	if err := comment.Validate(); err != nil {
		return state.Comment{}, nil, fmt.Errorf("%w: %w", ErrEmptySubmission, err)
	}
	return comment, strokes, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
