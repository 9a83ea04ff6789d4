package listing

import (
	"strings"
	"testing"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

func TestFormatTime(t *testing.T) {
	tests := map[int64]string{
		-500:    "00:00",
		0:       "00:00",
		999:     "00:00",
		5000:    "00:05",
		65000:   "01:05",
		3599000: "59:59",
		6000000: "100:00",
	}
	for in, want := range tests {
		if got := FormatTime(in); got != want {
			t.Errorf("FormatTime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderOrdersByTime(t *testing.T) {
	out := Render([]state.Comment{
		{ID: "b", TimeMs: 65000, Text: "second", User: state.User{Name: "Noah"}},
		{ID: "a", TimeMs: 5000, Text: "first", User: state.User{Name: "Noah"}},
	})

	if !strings.Contains(out, "Comments (2)") {
		t.Errorf("missing header: %q", out)
	}
	first, second := strings.Index(out, "first"), strings.Index(out, "second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("comments out of order: %q", out)
	}
}

func TestLineDrawingOnly(t *testing.T) {
	line := Line(state.Comment{TimeMs: 12000, DrawingIDs: []string{"s1", "s2"}})
	if !strings.Contains(line, "00:12") || !strings.Contains(line, "(drawing only)") || !strings.Contains(line, "[2 strokes]") {
		t.Errorf("line = %q", line)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(nil); !strings.Contains(out, "No comments yet") {
		t.Errorf("out = %q", out)
	}
}
