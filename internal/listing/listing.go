// Package listing renders the comment list for terminals.
package listing

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4757")).Bold(true)
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

// FormatTime renders ms as mm:ss. Negative values render as 00:00.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Render lists comments ascending by timestamp, one per line.
func Render(comments []state.Comment) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n")
	if len(comments) == 0 {
		b.WriteString(mutedStyle.Render("No comments yet"))
		b.WriteString("\n")
		return b.String()
	}
	for _, c := range state.SortByTime(comments) {
		b.WriteString(Line(c))
		b.WriteString("\n")
	}
	return b.String()
}

// Line renders one comment.
func Line(c state.Comment) string {
	parts := []string{
		timestampStyle.Render(FormatTime(c.TimeMs)),
		nameStyle.Render(c.User.Name),
	}
	if c.HasText() {
		parts = append(parts, c.Text)
	} else {
		parts = append(parts, mutedStyle.Render("(drawing only)"))
	}
	if c.HasDrawings() {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("[%d strokes]", len(c.DrawingIDs))))
	}
	return strings.Join(parts, "  ")
}
