package utils

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Truncate shortens styled text to width with an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return ansi.Truncate(text, width, "")
	}
	return ansi.Truncate(text, width, "...")
}

// Fit trims or pads plain text to exactly width cells.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// PadStyled pads styled text with spaces to width.
func PadStyled(text string, width int) string {
	if width <= 0 {
		return text
	}
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}

// Wrap word-wraps text to width, hard-breaking words that do not fit.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	wrapped := ansi.Wrap(sanitize(text), width, "")
	return strings.Split(wrapped, "\n")
}

// sanitize drops control characters other than newline and tab.
func sanitize(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range strings.ReplaceAll(content, "\r\n", "\n") {
		switch {
		case r == '\n':
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString("    ")
		case r < 0x20 || r == 0x7f:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
