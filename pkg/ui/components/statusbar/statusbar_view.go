package statusbar

import (
	"fmt"
	"strings"

	"netsight/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

// StatusBarView renders the bar pinned to the bottom of the screen.
type StatusBarView struct {
	user    string
	role    string
	mode    string
	message string
	width   int
}

// NewStatusBarView creates a status bar for a signed-out user.
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetSession updates the signed-in user and role. An empty user means
// signed out.
func (s *StatusBarView) SetSession(user, role string) {
	s.user = strings.TrimSpace(user)
	s.role = role
}

// SetMode updates the chat routing mode shown.
func (s *StatusBarView) SetMode(mode string) {
	s.mode = mode
}

// SetMessage sets a temporary message that replaces the key hints.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	who := "signed out"
	if s.user != "" {
		who = fmt.Sprintf("%s (%s)", s.user, s.role)
	}
	mode := s.mode
	if mode == "" {
		mode = "-"
	}

	tail := "Tab chat | Ctrl+L logout | Ctrl+C quit"
	if s.message != "" {
		tail = s.message
	}
	content := fmt.Sprintf("[netsight] %s | [chat]: %s | %s", who, mode, tail)

	// Truncate if too long (ANSI-aware width).
	maxWidth := s.width - 2
	if maxWidth < 10 {
		maxWidth = 10
	}
	if ansi.StringWidth(content) > maxWidth {
		content = ansi.Truncate(content, maxWidth, "...")
	}

	styled := styles.StatusBarStyle.Render(content)
	if w := ansi.StringWidth(styled); w < s.width {
		styled += strings.Repeat(" ", s.width-w)
	}
	return styled
}
