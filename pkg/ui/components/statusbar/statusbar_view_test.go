package statusbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestStatusBarView_SignedOut(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetMode("local_only")

	rendered := ansi.Strip(sb.Render())

	if !strings.Contains(rendered, "[netsight] signed out") {
		t.Errorf("Expected signed out marker, got %q", rendered)
	}
	if !strings.Contains(rendered, "[chat]: local_only") {
		t.Errorf("Expected chat mode, got %q", rendered)
	}
}

func TestStatusBarView_Session(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetSession("alice", "admin")

	rendered := ansi.Strip(sb.Render())
	if !strings.Contains(rendered, "alice (admin)") {
		t.Errorf("Expected user and role, got %q", rendered)
	}
}

func TestStatusBarView_MessageReplacesHints(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetMessage("Signing in…")

	rendered := ansi.Strip(sb.Render())
	if !strings.Contains(rendered, "Signing in…") {
		t.Error("Expected message in rendered output")
	}
	if strings.Contains(rendered, "Ctrl+L logout") {
		t.Error("Expected message to replace key hints")
	}
}

func TestStatusBarView_Width(t *testing.T) {
	tests := []struct {
		name  string
		width int
	}{
		{"narrow", 30},
		{"standard", 80},
		{"wide", 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := NewStatusBarView()
			sb.SetWidth(tt.width)
			sb.SetSession("a-very-long-user-name@example.com", "superuser")

			rendered := sb.Render()
			if got := ansi.StringWidth(rendered); got != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, got)
			}
			if tt.width == 30 && !strings.Contains(ansi.Strip(rendered), "...") {
				t.Error("Expected truncation marker on narrow bar")
			}
		})
	}
}
