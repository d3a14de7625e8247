package ui

import (
	"charm.land/lipgloss/v2"
)

const (
	headerHeight    = 1
	navHeight       = 1
	statusBarHeight = 1
	minDockHeight   = 8
	maxDockHeight   = 16
)

// LayoutManager splits the terminal between header, navigation, page body,
// chat dock and status bar.
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// DockHeight returns the outer height of the chat dock: about 40% of the
// screen, clamped.
func (lm *LayoutManager) DockHeight() int {
	h := lm.height * 2 / 5
	if h < minDockHeight {
		h = minDockHeight
	}
	if h > maxDockHeight {
		h = maxDockHeight
	}
	return h
}

// BodyHeight returns the lines left for the page body.
func (lm *LayoutManager) BodyHeight() int {
	h := lm.height - headerHeight - navHeight - statusBarHeight - lm.DockHeight()
	if h < 1 {
		return 1
	}
	return h
}

// RenderLayout stacks the sections, fixing the body to its height so the
// dock and status bar stay put.
func (lm *LayoutManager) RenderLayout(header, nav, body, dock, status string) string {
	body = lipgloss.NewStyle().
		Width(lm.width).
		Height(lm.BodyHeight()).
		MaxHeight(lm.BodyHeight()).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, nav, body, dock, status)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}
