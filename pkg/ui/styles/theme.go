// Package styles provides the shared palette and styles for the netsight TUI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	// Primary accent color (teal)
	ColorAccent = lipgloss.Color("37")

	// Text colors
	ColorText       = lipgloss.Color("252") // Primary text
	ColorTextMuted  = lipgloss.Color("245") // Secondary/muted text
	ColorTextBright = lipgloss.Color("15")  // Bright/highlighted text

	// Semantic colors
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorSuccess = lipgloss.Color("42")

	ColorPlaceholder = lipgloss.Color("240")

	ColorBorder      = lipgloss.Color("37")
	ColorBorderMuted = lipgloss.Color("238")
)

// Panel styles
var (
	// BoxStyle is the default rounded box for forms and panels
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	// DockStyle frames the chat dock
	DockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderMuted)

	// DockFocusedStyle frames the chat dock while it owns the keyboard
	DockFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	TextMutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)
)

// Navigation
var (
	// NavSelectedStyle for the active navigation entry
	NavSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorTextBright).
				Background(ColorAccent).
				Bold(true).
				Padding(0, 1)

	// NavItemStyle for inactive navigation entries
	NavItemStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	// BannerStyle for the role banner in the header
	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)
)

// Form styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Width(10)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)
)

// Feedback styles
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Chat speaker styles
var (
	UserSpeakerStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	BotSpeakerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// StatusBarStyle is the bar pinned to the bottom of the screen
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#00806E")).
	Padding(0, 1).
	Bold(true)
