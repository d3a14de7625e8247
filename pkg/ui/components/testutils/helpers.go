package testutils

import (
	tea "charm.land/bubbletea/v2"
)

// Key builds a KeyPressMsg for a special key code.
func Key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// Ctrl builds a KeyPressMsg for ctrl+char.
func Ctrl(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: char, Mod: tea.ModCtrl})
}

// Typed returns one KeyPressMsg per rune of text, as if typed.
func Typed(text string) []tea.KeyPressMsg {
	msgs := make([]tea.KeyPressMsg, 0, len(text))
	for _, r := range text {
		msgs = append(msgs, tea.KeyPressMsg(tea.Key{Code: r, Text: string(r)}))
	}
	return msgs
}

// Common keys
var (
	KeyEnter = Key(tea.KeyEnter)
	KeyTab   = Key(tea.KeyTab)
	KeyEsc   = Key(tea.KeyEscape)
	KeyUp    = Key(tea.KeyUp)
	KeyDown  = Key(tea.KeyDown)
	KeyCtrlC = Ctrl('c')
)
