package chat

import "fmt"

// Mode selects where the backend sources its answer.
type Mode string

const (
	ModeLocalOnly   Mode = "local_only"
	ModeHybrid      Mode = "hybrid"
	ModeChatGPTOnly Mode = "chatgpt_only"
)

// DefaultMode is used until the user picks another one.
const DefaultMode = ModeLocalOnly

// Modes lists every routing mode in selector order.
var Modes = []Mode{ModeLocalOnly, ModeHybrid, ModeChatGPTOnly}

// ParseMode validates a raw mode string.
func ParseMode(raw string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown chat mode %q", raw)
}

// Label is the human name shown in the mode selector.
func (m Mode) Label() string {
	switch m {
	case ModeLocalOnly:
		return "Local only"
	case ModeHybrid:
		return "Hybrid (fallback)"
	case ModeChatGPTOnly:
		return "ChatGPT only"
	default:
		return string(m)
	}
}

// Next cycles to the following mode, wrapping around.
func (m Mode) Next() Mode {
	for i, candidate := range Modes {
		if candidate == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return DefaultMode
}
