package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vandreev/wiredoom/internal/codec"
)

// MapKey translates a terminal key message to the producer's key code.
// Returns false for keys the producer has no binding for; those stay
// local to the viewer.
func MapKey(msg tea.KeyMsg) (int, bool) {
	switch msg.String() {
	case "up":
		return codec.KeyUpArrow, true
	case "down":
		return codec.KeyDownArrow, true
	case "left":
		return codec.KeyLeftArrow, true
	case "right":
		return codec.KeyRightArrow, true
	case "enter":
		return codec.KeyEnter, true
	case "esc":
		return codec.KeyEscape, true
	case "tab":
		return codec.KeyTab, true
	case " ":
		return codec.KeyUse, true
	case "ctrl+f", "f":
		return codec.KeyFire, true
	}

	// Single printable runes pass through as their ASCII value, which is
	// how the producer expects wasd and the weapon digits.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return int(r), true
		}
	}

	return 0, false
}
