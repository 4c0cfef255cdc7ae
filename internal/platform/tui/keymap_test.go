package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vandreev/wiredoom/internal/codec"
)

func TestMapKey(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected int
		ok       bool
	}{
		{
			name:     "up arrow",
			msg:      tea.KeyMsg{Type: tea.KeyUp},
			expected: codec.KeyUpArrow,
			ok:       true,
		},
		{
			name:     "down arrow",
			msg:      tea.KeyMsg{Type: tea.KeyDown},
			expected: codec.KeyDownArrow,
			ok:       true,
		},
		{
			name:     "left arrow",
			msg:      tea.KeyMsg{Type: tea.KeyLeft},
			expected: codec.KeyLeftArrow,
			ok:       true,
		},
		{
			name:     "right arrow",
			msg:      tea.KeyMsg{Type: tea.KeyRight},
			expected: codec.KeyRightArrow,
			ok:       true,
		},
		{
			name:     "space is use",
			msg:      tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
			expected: codec.KeyUse,
			ok:       true,
		},
		{
			name:     "f is fire",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}},
			expected: codec.KeyFire,
			ok:       true,
		},
		{
			name:     "enter",
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: codec.KeyEnter,
			ok:       true,
		},
		{
			name:     "escape",
			msg:      tea.KeyMsg{Type: tea.KeyEsc},
			expected: codec.KeyEscape,
			ok:       true,
		},
		{
			name:     "wasd passes through as ascii",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}},
			expected: 'w',
			ok:       true,
		},
		{
			name:     "weapon digit passes through",
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}},
			expected: '3',
			ok:       true,
		},
		{
			name: "unbound key stays local",
			msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}},
			ok:   false,
		},
		{
			name: "ctrl combo stays local",
			msg:  tea.KeyMsg{Type: tea.KeyCtrlX},
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MapKey(tc.msg)
			if ok != tc.ok {
				t.Fatalf("MapKey(%q) ok = %v, expected %v", tc.msg.String(), ok, tc.ok)
			}
			if ok && got != tc.expected {
				t.Errorf("MapKey(%q) = %#x, expected %#x", tc.msg.String(), got, tc.expected)
			}
		})
	}
}
