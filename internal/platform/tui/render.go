package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vandreev/wiredoom/internal/surface"
)

// colorStyles maps surface colors to lipgloss styles.
var colorStyles = map[surface.Color]lipgloss.Style{
	surface.ColorDefault:     lipgloss.NewStyle(),
	surface.ColorNearWall:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	surface.ColorFarWall:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	surface.ColorCollectible: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	surface.ColorDecoration:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	surface.ColorEnemy:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	surface.ColorOverlay:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderCanvas(c *surface.Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			cell := c.Cell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < c.Width() {
				cell = c.Cell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[surface.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
