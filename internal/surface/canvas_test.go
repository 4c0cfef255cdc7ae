package surface

import (
	"strings"
	"testing"
)

func TestCanvasSetAndCell(t *testing.T) {
	c := NewCanvas(10, 5)

	c.Set(3, 2, '#', ColorNearWall)
	cell := c.Cell(3, 2)
	if cell.Rune != '#' || cell.Color != ColorNearWall {
		t.Errorf("Cell(3,2) = %+v, expected '#' near-wall", cell)
	}

	if got := c.Cell(0, 0); got.Rune != ' ' {
		t.Errorf("untouched cell = %q, expected blank", got.Rune)
	}
}

func TestCanvasBoundsAreSilent(t *testing.T) {
	c := NewCanvas(10, 5)

	// None of these may panic or write anywhere.
	c.Set(-1, 0, 'x', ColorDefault)
	c.Set(0, -1, 'x', ColorDefault)
	c.Set(10, 0, 'x', ColorDefault)
	c.Set(0, 5, 'x', ColorDefault)

	if got := c.Cell(-1, 0); got.Rune != ' ' {
		t.Errorf("out-of-bounds read = %q, expected blank", got.Rune)
	}
	if strings.ContainsRune(c.String(), 'x') {
		t.Error("out-of-bounds write landed on the canvas")
	}
}

func TestCanvasLine(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		check          [][2]int
	}{
		{
			name: "horizontal",
			x1:   1, y1: 2, x2: 5, y2: 2,
			check: [][2]int{{1, 2}, {3, 2}, {5, 2}},
		},
		{
			name: "vertical",
			x1:   4, y1: 0, x2: 4, y2: 4,
			check: [][2]int{{4, 0}, {4, 2}, {4, 4}},
		},
		{
			name: "diagonal",
			x1:   0, y1: 0, x2: 4, y2: 4,
			check: [][2]int{{0, 0}, {2, 2}, {4, 4}},
		},
		{
			name: "single point",
			x1:   3, y1: 3, x2: 3, y2: 3,
			check: [][2]int{{3, 3}},
		},
		{
			name: "reversed endpoints",
			x1:   5, y1: 2, x2: 1, y2: 2,
			check: [][2]int{{1, 2}, {5, 2}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCanvas(8, 6)
			c.Line(tc.x1, tc.y1, tc.x2, tc.y2, '#', ColorFarWall, 1)
			for _, pt := range tc.check {
				if got := c.Cell(pt[0], pt[1]); got.Rune != '#' {
					t.Errorf("cell (%d,%d) = %q, expected '#'", pt[0], pt[1], got.Rune)
				}
			}
		})
	}
}

func TestCanvasLineClipsAtEdges(t *testing.T) {
	c := NewCanvas(10, 5)
	// Endpoints beyond the canvas: drawing must not panic, in-bounds part
	// must land.
	c.Line(-5, 2, 14, 2, '#', ColorDefault, 1)
	if got := c.Cell(0, 2); got.Rune != '#' {
		t.Errorf("cell (0,2) = %q, expected '#'", got.Rune)
	}
	if got := c.Cell(9, 2); got.Rune != '#' {
		t.Errorf("cell (9,2) = %q, expected '#'", got.Rune)
	}
}

func TestCanvasLineThickness(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Line(1, 1, 8, 1, '#', ColorDefault, 2)

	// Horizontal stroke thickens downward by one row.
	if got := c.Cell(4, 1); got.Rune != '#' {
		t.Error("primary row missing")
	}
	if got := c.Cell(4, 2); got.Rune != '#' {
		t.Error("thickened row missing")
	}
	if got := c.Cell(4, 3); got.Rune == '#' {
		t.Error("stroke thicker than 2")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Line(0, 0, 3, 3, '#', ColorEnemy, 1)
	c.Clear()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := c.Cell(x, y); got.Rune != ' ' || got.Color != ColorDefault {
				t.Fatalf("cell (%d,%d) = %+v after Clear", x, y, got)
			}
		}
	}
}
