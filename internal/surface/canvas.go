package surface

import "strings"

// Color is a foreground color for a canvas cell, resolved to concrete
// terminal styling by the platform layer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorNearWall
	ColorFarWall
	ColorCollectible
	ColorDecoration
	ColorEnemy
	ColorOverlay
)

// Cell is one canvas position.
type Cell struct {
	Rune  rune
	Color Color
}

// Canvas is a 2D cell buffer the cell surface rasterizes into. It
// decouples drawing from the terminal; the platform layer turns it into
// styled output.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas creates a cleared canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: width, height: height}
	c.allocate()
	c.Clear()
	return c
}

func (c *Canvas) allocate() {
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the canvas dimensions, discarding content.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear fills the canvas with blanks.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' ', Color: ColorDefault}
		}
	}
}

// Set places a cell. Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, col Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Cell{Rune: r, Color: col}
}

// Cell returns the cell at (x, y), or a blank for out-of-bounds reads.
func (c *Canvas) Cell(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' ', Color: ColorDefault}
	}
	return c.cells[y][x]
}

// Line rasterizes a segment with Bresenham stepping. A width above 1
// thickens the stroke by one cell perpendicular to its dominant axis.
func (c *Canvas) Line(x1, y1, x2, y2 int, r rune, col Color, width int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	thickY := dx >= -dy // mostly horizontal: thicken downward

	err := dx + dy
	x, y := x1, y1
	for {
		c.Set(x, y, r, col)
		if width > 1 {
			if thickY {
				c.Set(x, y+1, r, col)
			} else {
				c.Set(x+1, y, r, col)
			}
		}
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// String renders the canvas runes row by row, without styling.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height + c.height)
	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].Rune)
		}
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
