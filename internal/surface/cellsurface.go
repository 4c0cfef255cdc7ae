package surface

// segment is the cell-surface primitive: a styled line segment mutated in
// place every frame. Hidden segments keep their slot but rasterize
// nothing.
type segment struct {
	kind    Kind
	x1, y1  int
	x2, y2  int
	width   int
	layer   Layer
	visible bool
	glyph   rune
	color   Color
}

func (s *segment) SetEndpoints(x1, y1, x2, y2 int) {
	s.x1, s.y1, s.x2, s.y2 = x1, y1, x2, y2
}

func (s *segment) SetStyle(width int, layer Layer) {
	s.width = width
	s.layer = layer
	if s.glyph != 0 {
		return // marker styling pinned by SetMarker
	}
	s.color = defaultColor(s.kind, layer)
}

func (s *segment) SetVisible(v bool) {
	s.visible = v
}

func (s *segment) SetMarker(glyph rune, color Color) {
	s.glyph = glyph
	s.color = color
}

func defaultColor(kind Kind, layer Layer) Color {
	switch kind {
	case KindWall:
		if layer == LayerForeground {
			return ColorNearWall
		}
		return ColorFarWall
	case KindSprite:
		return ColorEnemy
	case KindOverlay:
		return ColorOverlay
	default:
		return ColorDefault
	}
}

func defaultGlyph(kind Kind, width int) rune {
	switch kind {
	case KindWall:
		if width > 1 {
			return '█'
		}
		return '░'
	case KindSprite:
		return '▫'
	case KindOverlay:
		return '+'
	default:
		return '·'
	}
}

// CellSurface renders primitives into a Canvas. Present rasterizes the
// display list back-to-front by layer, then invokes the present hook so
// the host can push the canvas to the terminal. All mutation must happen
// on the host's UI goroutine; the surface itself holds no lock.
type CellSurface struct {
	canvas   *Canvas
	segments []*segment
	frames   uint64
	onFrame  func()
}

// NewCellSurface creates a surface drawing into a canvas of the given
// frame dimensions. onFrame, if non-nil, runs after each rasterized
// frame.
func NewCellSurface(width, height int, onFrame func()) *CellSurface {
	return &CellSurface{
		canvas:  NewCanvas(width, height),
		onFrame: onFrame,
	}
}

// Canvas exposes the backing canvas for display.
func (cs *CellSurface) Canvas() *Canvas {
	return cs.canvas
}

// Frames returns how many presents have completed.
func (cs *CellSurface) Frames() uint64 {
	return cs.frames
}

// CreatePrimitives allocates n hidden segments of the given kind.
func (cs *CellSurface) CreatePrimitives(kind Kind, n int) []Primitive {
	prims := make([]Primitive, n)
	for i := range prims {
		seg := &segment{kind: kind, color: defaultColor(kind, LayerBackground)}
		cs.segments = append(cs.segments, seg)
		prims[i] = seg
	}
	return prims
}

// Present rasterizes every visible segment, background layer first so
// near geometry overdraws far geometry and the overlay lands on top.
func (cs *CellSurface) Present() {
	cs.canvas.Clear()
	for _, layer := range []Layer{LayerBackground, LayerForeground, LayerOverlay} {
		for _, seg := range cs.segments {
			if !seg.visible || seg.layer != layer || seg.width <= 0 {
				continue
			}
			glyph := seg.glyph
			if glyph == 0 {
				glyph = defaultGlyph(seg.kind, seg.width)
			}
			cs.canvas.Line(seg.x1, seg.y1, seg.x2, seg.y2, glyph, seg.color, seg.width)
		}
	}
	cs.frames++
	if cs.onFrame != nil {
		cs.onFrame()
	}
}
