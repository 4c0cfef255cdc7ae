// Package surface defines the narrow graphical-surface contract the frame
// applier draws against, plus a terminal cell-buffer implementation of it.
// The applier depends only on this contract, never on the host UI.
package surface

// Kind is the category of a primitive, fixed at creation.
type Kind int

const (
	KindWall Kind = iota
	KindSprite
	KindOverlay
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSprite:
		return "sprite"
	case KindOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Layer selects the drawing plane of a primitive. Background is drawn
// first, overlay last.
type Layer int

const (
	LayerBackground Layer = iota
	LayerForeground
	LayerOverlay
)

// Primitive is one reusable graphical object. Primitives are created once
// and recycled by mutation; destroying and recreating them per frame is
// the cost this whole design exists to avoid.
type Primitive interface {
	// SetEndpoints positions the primitive as a segment from (x1,y1) to
	// (x2,y2) in frame coordinates.
	SetEndpoints(x1, y1, x2, y2 int)

	// SetStyle sets the stroke width and drawing layer.
	SetStyle(width int, layer Layer)

	// SetVisible shows or hides the primitive without destroying it.
	SetVisible(v bool)
}

// MarkerPrimitive is an optional extension for surfaces that can render a
// distinct glyph per entity category. Appliers type-assert for it.
type MarkerPrimitive interface {
	SetMarker(glyph rune, color Color)
}

// Surface is the host drawing API: a fixed set of primitives mutated in
// place, and a single present call per frame.
type Surface interface {
	// CreatePrimitives allocates n primitives of the given kind. Called
	// once per category at startup.
	CreatePrimitives(kind Kind, n int) []Primitive

	// Present commits the current primitive state to the visible frame.
	// Exactly one call per applied frame.
	Present()
}
