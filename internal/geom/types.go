// Package geom defines the vector frame model shared by both ends of the
// bridge and the extractor that builds frames from the renderer's
// per-frame internals.
package geom

// Visibility classifies a wall boundary by the relative heights of the two
// sectors it separates. Open boundaries are passable and never drawn;
// LowerOnly/UpperOnly mark step risers and overhead ledges, which must be
// drawn or stairs and window detail visibly disappear.
type Visibility int

const (
	VisOpen Visibility = iota
	VisLowerOnly
	VisUpperOnly
	VisFull
)

// String returns a short name for the visibility class.
func (v Visibility) String() string {
	switch v {
	case VisOpen:
		return "open"
	case VisLowerOnly:
		return "lower"
	case VisUpperOnly:
		return "upper"
	case VisFull:
		return "full"
	default:
		return "unknown"
	}
}

// Valid reports whether v is one of the defined classes.
func (v Visibility) Valid() bool {
	return v >= VisOpen && v <= VisFull
}

// DepthMax is the largest depth rank; ranks run 0 (nearest) to 999
// (farthest or beyond the far plane).
const DepthMax = 999

// WallSpan is one visible wall segment, already projected to a screen
// column range. Rows are clamped into the visible frame before emission.
type WallSpan struct {
	XLeft        int
	YTopLeft     int
	YBottomLeft  int
	XRight       int
	YTopRight    int
	YBottomRight int
	DepthRank    int
	Visibility   Visibility
}

// SpriteSpan is one visible billboard entity.
type SpriteSpan struct {
	XCenter   int
	YTop      int
	YBottom   int
	Height    int // world-space height in map units, for marker sizing
	Category  int
	DepthRank int
}

// OverlayMarker is the single foreground indicator (the player's weapon in
// the original renderer).
type OverlayMarker struct {
	X       int
	Y       int
	Visible bool
}

// Frame is the unit of transport: everything extracted from one simulated
// tick. Spans are not pre-sorted by depth; draw order is the consumer's
// concern.
type Frame struct {
	Sequence uint64
	Walls    []WallSpan
	Sprites  []SpriteSpan
	Overlay  OverlayMarker
}

// Equal reports whether two frames are identical field for field.
// Used by codec round-trip tests; nil and empty span slices compare equal.
func (f Frame) Equal(other Frame) bool {
	if f.Sequence != other.Sequence || f.Overlay != other.Overlay {
		return false
	}
	if len(f.Walls) != len(other.Walls) || len(f.Sprites) != len(other.Sprites) {
		return false
	}
	for i := range f.Walls {
		if f.Walls[i] != other.Walls[i] {
			return false
		}
	}
	for i := range f.Sprites {
		if f.Sprites[i] != other.Sprites[i] {
			return false
		}
	}
	return true
}
