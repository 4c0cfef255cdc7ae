package geom

import "github.com/vandreev/wiredoom/internal/fixed"

// WallSeg is a read-only copy of one entry in the renderer's per-frame
// wall-span list: a screen column range, the perspective scale at each
// end, and the heights of the sectors on both sides of the boundary.
// All heights are world-space fixed-point values.
type WallSeg struct {
	X1, X2         int
	Scale1, Scale2 fixed.Unit
	FrontCeil      fixed.Unit
	FrontFloor     fixed.Unit
	HasBack        bool
	BackCeil       fixed.Unit
	BackFloor      fixed.Unit
}

// SpriteSeg is a read-only copy of one entry in the renderer's visible
// sprite list.
type SpriteSeg struct {
	X1, X2   int
	Scale    fixed.Unit
	TopZ     fixed.Unit
	BottomZ  fixed.Unit
	Category int
}

// RenderSource is a borrowed view over the renderer's current-frame
// internals. The lists behind it are owned by the renderer and valid only
// for the duration of one Extract call; implementations return values,
// never references, and the extractor retains nothing across calls.
type RenderSource interface {
	// ViewWidth and ViewHeight give the frame dimensions in pixels.
	ViewWidth() int
	ViewHeight() int

	// EyeHeight is the viewer's eye height in world space.
	EyeHeight() fixed.Unit

	// ScreenCenter is the fixed-point vertical screen center used for
	// projection (centery in the renderer).
	ScreenCenter() fixed.Unit

	WallCount() int
	Wall(i int) WallSeg

	SpriteCount() int
	Sprite(i int) SpriteSeg

	// Overlay returns the foreground marker for this frame, if any.
	Overlay() (OverlayMarker, bool)
}
