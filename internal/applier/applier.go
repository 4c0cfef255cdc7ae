// Package applier maps decoded frames onto the primitive pool. It is the
// single entry point for pool mutation: every frame ends with one present
// call, and no other component touches a slot.
package applier

import (
	"errors"

	"github.com/vandreev/wiredoom/internal/geom"
	"github.com/vandreev/wiredoom/internal/pool"
	"github.com/vandreev/wiredoom/internal/surface"
)

// edgesPerSpan is the wireframe-box edge count for walls and sprites.
// Boxes stay unfilled: filled quads would occlude geometry at other
// height levels sharing the same screen columns.
const edgesPerSpan = 4

// Config tunes the depth styling split.
type Config struct {
	// NearThreshold is the depth rank below which a span gets the near
	// styling (thick, foreground); at or above it the far styling.
	NearThreshold int

	NearWidth int
	FarWidth  int
}

// DefaultConfig mirrors the trace widths of the original plugin.
func DefaultConfig() Config {
	return Config{NearThreshold: 300, NearWidth: 2, FarWidth: 1}
}

// Stats counts applier activity.
type Stats struct {
	FramesApplied    uint64
	FramesStale      uint64
	WallsDrawn       uint64
	SpritesDrawn     uint64
	WallsTruncated   uint64
	SpritesTruncated uint64
}

// Applier consumes frames and drives the pool and surface.
type Applier struct {
	cfg     Config
	pool    *pool.Pool
	surf    surface.Surface
	lastSeq uint64
	applied bool
	stats   Stats
}

// New creates an applier over a pool and its surface.
func New(p *pool.Pool, surf surface.Surface, cfg Config) *Applier {
	if cfg.NearWidth <= 0 {
		cfg.NearWidth = 2
	}
	if cfg.FarWidth <= 0 {
		cfg.FarWidth = 1
	}
	return &Applier{cfg: cfg, pool: p, surf: surf}
}

// Stats returns a copy of the counters.
func (a *Applier) Stats() Stats {
	return a.stats
}

// Apply renders one frame into the pool and presents it. Frames older
// than the last applied sequence are dropped so a backlog can never roll
// the picture backwards. Returns false for a dropped frame.
func (a *Applier) Apply(f geom.Frame) bool {
	if a.applied && f.Sequence < a.lastSeq {
		a.stats.FramesStale++
		return false
	}
	a.lastSeq = f.Sequence
	a.applied = true

	wallsUsed := a.applyWalls(f.Walls)
	spritesUsed := a.applySprites(f.Sprites)
	overlayUsed := a.applyOverlay(f.Overlay)

	a.pool.HideUnused(surface.KindWall, wallsUsed)
	a.pool.HideUnused(surface.KindSprite, spritesUsed)
	a.pool.HideUnused(surface.KindOverlay, overlayUsed)

	a.surf.Present()
	a.stats.FramesApplied++
	return true
}

// applyWalls claims four wall slots per span: top, bottom, left and right
// edges of the projected quad.
func (a *Applier) applyWalls(walls []geom.WallSpan) int {
	used := 0
	for _, w := range walls {
		if w.Visibility == geom.VisOpen {
			continue // passable boundary, never drawn
		}
		width, layer := a.style(w.DepthRank)
		edges := [edgesPerSpan][4]int{
			{w.XLeft, w.YTopLeft, w.XRight, w.YTopRight},
			{w.XLeft, w.YBottomLeft, w.XRight, w.YBottomRight},
			{w.XLeft, w.YTopLeft, w.XLeft, w.YBottomLeft},
			{w.XRight, w.YTopRight, w.XRight, w.YBottomRight},
		}
		if !a.claimEdges(surface.KindWall, &used, edges, width, layer, nil) {
			a.stats.WallsTruncated++
			break
		}
		a.stats.WallsDrawn++
	}
	return used
}

// applySprites claims four sprite slots per span forming a rectangle
// centered on the sprite column.
func (a *Applier) applySprites(sprites []geom.SpriteSpan) int {
	used := 0
	for _, s := range sprites {
		width, layer := a.style(s.DepthRank)
		half := (s.YBottom - s.YTop) / 3
		if half < 1 {
			half = 1
		}
		left, right := s.XCenter-half, s.XCenter+half
		edges := [edgesPerSpan][4]int{
			{left, s.YTop, right, s.YTop},
			{left, s.YBottom, right, s.YBottom},
			{left, s.YTop, left, s.YBottom},
			{right, s.YTop, right, s.YBottom},
		}
		marker := markerFor(s.Category)
		if !a.claimEdges(surface.KindSprite, &used, edges, width, layer, marker) {
			a.stats.SpritesTruncated++
			break
		}
		a.stats.SpritesDrawn++
	}
	return used
}

// applyOverlay positions the foreground marker as a small cross.
func (a *Applier) applyOverlay(m geom.OverlayMarker) int {
	if !m.Visible {
		return 0
	}
	edges := [][4]int{
		{m.X - 2, m.Y, m.X + 2, m.Y},
		{m.X, m.Y - 1, m.X, m.Y + 1},
	}
	used := 0
	for _, e := range edges {
		prim, err := a.pool.Get(surface.KindOverlay, used)
		if err != nil {
			break
		}
		prim.SetEndpoints(e[0], e[1], e[2], e[3])
		prim.SetStyle(1, surface.LayerOverlay)
		prim.SetVisible(true)
		used++
	}
	return used
}

func (a *Applier) claimEdges(kind surface.Kind, used *int, edges [edgesPerSpan][4]int, width int, layer surface.Layer, marker *markerStyle) bool {
	if a.pool.Size(kind)-*used < edgesPerSpan {
		return false // keep spans whole: no partial boxes
	}
	for _, e := range edges {
		prim, err := a.pool.Get(kind, *used)
		if err != nil {
			// unreachable after the capacity check, but never crash the frame
			if errors.Is(err, pool.ErrExhausted) {
				return false
			}
			return false
		}
		prim.SetEndpoints(e[0], e[1], e[2], e[3])
		if marker != nil {
			if mp, ok := prim.(surface.MarkerPrimitive); ok {
				mp.SetMarker(marker.glyph, marker.color)
			}
		}
		prim.SetStyle(width, layer)
		prim.SetVisible(true)
		*used++
	}
	return true
}

func (a *Applier) style(depthRank int) (width int, layer surface.Layer) {
	if depthRank < a.cfg.NearThreshold {
		return a.cfg.NearWidth, surface.LayerForeground
	}
	return a.cfg.FarWidth, surface.LayerBackground
}
