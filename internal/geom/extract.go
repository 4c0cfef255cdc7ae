package geom

import "github.com/vandreev/wiredoom/internal/fixed"

// ExtractorConfig carries the tunables of the extraction pass. The depth
// reference range and emission caps were empirically tuned in the original
// renderer, so they live in configuration rather than as constants here.
type ExtractorConfig struct {
	// ScaleMin and ScaleMax bound the perspective-scale reference range
	// for depth ranking. Scales above ScaleMax rank 0 (nearest); scales
	// below ScaleMin rank DepthMax.
	ScaleMin fixed.Unit
	ScaleMax fixed.Unit

	// MaxWalls and MaxSprites cap per-frame emission. Extra spans are
	// truncated, counted, and otherwise ignored.
	MaxWalls   int
	MaxSprites int
}

// Stats counts extraction diagnostics across the life of an Extractor.
type Stats struct {
	Frames           uint64
	WallsEmitted     uint64
	SpritesEmitted   uint64
	WallsTruncated   uint64
	SpritesTruncated uint64
	OpenDropped      uint64
	OffscreenDropped uint64
}

// Extractor turns the renderer's per-frame internals into Frame values.
// It owns its sequence counter and diagnostics explicitly; there is no
// process-wide frame counter.
type Extractor struct {
	cfg   ExtractorConfig
	seq   uint64
	stats Stats
}

// NewExtractor creates an extractor with the given tuning.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.MaxWalls <= 0 {
		cfg.MaxWalls = 128
	}
	if cfg.MaxSprites <= 0 {
		cfg.MaxSprites = 32
	}
	if cfg.ScaleMax <= cfg.ScaleMin {
		cfg.ScaleMin = 1 << 12
		cfg.ScaleMax = 40 << fixed.Bits
	}
	return &Extractor{cfg: cfg}
}

// Stats returns a copy of the accumulated diagnostics.
func (e *Extractor) Stats() Stats {
	return e.stats
}

// Extract walks src once and produces a frame. src is only borrowed; no
// reference into it survives the call.
func (e *Extractor) Extract(src RenderSource) Frame {
	width := src.ViewWidth()
	height := src.ViewHeight()
	eye := src.EyeHeight()
	center := src.ScreenCenter()

	frame := Frame{Sequence: e.seq}
	e.seq++
	e.stats.Frames++

	for i := 0; i < src.WallCount(); i++ {
		seg := src.Wall(i)

		if seg.X1 > seg.X2 || seg.X2 < 0 || seg.X1 >= width {
			e.stats.OffscreenDropped++
			continue
		}

		vis := Classify(seg)
		if vis == VisOpen {
			e.stats.OpenDropped++
			continue
		}

		if len(frame.Walls) >= e.cfg.MaxWalls {
			e.stats.WallsTruncated++
			continue
		}

		span := WallSpan{
			XLeft:        fixed.ClampInt(seg.X1, 0, width-1),
			XRight:       fixed.ClampInt(seg.X2, 0, width-1),
			YTopLeft:     e.clampRow(fixed.ProjectRow(center, seg.FrontCeil, eye, seg.Scale1), height),
			YBottomLeft:  e.clampRow(fixed.ProjectRow(center, seg.FrontFloor, eye, seg.Scale1), height),
			YTopRight:    e.clampRow(fixed.ProjectRow(center, seg.FrontCeil, eye, seg.Scale2), height),
			YBottomRight: e.clampRow(fixed.ProjectRow(center, seg.FrontFloor, eye, seg.Scale2), height),
			DepthRank:    e.DepthRank(seg.Scale1),
			Visibility:   vis,
		}
		frame.Walls = append(frame.Walls, span)
		e.stats.WallsEmitted++
	}

	for i := 0; i < src.SpriteCount(); i++ {
		seg := src.Sprite(i)

		if seg.X2 < 0 || seg.X1 >= width {
			e.stats.OffscreenDropped++
			continue
		}

		if len(frame.Sprites) >= e.cfg.MaxSprites {
			e.stats.SpritesTruncated++
			continue
		}

		span := SpriteSpan{
			XCenter:   fixed.ClampInt((seg.X1+seg.X2)/2, 0, width-1),
			YTop:      e.clampRow(fixed.ProjectRow(center, seg.TopZ, eye, seg.Scale), height),
			YBottom:   e.clampRow(fixed.ProjectRow(center, seg.BottomZ, eye, seg.Scale), height),
			Height:    (seg.TopZ - seg.BottomZ).ToInt(),
			Category:  seg.Category,
			DepthRank: e.DepthRank(seg.Scale),
		}
		frame.Sprites = append(frame.Sprites, span)
		e.stats.SpritesEmitted++
	}

	if marker, ok := src.Overlay(); ok {
		marker.X = fixed.ClampInt(marker.X, 0, width-1)
		marker.Y = fixed.ClampInt(marker.Y, 0, height-1)
		frame.Overlay = marker
	}

	return frame
}

// DepthRank maps a perspective scale to a rank in [0, DepthMax]. Scale is
// inversely proportional to distance, so larger scales rank lower
// (nearer). The same mapping serves walls and sprites, keeping their
// ranks comparable.
func (e *Extractor) DepthRank(scale fixed.Unit) int {
	s := fixed.Clamp(scale, e.cfg.ScaleMin, e.cfg.ScaleMax)
	span := int64(e.cfg.ScaleMax - e.cfg.ScaleMin)
	return DepthMax - int(int64(s-e.cfg.ScaleMin)*DepthMax/span)
}

// Classify determines the visibility class of a wall boundary. A boundary
// with no back sector is solid; one whose back sector matches both heights
// exactly is passable and dropped. A back sector differing in floor height
// keeps the step riser, in ceiling height the overhead ledge, and in both
// the full silhouette.
func Classify(seg WallSeg) Visibility {
	if !seg.HasBack {
		return VisFull
	}
	floorDiff := seg.BackFloor != seg.FrontFloor
	ceilDiff := seg.BackCeil != seg.FrontCeil
	switch {
	case floorDiff && ceilDiff:
		return VisFull
	case floorDiff:
		return VisLowerOnly
	case ceilDiff:
		return VisUpperOnly
	default:
		return VisOpen
	}
}

func (e *Extractor) clampRow(row, height int) int {
	return fixed.ClampInt(row, 0, height-1)
}
