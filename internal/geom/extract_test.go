package geom

import (
	"testing"

	"github.com/vandreev/wiredoom/internal/fixed"
)

// stubSource is a hand-built RenderSource for extractor tests.
type stubSource struct {
	width, height int
	eye           fixed.Unit
	center        fixed.Unit
	walls         []WallSeg
	sprites       []SpriteSeg
	overlay       OverlayMarker
	hasOverlay    bool
}

func (s *stubSource) ViewWidth() int           { return s.width }
func (s *stubSource) ViewHeight() int          { return s.height }
func (s *stubSource) EyeHeight() fixed.Unit    { return s.eye }
func (s *stubSource) ScreenCenter() fixed.Unit { return s.center }
func (s *stubSource) WallCount() int           { return len(s.walls) }
func (s *stubSource) Wall(i int) WallSeg       { return s.walls[i] }
func (s *stubSource) SpriteCount() int         { return len(s.sprites) }
func (s *stubSource) Sprite(i int) SpriteSeg   { return s.sprites[i] }
func (s *stubSource) Overlay() (OverlayMarker, bool) {
	return s.overlay, s.hasOverlay
}

func newStub() *stubSource {
	return &stubSource{
		width:  320,
		height: 200,
		eye:    fixed.FromInt(41),
		center: fixed.FromInt(100),
	}
}

func TestExtractWallProjection(t *testing.T) {
	src := newStub()
	src.walls = []WallSeg{{
		X1: 10, X2: 50,
		Scale1: fixed.One, Scale2: fixed.One,
		FrontCeil:  fixed.FromInt(64),
		FrontFloor: fixed.FromInt(0),
	}}

	frame := NewExtractor(ExtractorConfig{}).Extract(src)
	if len(frame.Walls) != 1 {
		t.Fatalf("expected 1 wall, got %d", len(frame.Walls))
	}

	w := frame.Walls[0]
	if w.XLeft != 10 || w.XRight != 50 {
		t.Errorf("columns = [%d, %d], expected [10, 50]", w.XLeft, w.XRight)
	}
	// center 100, ceiling 64 over eye 41 at scale 1.0: row 100-23 = 77
	if w.YTopLeft != 77 || w.YTopRight != 77 {
		t.Errorf("top rows = %d/%d, expected 77", w.YTopLeft, w.YTopRight)
	}
	// floor 0 is 41 below eye: row 100+41 = 141
	if w.YBottomLeft != 141 || w.YBottomRight != 141 {
		t.Errorf("bottom rows = %d/%d, expected 141", w.YBottomLeft, w.YBottomRight)
	}
	if w.Visibility != VisFull {
		t.Errorf("visibility = %v, expected full", w.Visibility)
	}
}

func TestExtractClampsRowsToFrame(t *testing.T) {
	src := newStub()
	src.walls = []WallSeg{{
		X1: 0, X2: 100,
		Scale1: fixed.FromInt(20), Scale2: fixed.FromInt(20),
		FrontCeil:  fixed.FromInt(128),
		FrontFloor: fixed.FromInt(0),
	}}

	frame := NewExtractor(ExtractorConfig{}).Extract(src)
	if len(frame.Walls) != 1 {
		t.Fatalf("expected 1 wall, got %d", len(frame.Walls))
	}

	w := frame.Walls[0]
	if w.YTopLeft < 0 || w.YBottomLeft > 199 {
		t.Errorf("rows [%d, %d] escape the frame", w.YTopLeft, w.YBottomLeft)
	}
	if w.YTopLeft != 0 {
		t.Errorf("huge scale should clamp top to 0, got %d", w.YTopLeft)
	}
	if w.YBottomLeft != 199 {
		t.Errorf("huge scale should clamp bottom to 199, got %d", w.YBottomLeft)
	}
}

func TestExtractDropsDegenerateAndOffscreen(t *testing.T) {
	solid := WallSeg{
		Scale1: fixed.One, Scale2: fixed.One,
		FrontCeil: fixed.FromInt(64), FrontFloor: 0,
	}

	tests := []struct {
		name   string
		mutate func(*WallSeg)
	}{
		{
			name:   "inverted columns",
			mutate: func(w *WallSeg) { w.X1, w.X2 = 50, 10 },
		},
		{
			name:   "entirely left of frame",
			mutate: func(w *WallSeg) { w.X1, w.X2 = -40, -1 },
		},
		{
			name:   "entirely right of frame",
			mutate: func(w *WallSeg) { w.X1, w.X2 = 320, 400 },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := newStub()
			seg := solid
			tc.mutate(&seg)
			src.walls = []WallSeg{seg}

			e := NewExtractor(ExtractorConfig{})
			frame := e.Extract(src)
			if len(frame.Walls) != 0 {
				t.Errorf("expected drop, got %d walls", len(frame.Walls))
			}
			if e.Stats().OffscreenDropped != 1 {
				t.Errorf("OffscreenDropped = %d, expected 1", e.Stats().OffscreenDropped)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		seg      WallSeg
		expected Visibility
	}{
		{
			name:     "no back sector is solid",
			seg:      WallSeg{HasBack: false},
			expected: VisFull,
		},
		{
			name: "equal heights are passable",
			seg: WallSeg{
				HasBack:    true,
				FrontCeil:  fixed.FromInt(128),
				FrontFloor: 0,
				BackCeil:   fixed.FromInt(128),
				BackFloor:  0,
			},
			expected: VisOpen,
		},
		{
			name: "floor step keeps lower silhouette",
			seg: WallSeg{
				HasBack:    true,
				FrontCeil:  fixed.FromInt(128),
				FrontFloor: 0,
				BackCeil:   fixed.FromInt(128),
				BackFloor:  fixed.FromInt(24),
			},
			expected: VisLowerOnly,
		},
		{
			name: "dropped ceiling keeps upper silhouette",
			seg: WallSeg{
				HasBack:    true,
				FrontCeil:  fixed.FromInt(128),
				FrontFloor: 0,
				BackCeil:   fixed.FromInt(72),
				BackFloor:  0,
			},
			expected: VisUpperOnly,
		},
		{
			name: "both differ is a full silhouette",
			seg: WallSeg{
				HasBack:    true,
				FrontCeil:  fixed.FromInt(128),
				FrontFloor: 0,
				BackCeil:   fixed.FromInt(72),
				BackFloor:  fixed.FromInt(24),
			},
			expected: VisFull,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.seg); got != tc.expected {
				t.Errorf("Classify() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestExtractDropsOpenBoundaries(t *testing.T) {
	src := newStub()
	src.walls = []WallSeg{{
		X1: 10, X2: 50,
		Scale1: fixed.One, Scale2: fixed.One,
		HasBack:    true,
		FrontCeil:  fixed.FromInt(128),
		FrontFloor: 0,
		BackCeil:   fixed.FromInt(128),
		BackFloor:  0,
	}}

	e := NewExtractor(ExtractorConfig{})
	frame := e.Extract(src)
	if len(frame.Walls) != 0 {
		t.Fatalf("open boundary emitted: %+v", frame.Walls)
	}
	if e.Stats().OpenDropped != 1 {
		t.Errorf("OpenDropped = %d, expected 1", e.Stats().OpenDropped)
	}
}

func TestDepthRankMonotonic(t *testing.T) {
	e := NewExtractor(ExtractorConfig{
		ScaleMin: 1 << 12,
		ScaleMax: 40 << fixed.Bits,
	})

	// Larger scale means nearer, which must never increase the rank.
	scales := []fixed.Unit{
		1, 1 << 12, 1 << 14, fixed.One, 4 << fixed.Bits, 40 << fixed.Bits, 100 << fixed.Bits,
	}
	prev := DepthMax + 1
	for _, s := range scales {
		rank := e.DepthRank(s)
		if rank < 0 || rank > DepthMax {
			t.Fatalf("DepthRank(%d) = %d, out of [0, %d]", s, rank, DepthMax)
		}
		if rank > prev {
			t.Errorf("DepthRank(%d) = %d, larger than rank %d of a smaller scale", s, rank, prev)
		}
		prev = rank
	}

	if r := e.DepthRank(40 << fixed.Bits); r != 0 {
		t.Errorf("rank at ScaleMax = %d, expected 0", r)
	}
	if r := e.DepthRank(1 << 12); r != DepthMax {
		t.Errorf("rank at ScaleMin = %d, expected %d", r, DepthMax)
	}
}

func TestExtractTruncatesAtCaps(t *testing.T) {
	src := newStub()
	for i := 0; i < 10; i++ {
		src.walls = append(src.walls, WallSeg{
			X1: i * 10, X2: i*10 + 5,
			Scale1: fixed.One, Scale2: fixed.One,
			FrontCeil: fixed.FromInt(64), FrontFloor: 0,
		})
		src.sprites = append(src.sprites, SpriteSeg{
			X1: i * 10, X2: i*10 + 5,
			Scale: fixed.One,
			TopZ:  fixed.FromInt(56), BottomZ: 0,
		})
	}

	e := NewExtractor(ExtractorConfig{MaxWalls: 4, MaxSprites: 3})
	frame := e.Extract(src)

	if len(frame.Walls) != 4 {
		t.Errorf("walls = %d, expected cap of 4", len(frame.Walls))
	}
	if len(frame.Sprites) != 3 {
		t.Errorf("sprites = %d, expected cap of 3", len(frame.Sprites))
	}
	st := e.Stats()
	if st.WallsTruncated != 6 {
		t.Errorf("WallsTruncated = %d, expected 6", st.WallsTruncated)
	}
	if st.SpritesTruncated != 7 {
		t.Errorf("SpritesTruncated = %d, expected 7", st.SpritesTruncated)
	}
}

func TestExtractSequenceIncrements(t *testing.T) {
	src := newStub()
	e := NewExtractor(ExtractorConfig{})
	for want := uint64(0); want < 5; want++ {
		frame := e.Extract(src)
		if frame.Sequence != want {
			t.Fatalf("sequence = %d, expected %d", frame.Sequence, want)
		}
	}
}

func TestExtractOverlayClamped(t *testing.T) {
	src := newStub()
	src.hasOverlay = true
	src.overlay = OverlayMarker{X: 1000, Y: -50, Visible: true}

	frame := NewExtractor(ExtractorConfig{}).Extract(src)
	if !frame.Overlay.Visible {
		t.Fatal("overlay should be visible")
	}
	if frame.Overlay.X != 319 || frame.Overlay.Y != 0 {
		t.Errorf("overlay = (%d, %d), expected clamped (319, 0)", frame.Overlay.X, frame.Overlay.Y)
	}
}
