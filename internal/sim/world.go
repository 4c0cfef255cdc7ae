package sim

import (
	"math"

	"github.com/vandreev/wiredoom/internal/codec"
	"github.com/vandreev/wiredoom/internal/fixed"
	"github.com/vandreev/wiredoom/internal/geom"
)

// eyeAboveFloor is the viewer's eye height over the floor, in map units,
// matching the upstream renderer.
const eyeAboveFloor = 41

// nearClip is the minimum forward distance before a wall endpoint is
// clipped, in map units.
const nearClip = 4.0

const (
	moveSpeed = 6.0          // map units per tick
	turnSpeed = math.Pi / 60 // radians per tick
)

// World is the producer's simulation state plus the per-tick render lists
// the extractor borrows. All state is instance-owned; there are no
// process-wide counters or key buffers.
type World struct {
	width  int
	height int
	focal  float64

	px, py float64
	angle  float64
	bob    float64

	held map[int]bool

	// rebuilt every Advance; borrowed read-only by the extractor
	walls   []geom.WallSeg
	sprites []geom.SpriteSeg
	overlay geom.OverlayMarker
}

// New creates a world projecting into a frame of the given dimensions.
func New(width, height int) *World {
	w := &World{
		width:  width,
		height: height,
		focal:  float64(width) / 2,
		px:     0,
		py:     -128,
		angle:  math.Pi / 2, // facing north
		held:   make(map[int]bool),
	}
	w.rebuild()
	return w
}

// HandleKey records a key press or release from the consumer.
func (w *World) HandleKey(ev codec.InputEvent) {
	if ev.Pressed {
		w.held[ev.Key] = true
	} else {
		delete(w.held, ev.Key)
	}
}

// Advance runs one simulation tick and rebuilds the render lists.
func (w *World) Advance() {
	forward := 0.0
	strafe := 0.0
	if w.held[codec.KeyUpArrow] || w.held['w'] {
		forward += moveSpeed
	}
	if w.held[codec.KeyDownArrow] || w.held['s'] {
		forward -= moveSpeed
	}
	if w.held['a'] {
		strafe -= moveSpeed
	}
	if w.held['d'] {
		strafe += moveSpeed
	}
	if w.held[codec.KeyLeftArrow] {
		w.angle += turnSpeed
	}
	if w.held[codec.KeyRightArrow] {
		w.angle -= turnSpeed
	}

	sin, cos := math.Sincos(w.angle)
	nx := w.px + forward*cos + strafe*sin
	ny := w.py + forward*sin - strafe*cos
	// keep inside the outer shell with a margin
	if nx > -240 && nx < 240 {
		w.px = nx
	}
	if ny > -240 && ny < 240 {
		w.py = ny
	}
	if forward != 0 || strafe != 0 {
		w.bob += 0.35
	}

	w.rebuild()
}

// rebuild recomputes the screen-space wall and sprite lists for the
// current viewpoint.
func (w *World) rebuild() {
	w.walls = w.walls[:0]
	w.sprites = w.sprites[:0]

	for _, line := range demoLines {
		if seg, ok := w.projectWall(line); ok {
			w.walls = append(w.walls, seg)
		}
	}
	for _, th := range demoThings {
		if seg, ok := w.projectThing(th); ok {
			w.sprites = append(w.sprites, seg)
		}
	}

	bobY := int(3 * math.Sin(w.bob))
	w.overlay = geom.OverlayMarker{
		X:       w.width / 2,
		Y:       w.height - 24 + bobY,
		Visible: true,
	}
}

// toView rotates a map point into view space: fwd is distance along the
// view direction, side the horizontal offset.
func (w *World) toView(x, y float64) (fwd, side float64) {
	dx := x - w.px
	dy := y - w.py
	sin, cos := math.Sincos(w.angle)
	return dx*cos + dy*sin, dx*sin - dy*cos
}

func (w *World) projectWall(line lineDef) (geom.WallSeg, bool) {
	f1, s1 := w.toView(line.x1, line.y1)
	f2, s2 := w.toView(line.x2, line.y2)

	// clip against the near plane, interpolating the crossing point
	if f1 < nearClip && f2 < nearClip {
		return geom.WallSeg{}, false
	}
	if f1 < nearClip {
		t := (nearClip - f1) / (f2 - f1)
		f1 = nearClip
		s1 += t * (s2 - s1)
	}
	if f2 < nearClip {
		t := (nearClip - f2) / (f1 - f2)
		f2 = nearClip
		s2 += t * (s1 - s2)
	}

	x1 := int(float64(w.width)/2 + s1*w.focal/f1)
	x2 := int(float64(w.width)/2 + s2*w.focal/f2)
	sc1 := scaleFor(w.focal, f1)
	sc2 := scaleFor(w.focal, f2)
	if x1 > x2 {
		x1, x2 = x2, x1
		sc1, sc2 = sc2, sc1
	}

	front := demoSectors[line.front]
	seg := geom.WallSeg{
		X1: x1, X2: x2,
		Scale1: sc1, Scale2: sc2,
		FrontCeil:  fixed.FromInt(front.ceil),
		FrontFloor: fixed.FromInt(front.floor),
	}
	if line.back >= 0 {
		back := demoSectors[line.back]
		seg.HasBack = true
		seg.BackCeil = fixed.FromInt(back.ceil)
		seg.BackFloor = fixed.FromInt(back.floor)
	}
	return seg, true
}

func (w *World) projectThing(th thing) (geom.SpriteSeg, bool) {
	fwd, side := w.toView(th.x, th.y)
	if fwd < nearClip {
		return geom.SpriteSeg{}, false
	}
	center := float64(w.width)/2 + side*w.focal/fwd
	halfW := float64(th.height) / 2 * w.focal / fwd
	return geom.SpriteSeg{
		X1:       int(center - halfW/2),
		X2:       int(center + halfW/2),
		Scale:    scaleFor(w.focal, fwd),
		TopZ:     fixed.FromInt(th.z + th.height),
		BottomZ:  fixed.FromInt(th.z),
		Category: th.category,
	}, true
}

// scaleFor converts a forward distance to the renderer's fixed-point
// perspective scale, saturating for degenerate distances.
func scaleFor(focal, fwd float64) fixed.Unit {
	s := focal / fwd * float64(fixed.One)
	if s > float64(1<<30) {
		return 1 << 30
	}
	if s < 1 {
		return 1
	}
	return fixed.Unit(s)
}

// RenderSource implementation. The slices behind Wall and Sprite are
// valid only until the next Advance.

func (w *World) ViewWidth() int  { return w.width }
func (w *World) ViewHeight() int { return w.height }

func (w *World) EyeHeight() fixed.Unit {
	return fixed.FromInt(eyeAboveFloor) // main room floor is at 0
}

func (w *World) ScreenCenter() fixed.Unit {
	return fixed.FromInt(w.height / 2)
}

func (w *World) WallCount() int              { return len(w.walls) }
func (w *World) Wall(i int) geom.WallSeg     { return w.walls[i] }
func (w *World) SpriteCount() int            { return len(w.sprites) }
func (w *World) Sprite(i int) geom.SpriteSeg { return w.sprites[i] }

func (w *World) Overlay() (geom.OverlayMarker, bool) {
	return w.overlay, true
}
