// Package sim is the demo producer: a miniature first-person level walked
// at a fixed tick rate. It exposes the same per-frame wall and sprite
// lists a real BSP renderer would, through the extractor's RenderSource
// view, so the whole bridge runs end-to-end without the game engine.
package sim

// sector holds floor and ceiling heights in map units.
type sector struct {
	floor int
	ceil  int
}

// lineDef is one wall boundary between sectors. back < 0 means solid.
type lineDef struct {
	x1, y1 float64
	x2, y2 float64
	front  int
	back   int
}

// thing is a placed entity with a category id from the renderer's thing
// table and a world height in map units.
type thing struct {
	x, y     float64
	z        int // feet height
	height   int
	category int
}

// demoSectors: 0 is the main room, 1 a raised step, 2 a window alcove
// with a dropped ceiling, 3 a tall side hall.
var demoSectors = []sector{
	{floor: 0, ceil: 128},
	{floor: 24, ceil: 128},  // step riser against sector 0
	{floor: 0, ceil: 72},    // overhead ledge against sector 0
	{floor: 0, ceil: 128},   // same heights as 0: open boundary
}

// demoLines outlines a room roughly 512x512 map units across.
var demoLines = []lineDef{
	// outer shell, solid
	{x1: -256, y1: -256, x2: 256, y2: -256, front: 0, back: -1},
	{x1: 256, y1: -256, x2: 256, y2: 256, front: 0, back: -1},
	{x1: 256, y1: 256, x2: -256, y2: 256, front: 0, back: -1},
	{x1: -256, y1: 256, x2: -256, y2: -256, front: 0, back: -1},

	// raised step across the north side: lower silhouette only
	{x1: -128, y1: 128, x2: 128, y2: 128, front: 0, back: 1},
	{x1: -128, y1: 128, x2: -128, y2: 224, front: 0, back: 1},
	{x1: 128, y1: 128, x2: 128, y2: 224, front: 0, back: 1},

	// window alcove to the east: upper silhouette only
	{x1: 160, y1: -96, x2: 160, y2: 96, front: 0, back: 2},

	// passable seam into the side hall: dropped by the extractor
	{x1: -160, y1: -96, x2: -160, y2: 96, front: 0, back: 3},

	// pillar, solid on all four faces
	{x1: -32, y1: -64, x2: 32, y2: -64, front: 0, back: -1},
	{x1: 32, y1: -64, x2: 32, y2: -16, front: 0, back: -1},
	{x1: 32, y1: -16, x2: -32, y2: -16, front: 0, back: -1},
	{x1: -32, y1: -16, x2: -32, y2: -64, front: 0, back: -1},
}

var demoThings = []thing{
	{x: 96, y: 96, z: 0, height: 56, category: 11},  // imp
	{x: -96, y: 64, z: 0, height: 56, category: 12}, // demon
	{x: 0, y: 180, z: 24, height: 16, category: 52}, // clip on the step
	{x: 200, y: 0, z: 0, height: 34, category: 48},  // keycard in the alcove
	{x: -200, y: -160, z: 0, height: 84, category: 70}, // tall decoration
}
