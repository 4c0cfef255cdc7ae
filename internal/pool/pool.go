// Package pool manages the fixed set of reusable surface primitives.
//
// Creating or destroying a primitive in the host surface costs orders of
// magnitude more than mutating one, so every slot is allocated once at
// startup and recycled for the life of the process: unused slots are
// hidden, never freed.
package pool

import (
	"errors"
	"fmt"

	"github.com/vandreev/wiredoom/internal/surface"
)

// ErrExhausted reports a claim beyond the pool's fixed capacity. Callers
// truncate the frame rather than failing it.
var ErrExhausted = errors.New("pool: exhausted")

// Sizes fixes the per-category slot counts, chosen generously above the
// expected per-frame maximum.
type Sizes struct {
	Walls    int
	Sprites  int
	Overlays int
}

// DefaultSizes matches a typical frame of 30-70 walls and a handful of
// sprites, at four edges each.
func DefaultSizes() Sizes {
	return Sizes{Walls: 500, Sprites: 120, Overlays: 4}
}

// Pool owns the primitive slots per category. It is mutated only by the
// frame applier on the host's UI goroutine; nothing else may hold a
// mutable reference to a slot.
type Pool struct {
	prims map[surface.Kind][]surface.Primitive
}

// New allocates all slots up front on the given surface.
func New(surf surface.Surface, sizes Sizes) *Pool {
	p := &Pool{prims: make(map[surface.Kind][]surface.Primitive, 3)}
	p.prims[surface.KindWall] = surf.CreatePrimitives(surface.KindWall, sizes.Walls)
	p.prims[surface.KindSprite] = surf.CreatePrimitives(surface.KindSprite, sizes.Sprites)
	p.prims[surface.KindOverlay] = surf.CreatePrimitives(surface.KindOverlay, sizes.Overlays)
	p.ResetAll()
	return p
}

// Get returns the slot at index within a category. The pool never grows;
// an index past the end is ErrExhausted.
func (p *Pool) Get(kind surface.Kind, index int) (surface.Primitive, error) {
	slots := p.prims[kind]
	if index < 0 || index >= len(slots) {
		return nil, fmt.Errorf("%w: %s slot %d of %d", ErrExhausted, kind, index, len(slots))
	}
	return slots[index], nil
}

// Size returns the capacity of a category.
func (p *Pool) Size(kind surface.Kind) int {
	return len(p.prims[kind])
}

// HideUnused parks every slot at or beyond used: zero width and hidden,
// still allocated. Calling it again with the same count is a no-op in
// effect.
func (p *Pool) HideUnused(kind surface.Kind, used int) {
	slots := p.prims[kind]
	if used < 0 {
		used = 0
	}
	for i := used; i < len(slots); i++ {
		slots[i].SetStyle(0, surface.LayerBackground)
		slots[i].SetVisible(false)
	}
}

// ResetAll hides every slot in every category.
func (p *Pool) ResetAll() {
	for kind := range p.prims {
		p.HideUnused(kind, 0)
	}
}
