package applier

import "github.com/vandreev/wiredoom/internal/surface"

// Entity category ranges from the renderer's thing table. The ids are
// opaque to the bridge; only the coarse class matters for styling.
const (
	categoryPlayer         = 0
	categoryEnemyMax       = 22
	categoryProjectileMax  = 32
	categoryCollectibleMax = 60
)

type markerStyle struct {
	glyph rune
	color surface.Color
}

// markerFor maps an entity category id to a visual marker: the richer
// surface draws sprite boxes with a class-specific glyph and color so
// enemies, pickups and scenery stay distinguishable.
func markerFor(category int) *markerStyle {
	switch {
	case category == categoryPlayer:
		return &markerStyle{glyph: '◆', color: surface.ColorOverlay}
	case category <= categoryEnemyMax:
		return &markerStyle{glyph: '▲', color: surface.ColorEnemy}
	case category <= categoryProjectileMax:
		return &markerStyle{glyph: '•', color: surface.ColorEnemy}
	case category <= categoryCollectibleMax:
		return &markerStyle{glyph: '●', color: surface.ColorCollectible}
	default:
		return &markerStyle{glyph: '▪', color: surface.ColorDecoration}
	}
}
