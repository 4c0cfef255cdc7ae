// Package codec maps frames and control messages to and from their wire
// payloads. Payloads are JSON: walls travel as ordered integer arrays to
// keep the hot path compact, entities and the overlay marker as objects.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vandreev/wiredoom/internal/geom"
)

// ErrMalformed is wrapped by all decode failures caused by payload
// content rather than I/O.
var ErrMalformed = errors.New("codec: malformed payload")

// wallFields is the arity of a wall tuple with its visibility class.
// Producers without silhouette filtering emit the legacy 7-field form;
// those decode as VisFull.
const wallFields = 8

type frameWire struct {
	Seq      uint64       `json:"seq"`
	Walls    [][]int      `json:"walls"`
	Entities []entityWire `json:"entities"`
	Overlay  *overlayWire `json:"overlay,omitempty"`
}

type entityWire struct {
	X         int `json:"x"`
	YTop      int `json:"y_top"`
	YBottom   int `json:"y_bottom"`
	Height    int `json:"height"`
	Category  int `json:"category_id"`
	DepthRank int `json:"depth_rank"`
}

type overlayWire struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Visible bool `json:"visible"`
}

// EncodeFrame serializes a frame to its JSON payload.
func EncodeFrame(f geom.Frame) ([]byte, error) {
	wire := frameWire{
		Seq:      f.Sequence,
		Walls:    make([][]int, 0, len(f.Walls)),
		Entities: make([]entityWire, 0, len(f.Sprites)),
	}
	for _, w := range f.Walls {
		wire.Walls = append(wire.Walls, []int{
			w.XLeft, w.YTopLeft, w.YBottomLeft,
			w.XRight, w.YTopRight, w.YBottomRight,
			w.DepthRank, int(w.Visibility),
		})
	}
	for _, s := range f.Sprites {
		wire.Entities = append(wire.Entities, entityWire{
			X:         s.XCenter,
			YTop:      s.YTop,
			YBottom:   s.YBottom,
			Height:    s.Height,
			Category:  s.Category,
			DepthRank: s.DepthRank,
		})
	}
	if f.Overlay != (geom.OverlayMarker{}) {
		wire.Overlay = &overlayWire{X: f.Overlay.X, Y: f.Overlay.Y, Visible: f.Overlay.Visible}
	}
	return json.Marshal(wire)
}

// DecodeFrame parses a frame payload. Malformed structure, wrong tuple
// arity, or out-of-range fields reject the whole frame; the caller drops
// it and keeps the stream alive.
func DecodeFrame(data []byte) (geom.Frame, error) {
	var wire frameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return geom.Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	frame := geom.Frame{Sequence: wire.Seq}
	for i, tuple := range wire.Walls {
		span, err := decodeWall(tuple)
		if err != nil {
			return geom.Frame{}, fmt.Errorf("wall %d: %w", i, err)
		}
		frame.Walls = append(frame.Walls, span)
	}
	for i, ent := range wire.Entities {
		if ent.DepthRank < 0 || ent.DepthRank > geom.DepthMax {
			return geom.Frame{}, fmt.Errorf("entity %d: %w: depth rank %d", i, ErrMalformed, ent.DepthRank)
		}
		frame.Sprites = append(frame.Sprites, geom.SpriteSpan{
			XCenter:   ent.X,
			YTop:      ent.YTop,
			YBottom:   ent.YBottom,
			Height:    ent.Height,
			Category:  ent.Category,
			DepthRank: ent.DepthRank,
		})
	}
	if wire.Overlay != nil {
		frame.Overlay = geom.OverlayMarker{X: wire.Overlay.X, Y: wire.Overlay.Y, Visible: wire.Overlay.Visible}
	}
	return frame, nil
}

func decodeWall(tuple []int) (geom.WallSpan, error) {
	if len(tuple) != wallFields && len(tuple) != wallFields-1 {
		return geom.WallSpan{}, fmt.Errorf("%w: %d fields", ErrMalformed, len(tuple))
	}
	span := geom.WallSpan{
		XLeft:        tuple[0],
		YTopLeft:     tuple[1],
		YBottomLeft:  tuple[2],
		XRight:       tuple[3],
		YTopRight:    tuple[4],
		YBottomRight: tuple[5],
		DepthRank:    tuple[6],
		Visibility:   geom.VisFull,
	}
	if len(tuple) == wallFields {
		span.Visibility = geom.Visibility(tuple[7])
	}
	if span.XLeft > span.XRight {
		return geom.WallSpan{}, fmt.Errorf("%w: x_left %d > x_right %d", ErrMalformed, span.XLeft, span.XRight)
	}
	if span.DepthRank < 0 || span.DepthRank > geom.DepthMax {
		return geom.WallSpan{}, fmt.Errorf("%w: depth rank %d", ErrMalformed, span.DepthRank)
	}
	if !span.Visibility.Valid() {
		return geom.WallSpan{}, fmt.Errorf("%w: visibility %d", ErrMalformed, int(span.Visibility))
	}
	return span, nil
}
