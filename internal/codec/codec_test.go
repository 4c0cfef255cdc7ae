package codec

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vandreev/wiredoom/internal/geom"
)

func randomFrame(r *rand.Rand, seq uint64) geom.Frame {
	frame := geom.Frame{Sequence: seq}

	for i := 0; i < r.Intn(20); i++ {
		x1 := r.Intn(300)
		frame.Walls = append(frame.Walls, geom.WallSpan{
			XLeft:        x1,
			YTopLeft:     r.Intn(200),
			YBottomLeft:  r.Intn(200),
			XRight:       x1 + r.Intn(320-x1),
			YTopRight:    r.Intn(200),
			YBottomRight: r.Intn(200),
			DepthRank:    r.Intn(geom.DepthMax + 1),
			Visibility:   geom.Visibility(1 + r.Intn(3)),
		})
	}
	for i := 0; i < r.Intn(8); i++ {
		frame.Sprites = append(frame.Sprites, geom.SpriteSpan{
			XCenter:   r.Intn(320),
			YTop:      r.Intn(200),
			YBottom:   r.Intn(200),
			Height:    r.Intn(100),
			Category:  r.Intn(80),
			DepthRank: r.Intn(geom.DepthMax + 1),
		})
	}
	if r.Intn(2) == 0 {
		frame.Overlay = geom.OverlayMarker{X: r.Intn(320), Y: r.Intn(200), Visible: true}
	}
	return frame
}

func TestFrameRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		original := randomFrame(r, uint64(i))

		payload, err := EncodeFrame(original)
		if err != nil {
			t.Fatalf("EncodeFrame() failed on frame %d: %v", i, err)
		}

		decoded, err := DecodeFrame(payload)
		if err != nil {
			t.Fatalf("DecodeFrame() failed on frame %d: %v", i, err)
		}

		if !original.Equal(decoded) {
			t.Fatalf("frame %d did not survive the round trip:\noriginal: %+v\ndecoded:  %+v",
				i, original, decoded)
		}
	}
}

func TestDecodeFrameLegacyWallTuples(t *testing.T) {
	// Seven-field tuples predate silhouette classes and decode as full.
	payload := []byte(`{"seq":7,"walls":[[10,20,120,50,22,118,400]],"entities":[]}`)

	frame, err := DecodeFrame(payload)
	if err != nil {
		t.Fatalf("DecodeFrame() failed: %v", err)
	}
	if len(frame.Walls) != 1 {
		t.Fatalf("expected 1 wall, got %d", len(frame.Walls))
	}
	if frame.Walls[0].Visibility != geom.VisFull {
		t.Errorf("legacy tuple visibility = %v, expected full", frame.Walls[0].Visibility)
	}
}

func TestDecodeFrameRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "not json",
			payload: `{"seq": 1, "walls"`,
		},
		{
			name:    "wall tuple too short",
			payload: `{"seq":1,"walls":[[1,2,3]]}`,
		},
		{
			name:    "wall tuple too long",
			payload: `{"seq":1,"walls":[[1,2,3,4,5,6,7,3,9]]}`,
		},
		{
			name:    "inverted columns",
			payload: `{"seq":1,"walls":[[50,0,10,10,0,10,100,3]]}`,
		},
		{
			name:    "depth rank negative",
			payload: `{"seq":1,"walls":[[10,0,10,50,0,10,-1,3]]}`,
		},
		{
			name:    "depth rank beyond max",
			payload: `{"seq":1,"walls":[[10,0,10,50,0,10,1000,3]]}`,
		},
		{
			name:    "unknown visibility class",
			payload: `{"seq":1,"walls":[[10,0,10,50,0,10,100,9]]}`,
		},
		{
			name:    "entity depth rank out of range",
			payload: `{"seq":1,"walls":[],"entities":[{"x":1,"y_top":2,"y_bottom":3,"height":4,"category_id":5,"depth_rank":5000}]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tc.payload))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v is not ErrMalformed", err)
			}
		})
	}
}

func TestDecodeFrameRejectsWholeFrame(t *testing.T) {
	// One bad wall among good ones rejects everything; no partial frames.
	payload := []byte(`{"seq":1,"walls":[[10,0,10,50,0,10,100,3],[9,9,9]]}`)

	frame, err := DecodeFrame(payload)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(frame.Walls) != 0 {
		t.Errorf("partial frame escaped rejection: %d walls", len(frame.Walls))
	}
}

func TestInputRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ev   InputEvent
	}{
		{name: "arrow press", ev: InputEvent{Key: KeyUpArrow, Pressed: true}},
		{name: "arrow release", ev: InputEvent{Key: KeyUpArrow, Pressed: false}},
		{name: "fire", ev: InputEvent{Key: KeyFire, Pressed: true}},
		{name: "ascii key", ev: InputEvent{Key: 'w', Pressed: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := EncodeInput(tc.ev)
			if err != nil {
				t.Fatalf("EncodeInput() failed: %v", err)
			}
			decoded, err := DecodeInput(payload)
			if err != nil {
				t.Fatalf("DecodeInput() failed: %v", err)
			}
			if decoded != tc.ev {
				t.Errorf("round trip = %+v, expected %+v", decoded, tc.ev)
			}
		})
	}
}

func TestDecodeInputRejectsBadKey(t *testing.T) {
	if _, err := DecodeInput([]byte(`{"key":-1,"pressed":true}`)); err == nil {
		t.Error("negative key accepted")
	}
	if _, err := DecodeInput([]byte(`{"key":300,"pressed":true}`)); err == nil {
		t.Error("key above 0xFF accepted")
	}
	if _, err := DecodeInput([]byte(`not json`)); err == nil {
		t.Error("garbage accepted")
	}
}
