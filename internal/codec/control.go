package codec

import (
	"encoding/json"
	"fmt"
)

// Key codes understood by the producer, matching the upstream renderer's
// key table. Printable keys are their ASCII byte.
const (
	KeyEnter      = 0x0D
	KeyEscape     = 0x1B
	KeyTab        = 0x09
	KeyUse        = 0x39 // space
	KeyFire       = 0x9D // right ctrl
	KeyLeftArrow  = 0xAC
	KeyUpArrow    = 0xAD
	KeyRightArrow = 0xAE
	KeyDownArrow  = 0xAF
	KeyShift      = 0xB6
	KeyAlt        = 0xB8
)

// InputEvent is a key press or release traveling consumer to producer.
type InputEvent struct {
	Key     int  `json:"key"`
	Pressed bool `json:"pressed"`
}

// EncodeInput serializes an input event payload.
func EncodeInput(ev InputEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeInput parses an input event payload.
func DecodeInput(data []byte) (InputEvent, error) {
	var ev InputEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return InputEvent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.Key < 0 || ev.Key > 0xFF {
		return InputEvent{}, fmt.Errorf("%w: key %d", ErrMalformed, ev.Key)
	}
	return ev, nil
}
