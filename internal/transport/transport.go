// Package transport frames bridge messages over a unix domain socket.
//
// Wire format, bit-exact with the upstream renderer's socket layer:
//
//	[4 bytes LE message type][4 bytes LE payload length][payload]
//
// The stream is order-preserving and reliable; a closed connection is
// terminal for both sides, with no silent reconnect.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// MsgType identifies a framed message.
type MsgType uint32

const (
	MsgFrameData  MsgType = 0x01 // producer -> consumer
	MsgInputEvent MsgType = 0x02 // consumer -> producer
	MsgHandshake  MsgType = 0x03 // consumer -> producer, once, on accept
	MsgShutdown   MsgType = 0x04 // either direction
)

// String returns the message type name.
func (t MsgType) String() string {
	switch t {
	case MsgFrameData:
		return "frame"
	case MsgInputEvent:
		return "input"
	case MsgHandshake:
		return "handshake"
	case MsgShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint32(t))
	}
}

const headerSize = 8

// MaxPayload bounds a single message body. Frames are a few KB; anything
// near this limit indicates a corrupt header.
const MaxPayload = 1 << 20

// ErrClosed reports that the peer closed the stream.
var ErrClosed = errors.New("transport: connection closed")

// ErrOversized reports a header declaring an impossible payload length.
var ErrOversized = errors.New("transport: payload exceeds limit")

// Message is one framed unit read off the stream.
type Message struct {
	Type    MsgType
	Payload []byte
}

// Conn wraps a stream connection with message framing. Reads and writes
// each loop until the full byte count transfers; writes are additionally
// serialized so the tick loop and a shutdown path cannot interleave
// headers.
type Conn struct {
	nc  net.Conn
	wmu sync.Mutex
}

// NewConn wraps an established stream connection.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc}
}

// ReadMessage blocks for the next complete message. A clean close of the
// stream (zero-length read at a header boundary) returns ErrClosed.
func (c *Conn) ReadMessage() (Message, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(c.nc, header[:]); err != nil {
		return Message{}, readErr(err)
	}

	msgType := MsgType(binary.LittleEndian.Uint32(header[0:4]))
	length := binary.LittleEndian.Uint32(header[4:8])
	if length > MaxPayload {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrOversized, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.nc, payload); err != nil {
		return Message{}, readErr(err)
	}
	return Message{Type: msgType, Payload: payload}, nil
}

// WriteMessage frames and sends one message.
func (c *Conn) WriteMessage(t MsgType, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrOversized, len(payload))
	}

	buf := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(t))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[headerSize:], payload)

	c.wmu.Lock()
	defer c.wmu.Unlock()
	for sent := 0; sent < len(buf); {
		n, err := c.nc.Write(buf[sent:])
		if err != nil {
			return writeErr(err)
		}
		sent += n
	}
	return nil
}

// SendShutdown notifies the peer before closing. Best effort: the peer
// may already be gone.
func (c *Conn) SendShutdown() {
	//nolint:errcheck // the connection is being torn down either way
	c.WriteMessage(MsgShutdown, []byte("{}"))
}

// SetReadDeadline bounds the next ReadMessage.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.nc.SetReadDeadline(t)
}

// Close closes the underlying stream. Safe to call more than once.
func (c *Conn) Close() error {
	return c.nc.Close()
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("transport: read: %w", err)
}

func writeErr(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("transport: write: %w", err)
}
