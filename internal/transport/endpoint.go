package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"
)

// Listener is the consumer's endpoint. It must exist before the producer
// starts: the producer dials exactly once with no retry, so the setup
// ordering is listener first, producer second.
type Listener struct {
	path string
	ln   net.Listener
}

// Listen binds a unix socket at path, removing any stale socket file left
// by a previous run.
func Listen(path string) (*Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("transport: remove stale socket %s: %w", path, err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("transport: listen on %s: %w", path, err)
	}
	return &Listener{path: path, ln: ln}, nil
}

// Accept waits for the producer to connect, then sends the handshake that
// unblocks its startup.
func (l *Listener) Accept() (*Conn, error) {
	nc, err := l.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("transport: accept: %w", err)
	}
	conn := NewConn(nc)
	if err := conn.WriteMessage(MsgHandshake, []byte("{}")); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: handshake: %w", err)
	}
	return conn, nil
}

// Addr returns the socket path.
func (l *Listener) Addr() string {
	return l.path
}

// Close shuts the listener and removes the socket file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	//nolint:errcheck // stale file cleanup only
	os.Remove(l.path)
	return err
}

// Dial connects the producer to an already-listening consumer. A refused
// connection is fatal to the caller; there is deliberately no retry or
// backoff, matching the renderer's connect-once startup.
func Dial(path string) (*Conn, error) {
	nc, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s (is the viewer running?): %w", path, err)
	}
	return NewConn(nc), nil
}

// AwaitHandshake blocks until the consumer's handshake arrives, bounding
// the wait. Any other message type before the handshake is a protocol
// violation.
func (c *Conn) AwaitHandshake(timeout time.Duration) error {
	if err := c.nc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("transport: handshake deadline: %w", err)
	}
	defer c.nc.SetReadDeadline(time.Time{}) //nolint:errcheck // clearing a deadline

	msg, err := c.ReadMessage()
	if err != nil {
		return fmt.Errorf("transport: awaiting handshake: %w", err)
	}
	if msg.Type != MsgHandshake {
		return fmt.Errorf("transport: expected handshake, got %s", msg.Type)
	}
	return nil
}
