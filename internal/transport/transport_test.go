package transport

import (
	"encoding/binary"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteMessageFraming(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(client)
	payload := []byte(`{"seq":1}`)

	go func() {
		//nolint:errcheck // failures surface on the read side
		conn.WriteMessage(MsgFrameData, payload)
	}()

	buf := make([]byte, 8+len(payload))
	if _, err := readFull(server, buf); err != nil {
		t.Fatalf("reading framed message: %v", err)
	}

	if got := binary.LittleEndian.Uint32(buf[0:4]); got != uint32(MsgFrameData) {
		t.Errorf("type field = %#x, expected %#x", got, uint32(MsgFrameData))
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != uint32(len(payload)) {
		t.Errorf("length field = %d, expected %d", got, len(payload))
	}
	if string(buf[8:]) != string(payload) {
		t.Errorf("payload = %q, expected %q", buf[8:], payload)
	}
}

func TestReadMessageReassemblesChunks(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := []byte(`{"seq":42,"walls":[]}`)
	framed := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(framed[0:4], uint32(MsgFrameData))
	binary.LittleEndian.PutUint32(framed[4:8], uint32(len(payload)))
	copy(framed[8:], payload)

	// Deliver the frame in three arbitrary chunks, splitting inside the
	// header and inside the payload.
	go func() {
		for _, chunk := range [][]byte{framed[:3], framed[3:12], framed[12:]} {
			//nolint:errcheck // failures surface on the read side
			server.Write(chunk)
			time.Sleep(time.Millisecond)
		}
	}()

	conn := NewConn(client)
	msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	if msg.Type != MsgFrameData {
		t.Errorf("type = %s, expected %s", msg.Type, MsgFrameData)
	}
	if string(msg.Payload) != string(payload) {
		t.Errorf("payload = %q, expected %q", msg.Payload, payload)
	}
}

func TestReadMessageCleanCloseIsErrClosed(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(client)
	go server.Close()

	_, err := conn.ReadMessage()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, expected ErrClosed", err)
	}
}

func TestReadMessageRejectsOversizedHeader(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(MsgFrameData))
	binary.LittleEndian.PutUint32(header[4:8], MaxPayload+1)

	go func() {
		//nolint:errcheck // failures surface on the read side
		server.Write(header[:])
	}()

	conn := NewConn(client)
	_, err := conn.ReadMessage()
	if !errors.Is(err, ErrOversized) {
		t.Errorf("error = %v, expected ErrOversized", err)
	}
}

func TestListenAcceptDialHandshake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sock")

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			t.Errorf("Accept() failed: %v", err)
			accepted <- nil
			return
		}
		accepted <- conn
	}()

	producer, err := Dial(path)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer producer.Close()

	// Accept sends the handshake as soon as the connection lands.
	if err := producer.AwaitHandshake(2 * time.Second); err != nil {
		t.Fatalf("AwaitHandshake() failed: %v", err)
	}

	consumer := <-accepted
	if consumer == nil {
		t.Fatal("no accepted connection")
	}
	defer consumer.Close()

	// Message flow after the handshake works both ways.
	if err := producer.WriteMessage(MsgFrameData, []byte(`{"seq":0}`)); err != nil {
		t.Fatalf("producer write failed: %v", err)
	}
	msg, err := consumer.ReadMessage()
	if err != nil {
		t.Fatalf("consumer read failed: %v", err)
	}
	if msg.Type != MsgFrameData {
		t.Errorf("type = %s, expected %s", msg.Type, MsgFrameData)
	}
}

func TestDialWithoutListenerFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nobody.sock")

	start := time.Now()
	_, err := Dial(path)
	if err == nil {
		t.Fatal("Dial() with no listener should fail")
	}
	// Connect-once semantics: the failure is immediate, not a retry loop.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Dial() took %v, expected a fast failure", elapsed)
	}
}

func TestAwaitHandshakeTimesOut(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(client)
	err := conn.AwaitHandshake(50 * time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.sock")

	// Simulate a crashed previous run leaving a file at the socket path.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("planting stale file: %v", err)
	}

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen() over stale socket failed: %v", err)
	}
	ln.Close()
}

func readFull(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
