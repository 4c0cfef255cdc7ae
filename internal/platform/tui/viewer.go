// Package tui provides the Bubble Tea integration for the bridge viewer.
// It owns the terminal loop, maps keys back to producer input events, and
// is the only code that touches the primitive pool.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vandreev/wiredoom/internal/applier"
	"github.com/vandreev/wiredoom/internal/codec"
	"github.com/vandreev/wiredoom/internal/config"
	"github.com/vandreev/wiredoom/internal/geom"
	"github.com/vandreev/wiredoom/internal/pool"
	"github.com/vandreev/wiredoom/internal/surface"
	"github.com/vandreev/wiredoom/internal/transport"
)

// keyHoldTime is how long a terminal keypress counts as held before the
// synthesized release is sent. Terminals report presses only, so the
// release half of the producer's press/release protocol is synthesized.
const keyHoldTime = 150 * time.Millisecond

// Messages produced by the accept and reader goroutines. Frames cross
// into the Update loop only through these; Update is the sole pool writer.
type (
	connectedMsg  struct{ conn *transport.Conn }
	frameMsg      struct{ frame geom.Frame }
	peerClosedMsg struct{}
	decodeErrMsg  struct{ err error }
	acceptErrMsg  struct{ err error }
	keyReleaseMsg struct{ key int }
)

// ViewerStats is a snapshot of the consumer-side counters, read after
// the program exits.
type ViewerStats struct {
	FramesApplied uint64
	FramesStale   uint64
	DecodeErrors  uint64
	EndReason     string
}

// Viewer is the Bubble Tea model for the consuming side of the bridge.
type Viewer struct {
	cfg      config.Config
	listener *transport.Listener
	conn     *transport.Conn

	surf *surface.CellSurface
	pool *pool.Pool
	appl *applier.Applier

	frames chan geom.Frame
	errs   chan error
	closed chan struct{}

	held map[int]bool

	lastSeq      uint64
	decodeErrors uint64
	connected    bool
	peerGone     bool
	quitting     bool
	endReason    string
	lastErr      string
}

// NewViewer builds the viewer around an already-listening endpoint.
// Listening before the producer dials is what makes startup ordering work.
func NewViewer(cfg config.Config, ln *transport.Listener) *Viewer {
	surf := surface.NewCellSurface(cfg.Frame.Width, cfg.Frame.Height, nil)
	p := pool.New(surf, pool.Sizes{
		Walls:    cfg.Pool.Walls,
		Sprites:  cfg.Pool.Sprites,
		Overlays: cfg.Pool.Overlays,
	})
	appl := applier.New(p, surf, applier.Config{
		NearThreshold: cfg.Depth.NearThreshold,
		NearWidth:     cfg.Style.NearWidth,
		FarWidth:      cfg.Style.FarWidth,
	})
	return &Viewer{
		cfg:      cfg,
		listener: ln,
		surf:     surf,
		pool:     p,
		appl:     appl,
		frames:   make(chan geom.Frame, 1),
		errs:     make(chan error, 8),
		closed:   make(chan struct{}),
		held:     make(map[int]bool),
	}
}

// Init blocks a command goroutine on Accept and starts waiting for frames.
func (m *Viewer) Init() tea.Cmd {
	return tea.Batch(m.acceptCmd(), m.waitFrame(), m.waitErr())
}

func (m *Viewer) acceptCmd() tea.Cmd {
	return func() tea.Msg {
		conn, err := m.listener.Accept()
		if err != nil {
			return acceptErrMsg{err: err}
		}
		return connectedMsg{conn: conn}
	}
}

// readLoop runs off the Update loop: it reads and decodes messages, and
// keeps only the newest frame in the mailbox so a slow terminal never
// builds a queue of stale geometry.
func (m *Viewer) readLoop(conn *transport.Conn) {
	defer close(m.closed)
	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			m.errs <- err
			return
		}
		switch msg.Type {
		case transport.MsgFrameData:
			frame, err := codec.DecodeFrame(msg.Payload)
			if err != nil {
				m.errs <- err
				continue
			}
			select {
			case m.frames <- frame:
			default:
				select {
				case <-m.frames:
				default:
				}
				m.frames <- frame
			}
		case transport.MsgShutdown:
			m.errs <- transport.ErrClosed
			return
		default:
			// handshake echoes and unknown types are ignored
		}
	}
}

func (m *Viewer) waitFrame() tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-m.frames:
			return frameMsg{frame: f}
		case <-m.closed:
			return peerClosedMsg{}
		}
	}
}

func (m *Viewer) waitErr() tea.Cmd {
	return func() tea.Msg {
		err, ok := <-m.errs
		if !ok {
			return nil
		}
		if errors.Is(err, transport.ErrClosed) {
			return peerClosedMsg{}
		}
		return decodeErrMsg{err: err}
	}
}

// Update handles messages and is the only mutator of the pool.
func (m *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case connectedMsg:
		m.conn = msg.conn
		m.connected = true
		go m.readLoop(m.conn)
		return m, nil

	case frameMsg:
		if m.appl.Apply(msg.frame) {
			m.lastSeq = msg.frame.Sequence
		}
		return m, m.waitFrame()

	case decodeErrMsg:
		m.decodeErrors++
		m.lastErr = msg.err.Error()
		return m, m.waitErr()

	case peerClosedMsg:
		m.peerGone = true
		m.endReason = "peer-closed"
		return m, nil

	case acceptErrMsg:
		m.endReason = "error"
		m.lastErr = msg.err.Error()
		m.quitting = true
		return m, tea.Quit

	case keyReleaseMsg:
		if m.held[msg.key] {
			delete(m.held, msg.key)
			m.sendInput(msg.key, false)
		}
		return m, nil
	}

	return m, nil
}

// handleKey maps terminal input to producer key events. Local quit keys
// never reach the producer.
func (m *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		if m.endReason == "" {
			m.endReason = "interrupted"
		}
		if m.conn != nil {
			m.conn.SendShutdown()
		}
		return m, tea.Quit
	}

	key, ok := MapKey(msg)
	if !ok || m.conn == nil || m.peerGone {
		return m, nil
	}

	if !m.held[key] {
		m.held[key] = true
		m.sendInput(key, true)
	}
	release := key
	return m, tea.Tick(keyHoldTime, func(time.Time) tea.Msg {
		return keyReleaseMsg{key: release}
	})
}

func (m *Viewer) sendInput(key int, pressed bool) {
	payload, err := codec.EncodeInput(codec.InputEvent{Key: key, Pressed: pressed})
	if err != nil {
		return
	}
	// WriteMessage serializes internally, so calling from Update is safe
	// even while the producer-facing goroutines run.
	//nolint:errcheck // input is best-effort; a dead peer surfaces via the reader
	m.conn.WriteMessage(transport.MsgInputEvent, payload)
}

// View renders the canvas plus a one-line status bar.
func (m *Viewer) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(RenderCanvas(m.surf.Canvas()))
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m *Viewer) statusLine() string {
	if !m.connected {
		return statusStyle.Render(fmt.Sprintf("listening on %s, waiting for producer... (q to quit)", m.cfg.Socket))
	}
	if m.peerGone {
		return errStyle.Render("producer disconnected (q to quit)")
	}
	st := m.appl.Stats()
	line := fmt.Sprintf("seq %d  applied %d  stale %d  bad %d  walls %d  sprites %d",
		m.lastSeq, st.FramesApplied, st.FramesStale, m.decodeErrors,
		st.WallsDrawn, st.SpritesDrawn)
	if m.lastErr != "" {
		line += "  last: " + m.lastErr
	}
	return statusStyle.Render(line)
}

// Stats reports the session counters for persistence after exit.
func (m *Viewer) Stats() ViewerStats {
	st := m.appl.Stats()
	reason := m.endReason
	if reason == "" {
		reason = "shutdown"
	}
	return ViewerStats{
		FramesApplied: st.FramesApplied,
		FramesStale:   st.FramesStale,
		DecodeErrors:  m.decodeErrors,
		EndReason:     reason,
	}
}

// Run starts the Bubble Tea program and returns the final session stats.
func Run(cfg config.Config, ln *transport.Listener) (ViewerStats, error) {
	model := NewViewer(cfg, ln)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return ViewerStats{}, err
	}
	if v, ok := final.(*Viewer); ok {
		return v.Stats(), nil
	}
	return model.Stats(), nil
}
