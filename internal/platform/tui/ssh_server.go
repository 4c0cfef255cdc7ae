package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vandreev/wiredoom/internal/config"
	"github.com/vandreev/wiredoom/internal/feed"
	"github.com/vandreev/wiredoom/internal/storage"
	"github.com/vandreev/wiredoom/internal/transport"
)

// SSHServerConfig holds configuration for the SSH demo server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.wiredoom/host_key.
	HostKeyPath string

	// DBPath is the path to the sessions database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Bridge is the base bridge configuration; the frame is resized to
	// each session's PTY.
	Bridge config.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.wiredoom/sessions.db",
		IdleTimeout: 30 * time.Minute,
		Bridge:      config.Default(),
	}
}

// SSHServer serves a self-contained bridge demo per SSH session: the
// session gets its own socket, an in-process producer dialing it, and the
// viewer as the session's terminal program.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "wiredoom-ssh",
	})

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open sessions database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".wiredoom", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler wires up a fresh bridge for each SSH session and returns its
// viewer as the Bubble Tea program.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := s.config.Bridge
	cfg.Socket = sessionSocketPath(sshSession.User())
	if pty.Window.Width > 0 && pty.Window.Height > 1 {
		cfg.Frame.Width = pty.Window.Width
		cfg.Frame.Height = pty.Window.Height - 1 // status line
	}

	ln, err := transport.Listen(cfg.Socket)
	if err != nil {
		s.logger.Error("cannot listen for session", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	// The producer dials once the viewer is already listening, then lives
	// for as long as the SSH session context does.
	feedCtx, cancel := context.WithCancel(sshSession.Context())
	go func() {
		defer cancel()
		defer ln.Close()
		start := time.Now()
		stats, err := feed.Run(feedCtx, cfg, s.logger.With("user", sshSession.User()))
		if err != nil {
			s.logger.Warn("session producer exited", "user", sshSession.User(), "error", err)
		}
		if s.store != nil {
			//nolint:errcheck // best-effort bookkeeping
			s.store.SaveSession(storage.SessionRecord{
				Role:      "feed",
				Frames:    stats.Frames,
				Walls:     stats.Walls,
				Sprites:   stats.Sprites,
				Truncated: stats.Truncated,
				EndReason: stats.EndReason,
				Duration:  time.Since(start),
			})
		}
	}()

	model := NewViewer(cfg, ln)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionSocketPath builds a per-session socket path so concurrent SSH
// sessions never share a bridge.
func sessionSocketPath(user string) string {
	return filepath.Join(os.TempDir(),
		fmt.Sprintf("wiredoom-%s-%d.sock", user, time.Now().UnixNano()))
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
