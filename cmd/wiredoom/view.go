package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vandreev/wiredoom/internal/platform/tui"
	"github.com/vandreev/wiredoom/internal/storage"
	"github.com/vandreev/wiredoom/internal/transport"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Listen on the socket and render incoming frames",
	Long: `Open the unix socket, wait for a producer to connect, and render
every frame it sends as a terminal wireframe.

The viewer must be running before the feed starts; the producer makes a
single connection attempt and fails fast if nobody is listening.

Keys are forwarded to the producer: arrows to move and turn, wasd to
move and strafe, space to use, f to fire. Press q to quit.

Examples:
  wiredoom view
  wiredoom view --socket /tmp/bridge.sock`,
	Run: runView,
}

func runView(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ln, err := transport.Listen(cfg.Socket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening socket: %v\n", err)
		os.Exit(1)
	}
	defer ln.Close()

	start := time.Now()
	stats, err := tui.Run(cfg, ln)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Viewer error: %v\n", err)
		os.Exit(1)
	}

	saveViewSession(stats, time.Since(start))

	fmt.Printf("Applied %d frames (%d stale, %d malformed)\n",
		stats.FramesApplied, stats.FramesStale, stats.DecodeErrors)
}

// saveViewSession records the run; the viewer works fine without a
// database, so failures only warn.
func saveViewSession(stats tui.ViewerStats, elapsed time.Duration) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: not recording session: %v\n", err)
		return
	}
	defer store.Close()

	//nolint:errcheck // best-effort bookkeeping
	store.SaveSession(storage.SessionRecord{
		Role:         "view",
		Frames:       stats.FramesApplied,
		DecodeErrors: stats.DecodeErrors,
		EndReason:    stats.EndReason,
		Duration:     elapsed,
	})
}
