package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vandreev/wiredoom/internal/feed"
	"github.com/vandreev/wiredoom/internal/storage"
)

var flagLogLevel string

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Walk the demo level and stream frames to a viewer",
	Long: `Connect to a running viewer and stream extracted wireframe
geometry at the configured tick rate. Key events sent back by the viewer
steer the walk.

The viewer must already be listening; feed makes one connection attempt
and exits with an error otherwise.

Examples:
  wiredoom feed
  wiredoom feed --socket /tmp/bridge.sock --log-level debug`,
	Run: runFeed,
}

func init() {
	feedCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runFeed(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "feed",
	})
	if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	stats, err := feed.Run(ctx, cfg, logger)
	saveFeedSession(stats, time.Since(start))
	if err != nil {
		logger.Error("feed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("done",
		"frames", stats.Frames,
		"walls", stats.Walls,
		"sprites", stats.Sprites,
		"truncated", stats.Truncated,
		"end", stats.EndReason,
	)
}

func saveFeedSession(stats feed.Stats, elapsed time.Duration) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: not recording session: %v\n", err)
		return
	}
	defer store.Close()

	//nolint:errcheck // best-effort bookkeeping
	store.SaveSession(storage.SessionRecord{
		Role:      "feed",
		Frames:    stats.Frames,
		Walls:     stats.Walls,
		Sprites:   stats.Sprites,
		Truncated: stats.Truncated,
		EndReason: stats.EndReason,
		Duration:  elapsed,
	})
}
