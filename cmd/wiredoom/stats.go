package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vandreev/wiredoom/internal/platform/tui"
	"github.com/vandreev/wiredoom/internal/storage"
)

var flagStatsPlain bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Browse recorded session statistics",
	Long: `Open an interactive browser over the recorded feed and view
sessions: frames moved, geometry counts, truncation, decode errors, and
how each run ended.

Examples:
  wiredoom stats
  wiredoom stats --plain     # non-interactive table on stdout`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsPlain, "plain", false, "Print a plain table instead of the interactive browser")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening sessions database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagStatsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		printPlainStats(store)
		return
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	if err := tui.RunSessions(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printPlainStats(store *storage.Store) {
	sessions, err := store.RecentSessions(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'wiredoom view' and 'wiredoom feed' to record one.")
		return
	}

	fmt.Printf("  %-5s %-6s %-8s %-8s %-8s %-6s %-5s %-12s %s\n",
		"ID", "Role", "Frames", "Walls", "Sprites", "Trunc", "Bad", "End", "When")
	for _, s := range sessions {
		fmt.Printf("  %-5d %-6s %-8d %-8d %-8d %-6d %-5d %-12s %s\n",
			s.ID, s.Role, s.Frames, s.Walls, s.Sprites, s.Truncated,
			s.DecodeErrors, s.EndReason, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}
