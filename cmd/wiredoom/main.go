// wiredoom bridges a software renderer's screen-space geometry into a
// terminal wireframe viewer over a unix socket.
//
// Usage:
//
//	wiredoom view              - Listen on the socket and render incoming frames
//	wiredoom feed              - Walk the demo level and stream frames to a viewer
//	wiredoom serve             - Start SSH server hosting self-contained demos
//	wiredoom stats             - Browse recorded session statistics
//
// Global flags:
//
//	--socket <path>   - Unix socket path (default: /tmp/wiredoom.sock)
//	--config <path>   - Path to a YAML config file
//	--db <path>       - Sessions database path (default: ~/.wiredoom/sessions.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vandreev/wiredoom/internal/config"
)

var (
	// Global flags
	flagSocket     string
	flagConfigPath string
	flagDBPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wiredoom",
	Short: "Wireframe bridge between a renderer and your terminal",
	Long: `wiredoom streams screen-space vector geometry from a walking
simulation to a terminal viewer over a unix socket, and carries key
events back the other way.

Available commands:
  view     - Listen on the socket and render incoming frames
  feed     - Walk the demo level and stream frames to a viewer
  serve    - SSH server hosting a self-contained demo per connection
  stats    - Browse recorded session statistics

Start the viewer first, then the feed:
  wiredoom view
  wiredoom feed`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "Unix socket path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.wiredoom/sessions.db", "Path to sessions database")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig resolves the effective configuration from flags and files.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}
	if flagSocket != "" {
		cfg.Socket = flagSocket
	}
	return cfg, nil
}
