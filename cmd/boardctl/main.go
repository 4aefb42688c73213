// Command boardctl drives a running board server from the terminal.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	serverURL string
	token     string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "boardctl",
	Short:         "Eisenhower board client",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("BOARD_SERVER", "http://localhost:8008"), "board server base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BOARD_TOKEN"), "bearer token when the server requires login")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(boardCmd, viewCmd, taskCmd, staffCmd, imageCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
