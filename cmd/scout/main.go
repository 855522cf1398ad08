// Package main provides the scout command line: an HTTP server and one-shot
// queries over the combine player and test files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "NFL combine percentile engine",
	Long: "scout parses the tab-delimited combine player and test exports and scores players " +
		"against their draft-class cohort, either over HTTP or from the command line.",
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootPlayerFile string
	rootTestFile   string
	rootLogLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "Path to a YAML config file (overrides SCOUT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&rootPlayerFile, "players", "p", "", "Path to the player file (overrides player_file)")
	rootCmd.PersistentFlags().StringVarP(&rootTestFile, "tests", "t", "", "Path to the test file (overrides test_file)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log_level)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
