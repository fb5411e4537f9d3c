// Command news-translator extracts, translates and packages the sections of
// scanned newspaper pages described by a vision oracle.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "news-translator",
	Short: "news-translator — package scanned newspaper pages into translated section archives",
	Long: `news-translator sends scanned newspaper pages to a vision oracle, parses the
returned layout description, crops every boxed section and packages the crops,
per-section records and bilingual digests into a single zip archive.

Usage:
  news-translator run --dir ./scans
  news-translator parse --file response.json
  news-translator runs --db history.db`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// newLogger builds the process logger the way every binary here logs:
// JSON lines on stdout, debug level behind --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
