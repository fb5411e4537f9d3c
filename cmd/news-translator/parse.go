package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/layout"
)

var (
	flagParseFile string
	flagCompact   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a saved oracle payload and print the normalized document",
	Long: `Parse runs the document parser against a saved oracle response, applying the
same synonym folding and defaulting the batch pipeline uses. Useful for
inspecting what a payload normalizes to without calling the oracle.

Examples:
  news-translator parse --file response.json
  news-translator parse --file response.json --compact`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&flagParseFile, "file", "", "Saved oracle response (required)")
	parseCmd.Flags().BoolVar(&flagCompact, "compact", false, "Print compact JSON instead of indented")

	_ = parseCmd.MarkFlagRequired("file")
}

func runParse(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	raw, err := os.ReadFile(flagParseFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", flagParseFile, err)
	}

	doc, err := layout.ParseDocument(raw, logger)
	if err != nil {
		if rawText, ok := common.RawResponse(err); ok {
			fmt.Fprintf(os.Stderr, "--- raw payload ---\n%s\n", rawText)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if !flagCompact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
