package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/export"
	"github.com/ClaireJ59/News-Translator/internal/ingest"
	"github.com/ClaireJ59/News-Translator/internal/oracle/gemini"
	"github.com/ClaireJ59/News-Translator/internal/pipeline"
	"github.com/ClaireJ59/News-Translator/internal/store"
)

var (
	flagDir        string
	flagOut        string
	flagSummary    string
	flagDB         string
	flagAPIKey     string
	flagModel      string
	flagQuality    int
	flagSkipHidden bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a directory of scanned pages into a packaged archive",
	Long: `Run scans a directory for page images (jpg, jpeg, png, webp), sends each one
to the oracle, and packages the parsed sections and crops into a zip archive.
A bad page never aborts the batch; its failure is recorded in the report.

Examples:
  news-translator run --dir ./scans
  news-translator run --dir ./scans --out clips.zip --summary clips.xlsx
  news-translator run --dir ./scans --db history.db --quality 85`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&flagDir, "dir", "", "Directory of scanned pages (required)")
	runCmd.Flags().StringVar(&flagOut, "out", "", "Archive output path (default: <dir parent>/news_clips.zip)")
	runCmd.Flags().StringVar(&flagSummary, "summary", "", "Summary workbook path (default: <dir parent>/news_summary.xlsx)")
	runCmd.Flags().StringVar(&flagDB, "db", "", "Run-history database: file path, :memory:, or postgres DSN (default: $DB_URL; empty skips persistence)")
	runCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Oracle API key (default: $GEMINI_API_KEY)")
	runCmd.Flags().StringVar(&flagModel, "model", "", "Oracle model (default: $GEMINI_MODEL)")
	runCmd.Flags().IntVar(&flagQuality, "quality", 0, "JPEG quality for crops, 1-100 (default: $JPEG_QUALITY or 95)")
	runCmd.Flags().BoolVar(&flagSkipHidden, "skip-hidden", true, "Skip hidden files and directories")

	_ = runCmd.MarkFlagRequired("dir")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := common.LoadConfig()
	if flagAPIKey != "" {
		cfg.Oracle.APIKey = flagAPIKey
	}
	if flagModel != "" {
		cfg.Oracle.Model = flagModel
	}
	if flagQuality != 0 {
		cfg.Archive.JPEGQuality = flagQuality
	}
	if flagDB != "" {
		cfg.Database.DSN = flagDB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	v := common.NewValidator()
	v.Field("dir", flagDir, common.DirExists)
	if v.HasErrors() {
		return v.Error()
	}
	if flagOut == "" {
		flagOut = filepath.Join(filepath.Dir(flagDir), "news_clips.zip")
	}
	if flagSummary == "" {
		flagSummary = filepath.Join(filepath.Dir(flagDir), "news_summary.xlsx")
	}

	inputs, stats, scanErrs, err := ingest.ScanDir(flagDir, flagSkipHidden, logger)
	if err != nil {
		return fmt.Errorf("scan %s: %w", flagDir, err)
	}
	for _, se := range scanErrs {
		logger.Warn("scan error", "path", se.Path, "err", se.Err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no page images found under %s (scanned %d entries)", flagDir, stats.Scanned)
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Oracle.APIKey,
		BaseURL:     cfg.Oracle.BaseURL,
		Model:       cfg.Oracle.Model,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	}, logger)

	batch := pipeline.NewBatch(client, logger,
		pipeline.WithJPEGQuality(cfg.Archive.JPEGQuality),
		pipeline.WithOracleTimeout(cfg.Oracle.Timeout),
		pipeline.WithProgress(func(completed, total int) {
			fmt.Printf("progress: %d/%d\n", completed, total)
		}),
	)

	result, err := batch.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("batch aborted: %w", err)
	}

	if err := result.Archive.WriteFile(flagOut); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	xlsx, err := export.Summary(result, logger)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	if err := os.WriteFile(flagSummary, xlsx, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	recordRun(ctx, cfg, result, logger)
	printReport(result, flagOut, flagSummary)

	if result.Succeeded() == 0 {
		return fmt.Errorf("all %d documents failed", len(result.Statuses))
	}
	return nil
}

// recordRun persists the run when a database is configured. Persistence
// failures are logged, not fatal: the archive and report already exist.
func recordRun(ctx context.Context, cfg *common.Config, result *pipeline.Result, logger *slog.Logger) {
	if cfg.Database.DSN == "" {
		logger.Info("run history disabled, no database configured")
		return
	}
	s, err := store.Open(ctx, store.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Warn("run history unavailable", "err", err)
		return
	}
	defer func() { _ = s.Close() }()
	if err := s.RecordRun(ctx, result); err != nil {
		logger.Warn("run history write failed", "err", err)
	}
}

func printReport(result *pipeline.Result, out, summary string) {
	fmt.Printf("\nBatch %s complete in %s\n",
		result.RunID, result.Finished.Sub(result.Started).Round(time.Millisecond))
	for _, st := range result.Statuses {
		if st.Status == constants.DocStatusSucceeded {
			fmt.Printf("  ok    %-30s %d sections, %d crops -> %s/\n",
				st.Source, st.Sections, st.CropsSaved, st.ArchiveDir)
			continue
		}
		fmt.Printf("  FAIL  %-30s %s: %s\n", st.Source, st.ErrKind, st.Err)
	}
	fmt.Printf("- Succeeded: %d\n", result.Succeeded())
	fmt.Printf("- Failed: %d\n", result.Failed())
	fmt.Printf("- Archive: %s\n", out)
	fmt.Printf("- Summary: %s\n", summary)
}
