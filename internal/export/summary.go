// Package export renders a batch result as an XLSX summary workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ClaireJ59/News-Translator/internal/pipeline"
)

const sheet = "Documents"

// Summary returns an XLSX workbook (as bytes) with one row per attempted
// document: outcome, error kind, parsed date and section counts, plus the
// directory each document occupies in the archive.
func Summary(result *pipeline.Result, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{
		"Source",
		"Status",
		"Error Kind",
		"Error",
		"Date",
		"Sections",
		"News",
		"Images",
		"Crops Saved",
		"Archive Dir",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, st := range result.Statuses {
		values := []any{
			st.Source,
			string(st.Status),
			string(st.ErrKind),
			st.Err,
			st.Date,
			st.Sections,
			st.News,
			st.Images,
			st.CropsSaved,
			st.ArchiveDir,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "C", 18)
	_ = f.SetColWidth(sheet, "D", "E", 30)
	_ = f.SetColWidth(sheet, "F", "I", 12)
	_ = f.SetColWidth(sheet, "J", "J", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	logger.Info("export.summary.done",
		"run_id", result.RunID,
		"rows", len(result.Statuses),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
