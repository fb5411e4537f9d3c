// Package ingest collects scanned pages from the local filesystem and turns
// them into batch inputs.
package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/pipeline"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32 // entries visited, directories included
	Matched uint32 // files with an accepted extension
	Loaded  uint32 // files read successfully
	Failed  uint32 // walk or read errors
}

// ScanError records one unreadable entry without aborting the scan.
type ScanError struct {
	Path string
	Err  string
}

// ScanDir walks root, skips hidden entries if requested, and loads every file
// with an accepted image extension into a pipeline input. Per-file read
// errors are captured in the stats and error list; only a missing or
// unwalkable root fails the scan itself. Inputs come back in walk order,
// which is lexical, so batch position is stable across runs.
func ScanDir(root string, skipHidden bool, logger *slog.Logger) ([]pipeline.Input, DirStats, []ScanError, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, nil, errors.New("root path is required")
	}

	var inputs []pipeline.Input
	var stats DirStats
	var scanErrs []ScanError

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			scanErrs = append(scanErrs, ScanError{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("ingest.read.failed", "path", path, "err", err)
			scanErrs = append(scanErrs, ScanError{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		stats.Loaded++

		inputs = append(inputs, pipeline.Input{
			Source:   filepath.Base(path),
			Data:     data,
			MIMEType: constants.MIMETypeForExt(ext),
		})
		return nil
	})
	if err != nil {
		return inputs, stats, scanErrs, err
	}

	logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"loaded", stats.Loaded,
		"failed", stats.Failed,
	)
	return inputs, stats, scanErrs, nil
}
