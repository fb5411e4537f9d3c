package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/archive"
	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/oracle"
)

// DocumentStatus is the per-document outcome in the batch report. Raw holds
// the preserved oracle text only for malformed responses.
type DocumentStatus struct {
	Source     string
	Status     constants.DocStatus
	ErrKind    constants.ErrorKind
	Err        string
	Raw        string
	Date       string
	Sections   int
	News       int
	Images     int
	CropsSaved int
	ArchiveDir string
}

// Result is the outcome of one batch run: the accumulated archive plus one
// status per input, in input order.
type Result struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Archive  *archive.Builder
	Statuses []DocumentStatus
}

// Succeeded returns the number of packaged documents.
func (r *Result) Succeeded() int {
	n := 0
	for _, s := range r.Statuses {
		if s.Status == constants.DocStatusSucceeded {
			n++
		}
	}
	return n
}

// Failed returns the number of failed documents.
func (r *Result) Failed() int {
	return len(r.Statuses) - r.Succeeded()
}

// ProgressFunc is called after every document, success or failure.
// completed increases monotonically and reaches total exactly once.
type ProgressFunc func(completed, total int)

// Option configures a Batch.
type Option func(*Batch)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Batch) { b.progress = fn }
}

// WithOracleTimeout bounds each document's oracle call.
func WithOracleTimeout(d time.Duration) Option {
	return func(b *Batch) { b.oracleTimeout = d }
}

// WithJPEGQuality sets the crop encoding quality for the batch archive.
func WithJPEGQuality(q int) Option {
	return func(b *Batch) { b.quality = q }
}

// Batch runs documents through the pipeline one at a time, isolating every
// per-document failure so a bad page never aborts the run. A Batch owns its
// archive builder for the duration of Run and must not be shared by
// concurrent runs.
type Batch struct {
	logger        *slog.Logger
	rec           oracle.Recognizer
	quality       int
	oracleTimeout time.Duration
	progress      ProgressFunc
}

// NewBatch builds a batch orchestrator around the given recognizer.
func NewBatch(rec oracle.Recognizer, logger *slog.Logger, opts ...Option) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Batch{
		logger:  logger,
		rec:     rec,
		quality: archive.DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run attempts every input exactly once, in order, and returns the packaged
// archive plus the per-document report. Per-document errors are recorded and
// the loop continues; only context cancellation ends the run early, with the
// partial result alongside the context error.
func (b *Batch) Run(ctx context.Context, inputs []Input) (*Result, error) {
	result := &Result{
		RunID:   uuid.New(),
		Started: time.Now().UTC(),
		Archive: archive.NewBuilder(b.quality, b.logger),
	}
	ctx = common.WithRunID(ctx, result.RunID.String())

	b.logger.Info("batch.run.start", "run_id", result.RunID, "total", len(inputs))
	processor := NewProcessor(b.rec, b.oracleTimeout, b.logger)

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			result.Finished = time.Now().UTC()
			return result, err
		}

		status, err := processor.Process(ctx, in, result.Archive)
		if err != nil {
			status = DocumentStatus{
				Source:  in.Source,
				Status:  constants.DocStatusFailed,
				ErrKind: common.KindOf(err),
				Err:     err.Error(),
			}
			if raw, ok := common.RawResponse(err); ok {
				status.Raw = raw
			}
			b.logger.Warn("batch.document.failed",
				"run_id", result.RunID,
				"source", in.Source,
				"kind", status.ErrKind,
				"err", err,
			)
		}
		result.Statuses = append(result.Statuses, status)

		if b.progress != nil {
			b.progress(i+1, len(inputs))
		}
	}

	result.Finished = time.Now().UTC()
	b.logger.Info("batch.run.done",
		"run_id", result.RunID,
		"total", len(inputs),
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
		"elapsed_ms", result.Finished.Sub(result.Started).Milliseconds(),
	)
	return result, nil
}
