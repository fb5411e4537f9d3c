// Package store persists batch run history: one row per run plus one row per
// attempted document. It is the durable form of the batch status report; the
// in-memory report stays the source of truth for the caller.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/common"
	"github.com/ClaireJ59/News-Translator/internal/pipeline"
)

// maxRawLen bounds the preserved oracle text per document row.
const maxRawLen = 4096

// Config for opening the run store.
type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// Store wraps the run-history database.
type Store struct {
	db       *sql.DB
	postgres bool
	logger   *slog.Logger
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID        string
	Started   time.Time
	Finished  time.Time
	Total     int
	Succeeded int
	Failed    int
}

// RunDocument is one attempted document within a run.
type RunDocument struct {
	RunID        string
	Position     int
	Source       string
	Status       constants.DocStatus
	ErrorKind    constants.ErrorKind
	ErrorMessage string
	RawResponse  string
}

// Open connects to the run store and ensures the schema exists. A
// postgres:// or postgresql:// DSN selects the pgx driver; anything else
// (a file path or :memory:) is treated as a SQLite database.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, common.NewAppError("STORE_CONFIG", "database DSN is required", common.ErrInvalidInput)
	}

	driver := "sqlite"
	postgres := false
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		driver = "pgx"
		postgres = true
	}

	logger.Info("store.open", "driver", driver)
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "ping database")
	}

	s := &Store{db: db, postgres: postgres, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	s.logger.Debug("store.close")
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			succeeded INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_documents (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			error_kind TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			raw_response TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (run_id, position)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "ensure schema")
		}
	}
	return nil
}

// rebind converts ? placeholders to $n for the postgres driver.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RecordRun persists one batch result, the run row and its document rows in
// a single transaction. Raw oracle text is truncated to a bounded length.
func (s *Store) RecordRun(ctx context.Context, result *pipeline.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO runs (id, started_at, finished_at, total, succeeded, failed)
			VALUES (?, ?, ?, ?, ?, ?)`),
		result.RunID.String(),
		result.Started.UTC().Format(time.RFC3339Nano),
		result.Finished.UTC().Format(time.RFC3339Nano),
		len(result.Statuses),
		result.Succeeded(),
		result.Failed(),
	)
	if err != nil {
		return common.WrapError(err, "insert run")
	}

	for i, st := range result.Statuses {
		raw := st.Raw
		if len(raw) > maxRawLen {
			raw = raw[:maxRawLen]
		}
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO run_documents
				(run_id, position, source, status, error_kind, error_message, raw_response)
				VALUES (?, ?, ?, ?, ?, ?, ?)`),
			result.RunID.String(),
			i+1,
			st.Source,
			string(st.Status),
			string(st.ErrKind),
			st.Err,
			raw,
		)
		if err != nil {
			return common.WrapError(err, fmt.Sprintf("insert run document %d", i+1))
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit run")
	}
	s.logger.Info("store.run.recorded",
		"run_id", result.RunID,
		"total", len(result.Statuses),
		"succeeded", result.Succeeded(),
		"failed", result.Failed(),
	)
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, started_at, finished_at, total, succeeded, failed
			FROM runs ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, common.WrapError(err, "query runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Total, &r.Succeeded, &r.Failed); err != nil {
			return nil, common.WrapError(err, "scan run")
		}
		if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, common.WrapError(err, "parse started_at")
		}
		if r.Finished, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, common.WrapError(err, "parse finished_at")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRunDocuments returns the document rows of one run in batch order.
func (s *Store) ListRunDocuments(ctx context.Context, runID string) ([]RunDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT run_id, position, source, status, error_kind, error_message, raw_response
			FROM run_documents WHERE run_id = ? ORDER BY position`), runID)
	if err != nil {
		return nil, common.WrapError(err, "query run documents")
	}
	defer rows.Close()

	var out []RunDocument
	for rows.Next() {
		var d RunDocument
		var status, kind string
		if err := rows.Scan(&d.RunID, &d.Position, &d.Source, &status, &kind, &d.ErrorMessage, &d.RawResponse); err != nil {
			return nil, common.WrapError(err, "scan run document")
		}
		d.Status = constants.DocStatus(status)
		d.ErrorKind = constants.ErrorKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}
