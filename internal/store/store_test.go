package store

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ClaireJ59/News-Translator/constants"
	"github.com/ClaireJ59/News-Translator/internal/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), Config{DSN: ":memory:"}, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testResult() *pipeline.Result {
	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	return &pipeline.Result{
		RunID:    uuid.New(),
		Started:  started,
		Finished: started.Add(90 * time.Second),
		Statuses: []pipeline.DocumentStatus{
			{
				Source:   "page1.jpg",
				Status:   constants.DocStatusSucceeded,
				Date:     "2024年09月15日",
				Sections: 2,
			},
			{
				Source:  "page2.jpg",
				Status:  constants.DocStatusFailed,
				ErrKind: constants.ErrorKindMalformed,
				Err:     "malformed oracle response",
				Raw:     "sorry, no JSON today",
			},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	result := testResult()

	if err := s.RecordRun(ctx, result); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != result.RunID.String() {
		t.Errorf("run.ID = %q, want %q", run.ID, result.RunID)
	}
	if run.Total != 2 || run.Succeeded != 1 || run.Failed != 1 {
		t.Errorf("run counts = %+v, want total 2, succeeded 1, failed 1", run)
	}
	if !run.Started.Equal(result.Started) || !run.Finished.Equal(result.Finished) {
		t.Errorf("run times = %v..%v, want %v..%v", run.Started, run.Finished, result.Started, result.Finished)
	}
}

func TestListRunDocuments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	result := testResult()

	if err := s.RecordRun(ctx, result); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	docs, err := s.ListRunDocuments(ctx, result.RunID.String())
	if err != nil {
		t.Fatalf("ListRunDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Position != 1 || docs[0].Source != "page1.jpg" || docs[0].Status != constants.DocStatusSucceeded {
		t.Errorf("docs[0] = %+v, want succeeded page1.jpg at position 1", docs[0])
	}
	if docs[1].ErrorKind != constants.ErrorKindMalformed {
		t.Errorf("docs[1].ErrorKind = %q, want %q", docs[1].ErrorKind, constants.ErrorKindMalformed)
	}
	if docs[1].RawResponse != "sorry, no JSON today" {
		t.Errorf("docs[1].RawResponse = %q, raw oracle text must survive the round trip", docs[1].RawResponse)
	}
}

func TestRecordRunTruncatesRaw(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	result := testResult()
	result.Statuses[1].Raw = strings.Repeat("x", maxRawLen+500)

	if err := s.RecordRun(ctx, result); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	docs, err := s.ListRunDocuments(ctx, result.RunID.String())
	if err != nil {
		t.Fatalf("ListRunDocuments() error = %v", err)
	}
	if got := len(docs[1].RawResponse); got != maxRawLen {
		t.Errorf("len(RawResponse) = %d, want %d", got, maxRawLen)
	}
}

func TestListRunsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := testResult()
	newer := testResult()
	newer.Started = older.Started.Add(time.Hour)
	newer.Finished = newer.Started.Add(time.Minute)

	if err := s.RecordRun(ctx, older); err != nil {
		t.Fatalf("RecordRun(older) error = %v", err)
	}
	if err := s.RecordRun(ctx, newer); err != nil {
		t.Fatalf("RecordRun(newer) error = %v", err)
	}

	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != newer.RunID.String() {
		t.Errorf("ListRuns(1) = %+v, want only the newest run", runs)
	}
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := Open(context.Background(), Config{}, logger); err == nil {
		t.Errorf("Open() with empty DSN must fail")
	}
}
