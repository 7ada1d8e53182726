package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// DefaultRunLimit is used by ListRecent when the caller passes a non-positive limit.
const DefaultRunLimit = 20

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, video_id, page_url, status, error_kind, error_message, comment_count,
	positive_count, negative_count, neutral_count, started_at, finished_at`

// RunRepo is the SQLite implementation of the RunStore port interface.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record appends a run to the history and returns its ID.
func (r *RunRepo) Record(ctx context.Context, run model.AnalysisRun) (int64, error) {
	const query = `INSERT INTO analysis_runs (
		video_id, page_url, status, error_kind, error_message, comment_count,
		positive_count, negative_count, neutral_count, started_at, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = started
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		run.VideoID,
		run.PageURL,
		string(run.Status),
		run.ErrorKind,
		run.ErrorMessage,
		run.CommentCount,
		run.Counts.Positive,
		run.Counts.Negative,
		run.Counts.Neutral,
		formatTime(started),
		formatTime(finished),
	)
	if err != nil {
		return 0, fmt.Errorf("record run for video %q: %w", run.VideoID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	return id, nil
}

// Get returns a run by ID, or driven.ErrRunNotFound.
func (r *RunRepo) Get(ctx context.Context, id int64) (*model.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE id = ?`

	run, err := scanRun(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %d: %w", id, driven.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}

	return run, nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY started_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []model.AnalysisRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	var status, startedAt, finishedAt string

	err := s.Scan(
		&run.ID,
		&run.VideoID,
		&run.PageURL,
		&status,
		&run.ErrorKind,
		&run.ErrorMessage,
		&run.CommentCount,
		&run.Counts.Positive,
		&run.Counts.Negative,
		&run.Counts.Neutral,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Status = model.RunStatus(status)

	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}

	return &run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
