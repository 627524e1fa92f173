package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartRun records a new run at export start.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	return s.execWithRetry(
		ctx,
		`INSERT INTO export_runs (
            run_id, mode, status, format, codec, width, height, fps,
            duration_seconds, total_frames, started_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Mode,
		run.Status,
		run.Format,
		run.Codec,
		run.Width,
		run.Height,
		run.FPS,
		run.DurationSeconds,
		run.TotalFrames,
		started.Format(time.RFC3339Nano),
		now,
	)
}

// UpdateProgress refreshes the live progress columns of a running export.
func (s *Store) UpdateProgress(ctx context.Context, runID, status string, framesDone int, progress float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(
		ctx,
		`UPDATE export_runs
            SET status = ?, frames_done = ?, progress = ?, updated_at = ?
          WHERE run_id = ?`,
		status, framesDone, progress, now, runID,
	)
}

// FinishRun records the terminal state of a run.
func (s *Store) FinishRun(ctx context.Context, runID, status, artifactPath string, segmentCount int, bytes int64, errorMessage string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(
		ctx,
		`UPDATE export_runs
            SET status = ?, artifact_path = ?, segment_count = ?, bytes = ?,
                error_message = ?, finished_at = ?, updated_at = ?
          WHERE run_id = ?`,
		status,
		nullableString(artifactPath),
		segmentCount,
		bytes,
		nullableString(errorMessage),
		now, now, runID,
	)
}

// GetRun returns one run by its export run identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), selectRuns+" WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		selectRuns+" ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectRuns = `SELECT id, run_id, mode, status, format, codec, width, height, fps,
    duration_seconds, total_frames, frames_done, progress, artifact_path,
    segment_count, bytes, error_message, started_at, finished_at, updated_at
  FROM export_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run          Run
		artifactPath sql.NullString
		errorMessage sql.NullString
		startedAt    string
		finishedAt   sql.NullString
		updatedAt    string
	)
	err := row.Scan(
		&run.ID, &run.RunID, &run.Mode, &run.Status, &run.Format, &run.Codec,
		&run.Width, &run.Height, &run.FPS, &run.DurationSeconds,
		&run.TotalFrames, &run.FramesDone, &run.Progress, &artifactPath,
		&run.SegmentCount, &run.Bytes, &errorMessage,
		&startedAt, &finishedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.ArtifactPath = artifactPath.String
	run.ErrorMessage = errorMessage.String
	run.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTimestamp(finishedAt.String)
	}
	run.UpdatedAt = parseTimestamp(updatedAt)
	return &run, nil
}

func parseTimestamp(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
