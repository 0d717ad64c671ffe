package store

import (
	"context"
	"database/sql"
)

// IngestRun is one row of the ingest log: a single pipeline run with
// its outcome counts.
type IngestRun struct {
	RunID      string `json:"run_id"`
	Source     string `json:"source"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Status     string `json:"status"` // "running", "done", "error"
	Processed  int    `json:"processed"`
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
	Error      string `json:"error,omitempty"`
}

// BeginIngestRun records the start of a run.
func (s *Store) BeginIngestRun(ctx context.Context, runID, source string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO ingest_log (run_id, source) VALUES (?, ?)`, runID, source)
	return err
}

// FinishIngestRun closes a run with its final status and counts.
func (s *Store) FinishIngestRun(ctx context.Context, runID, status string, processed, inserted, skipped int, errMsg string) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE ingest_log
		SET finished_at = datetime('now'), status = ?,
		    processed = ?, inserted = ?, skipped = ?, error = ?
		WHERE run_id = ?`,
		status, processed, inserted, skipped, errMsg, runID)
	return err
}

// RecentIngestRuns returns the latest N runs, newest first.
func (s *Store) RecentIngestRuns(ctx context.Context, limit int) ([]*IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT run_id, source, started_at, finished_at, status,
		       processed, inserted, skipped, error
		FROM ingest_log ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*IngestRun
	for rows.Next() {
		r := &IngestRun{}
		var finished sql.NullString
		if err := rows.Scan(&r.RunID, &r.Source, &r.StartedAt, &finished,
			&r.Status, &r.Processed, &r.Inserted, &r.Skipped, &r.Error); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = finished.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
