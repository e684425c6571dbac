// Package store tracks run lifecycle: one row per processed batch,
// plus its warnings and persisted results. Runs are bookkeeping only;
// the visit history lives in its own store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-visit-pipeline/internal/model"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one processed (or failed) batch.
type Run struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	RecordCount int        `json:"record_count"`
	UsableCount int        `json:"usable_count"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Store wraps SQLite access for run bookkeeping.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &model.StoreError{Op: "runs open", Err: err}
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			source       TEXT,
			status       TEXT,
			record_count INTEGER,
			usable_count INTEGER,
			reason       TEXT,
			created_at   DATETIME,
			updated_at   DATETIME,
			finished_at  DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_warnings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT,
			row        INTEGER,
			caller_id  TEXT,
			reason     TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id             TEXT PRIMARY KEY,
			aggregation_json   TEXT,
			rows_json          TEXT,
			cancellations_json TEXT,
			created_at         DATETIME
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return &model.StoreError{Op: "runs migrate", Err: err}
		}
	}
	return nil
}

func (s *Store) CreateRun(ctx context.Context, id, source string, recordCount int) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, status, record_count, usable_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		id, source, StatusRunning, recordCount, now, now)
	if err != nil {
		return &model.StoreError{Op: "run create", Err: err}
	}
	return nil
}

func (s *Store) MarkRunCompleted(ctx context.Context, id string, usableCount int) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, usable_count = ?, updated_at = ?, finished_at = ? WHERE id = ?`,
		StatusCompleted, usableCount, now, now, id)
	if err != nil {
		return &model.StoreError{Op: "run complete", Err: err}
	}
	return nil
}

func (s *Store) MarkRunFailed(ctx context.Context, id, reason string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, reason = ?, updated_at = ?, finished_at = ? WHERE id = ?`,
		StatusFailed, reason, now, now, id)
	if err != nil {
		return &model.StoreError{Op: "run fail", Err: err}
	}
	return nil
}

func (s *Store) SaveWarnings(ctx context.Context, id string, warnings []model.Warning) error {
	now := time.Now().UTC()
	for _, w := range warnings {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO run_warnings (run_id, row, caller_id, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
			id, w.Row, w.CallerID, w.Reason, now)
		if err != nil {
			return &model.StoreError{Op: "warnings save", Err: err}
		}
	}
	return nil
}

func (s *Store) Warnings(ctx context.Context, id string) ([]model.Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row, caller_id, reason FROM run_warnings WHERE run_id = ? ORDER BY id ASC`, id)
	if err != nil {
		return nil, &model.StoreError{Op: "warnings list", Err: err}
	}
	defer rows.Close()

	var warnings []model.Warning
	for rows.Next() {
		var w model.Warning
		if err := rows.Scan(&w.Row, &w.CallerID, &w.Reason); err != nil {
			return nil, &model.StoreError{Op: "warnings list", Err: err}
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "warnings list", Err: err}
	}
	return warnings, nil
}

// SaveResult persists a run's aggregation, export rows, and
// cancellation list as JSON blobs for later retrieval over the API.
func (s *Store) SaveResult(ctx context.Context, id string, result model.AggregationResult, exportRows []model.ExportRow, cancellations []model.CancellationEntry) error {
	agg, err := json.Marshal(result)
	if err != nil {
		return &model.StoreError{Op: "result save", Err: err}
	}
	rowsJSON, err := json.Marshal(exportRows)
	if err != nil {
		return &model.StoreError{Op: "result save", Err: err}
	}
	cancelJSON, err := json.Marshal(cancellations)
	if err != nil {
		return &model.StoreError{Op: "result save", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO run_results (run_id, aggregation_json, rows_json, cancellations_json, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			aggregation_json = excluded.aggregation_json,
			rows_json = excluded.rows_json,
			cancellations_json = excluded.cancellations_json`,
		id, string(agg), string(rowsJSON), string(cancelJSON), time.Now().UTC())
	if err != nil {
		return &model.StoreError{Op: "result save", Err: err}
	}
	return nil
}

// Result loads a run's persisted output. Returns ok=false when the run
// produced no stored result (failed or unknown run).
func (s *Store) Result(ctx context.Context, id string) (model.AggregationResult, []model.ExportRow, []model.CancellationEntry, bool, error) {
	var aggJSON, rowsJSON, cancelJSON string
	row := s.db.QueryRowContext(ctx,
		`SELECT aggregation_json, rows_json, cancellations_json FROM run_results WHERE run_id = ?`, id)
	switch err := row.Scan(&aggJSON, &rowsJSON, &cancelJSON); err {
	case nil:
	case sql.ErrNoRows:
		return model.AggregationResult{}, nil, nil, false, nil
	default:
		return model.AggregationResult{}, nil, nil, false, &model.StoreError{Op: "result get", Err: err}
	}

	var result model.AggregationResult
	var exportRows []model.ExportRow
	var cancellations []model.CancellationEntry
	if err := json.Unmarshal([]byte(aggJSON), &result); err != nil {
		return model.AggregationResult{}, nil, nil, false, &model.StoreError{Op: "result get", Err: err}
	}
	if err := json.Unmarshal([]byte(rowsJSON), &exportRows); err != nil {
		return model.AggregationResult{}, nil, nil, false, &model.StoreError{Op: "result get", Err: err}
	}
	if err := json.Unmarshal([]byte(cancelJSON), &cancellations); err != nil {
		return model.AggregationResult{}, nil, nil, false, &model.StoreError{Op: "result get", Err: err}
	}
	return result, exportRows, cancellations, true, nil
}

func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, status, record_count, usable_count, reason, created_at, updated_at, finished_at
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &model.StoreError{Op: "run get", Err: err}
	}
	return r, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, status, record_count, usable_count, reason, created_at, updated_at, finished_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &model.StoreError{Op: "runs list", Err: err}
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, &model.StoreError{Op: "runs list", Err: err}
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "runs list", Err: err}
	}
	return runs, nil
}

func scanRun(scan func(...any) error) (*Run, error) {
	var r Run
	var reason sql.NullString
	var finished sql.NullTime
	if err := scan(&r.ID, &r.Source, &r.Status, &r.RecordCount, &r.UsableCount, &reason, &r.CreatedAt, &r.UpdatedAt, &finished); err != nil {
		return nil, err
	}
	if reason.Valid {
		r.Reason = reason.String
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

// Health returns an error if the database is not reachable.
func (s *Store) Health(ctx context.Context) error {
	var v int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&v); err != nil {
		return &model.StoreError{Op: "runs health", Err: err}
	}
	return nil
}
