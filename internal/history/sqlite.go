package history

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-visit-pipeline/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists visit history in a local SQLite file so counts
// survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the history database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &model.StoreError{Op: "history open", Err: err}
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmt := `
	CREATE TABLE IF NOT EXISTS visit_history (
		caller_id   TEXT PRIMARY KEY,
		visit_count INTEGER NOT NULL,
		last_visit  TEXT NOT NULL,
		updated_at  DATETIME
	);
	`
	if _, err := s.db.Exec(stmt); err != nil {
		return &model.StoreError{Op: "history migrate", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, callerID string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT visit_count, last_visit FROM visit_history WHERE caller_id = ?`, callerID)

	var count int
	var last string
	switch err := row.Scan(&count, &last); err {
	case nil:
	case sql.ErrNoRows:
		return Entry{}, false, nil
	default:
		return Entry{}, false, &model.StoreError{Op: "history get", Err: err}
	}

	lastVisit, err := time.ParseInLocation(dateLayout, last, time.UTC)
	if err != nil {
		return Entry{}, false, &model.StoreError{Op: "history get", Err: err}
	}
	return Entry{CallerID: callerID, VisitCount: count, LastVisit: lastVisit}, true, nil
}

// Upsert applies the monotonic-max rule: first visit inserts count 1,
// a newer date increments the count and advances the date, and a date
// not newer than the recorded one leaves the row untouched.
func (s *SQLiteStore) Upsert(ctx context.Context, callerID string, visitDate time.Time) (Entry, error) {
	date := DateOnly(visitDate)

	entry, ok, err := s.Get(ctx, callerID)
	if err != nil {
		return Entry{}, err
	}
	if ok && !date.After(entry.LastVisit) {
		return entry, nil
	}

	next := Entry{CallerID: callerID, VisitCount: entry.VisitCount + 1, LastVisit: date}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO visit_history (caller_id, visit_count, last_visit, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(caller_id) DO UPDATE SET
			visit_count = excluded.visit_count,
			last_visit  = excluded.last_visit,
			updated_at  = excluded.updated_at`,
		callerID, next.VisitCount, date.Format(dateLayout), time.Now().UTC())
	if err != nil {
		return Entry{}, &model.StoreError{Op: "history upsert", Err: err}
	}
	return next, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT caller_id, visit_count, last_visit FROM visit_history ORDER BY caller_id ASC`)
	if err != nil {
		return nil, &model.StoreError{Op: "history list", Err: err}
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var last string
		if err := rows.Scan(&e.CallerID, &e.VisitCount, &last); err != nil {
			return nil, &model.StoreError{Op: "history list", Err: err}
		}
		e.LastVisit, err = time.ParseInLocation(dateLayout, last, time.UTC)
		if err != nil {
			return nil, &model.StoreError{Op: "history list", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "history list", Err: err}
	}
	return entries, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visit_history`); err != nil {
		return &model.StoreError{Op: "history clear", Err: err}
	}
	return nil
}

// Count returns the number of callers with recorded history.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visit_history`).Scan(&n); err != nil {
		return 0, &model.StoreError{Op: "history count", Err: err}
	}
	return n, nil
}
