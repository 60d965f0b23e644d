// Package history keeps a SQLite log of sent transactions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sent_at     TEXT    NOT NULL,
	method      TEXT    NOT NULL,
	url         TEXT    NOT NULL,
	status      INTEGER NOT NULL DEFAULT 0,
	duration_us INTEGER NOT NULL DEFAULT 0,
	bytes       INTEGER NOT NULL DEFAULT 0,
	error       TEXT    NOT NULL DEFAULT ''
)`

// Entry is one logged transaction. Status is 0 when Error is set.
type Entry struct {
	ID       int64         `json:"id"`
	Time     time.Time     `json:"time"`
	Method   string        `json:"method"`
	URL      string        `json:"url"`
	Status   int           `json:"status,omitempty"`
	Duration time.Duration `json:"duration"`
	Bytes    int           `json:"bytes"`
	Error    string        `json:"error,omitempty"`
}

// Store is a transaction log backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens or creates the log at path. "sqlite://" and "sqlite:"
// prefixes are accepted.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := dataSource(path)
	if dsn == "" {
		return nil, fmt.Errorf("empty history path")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history %s: %w", dsn, err)
	}
	return &Store{db: db}, nil
}

func dataSource(path string) string {
	path = strings.TrimSpace(path)
	if p, ok := strings.CutPrefix(path, "sqlite://"); ok {
		return p
	}
	if p, ok := strings.CutPrefix(path, "sqlite:"); ok {
		return p
	}
	return path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends e. A zero Time is replaced by the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (sent_at, method, url, status, duration_us, bytes, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time.UTC().Format(time.RFC3339Nano), e.Method, e.URL, e.Status,
		e.Duration.Microseconds(), e.Bytes, e.Error)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit below 1
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, sent_at, method, url, status, duration_us, bytes, error
		FROM transactions ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e      Entry
			sentAt string
			micros int64
		)
		if err := rows.Scan(&e.ID, &sentAt, &e.Method, &e.URL, &e.Status, &micros, &e.Bytes, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if e.Time, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
			return nil, fmt.Errorf("row %d: bad timestamp %q: %w", e.ID, sentAt, err)
		}
		e.Duration = time.Duration(micros) * time.Microsecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}
