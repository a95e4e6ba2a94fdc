// Package journal records workflow progress events in SQLite.
//
// Every step completion and task completion appends one event row, so
// the status surface can show a timeline and per-feature counts that
// survive state-file resets. The journal is strictly additive and
// best-effort: the workflow state file stays the source of truth for
// where a feature currently is.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Event kinds.
const (
	KindStepComplete = "step_complete"
	KindTaskComplete = "task_complete"
)

// Event is one recorded moment of workflow progress.
type Event struct {
	ID        string `json:"id"`
	Feature   string `json:"feature"`
	Kind      string `json:"kind"`
	Step      string `json:"step,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// FeatureStats aggregates journal history for one feature.
type FeatureStats struct {
	Feature        string `json:"feature"`
	StepsCompleted int    `json:"steps_completed"`
	TasksCompleted int    `json:"tasks_completed"`
	FirstEventAt   string `json:"first_event_at,omitempty"`
	LastEventAt    string `json:"last_event_at,omitempty"`
}

// Store is the SQLite-backed journal.
type Store struct {
	db *sql.DB
}

// Open creates the journal database at path (creating parent
// directories as needed), applies pragmas, and migrates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			feature    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			step       TEXT,
			detail     TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_feature ON events(feature, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_events_kind    ON events(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one event. A missing id is assigned, a missing
// timestamp is stamped with the current instant.
func (s *Store) Append(e Event) (Event, error) {
	if e.Feature == "" {
		return Event{}, fmt.Errorf("journal: event feature must not be empty")
	}
	if e.Kind == "" {
		return Event{}, fmt.Errorf("journal: event kind must not be empty")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = timeNow().UTC().Format(time.RFC3339)
	}

	_, err := s.db.Exec(`
		INSERT INTO events (id, feature, kind, step, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, e.ID, e.Feature, e.Kind, e.Step, e.Detail, e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("journal: append event: %w", err)
	}
	return e, nil
}

// Timeline returns the most recent events for a feature, newest first.
// An empty feature returns events across all features.
func (s *Store) Timeline(feature string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `
		SELECT id, feature, kind, COALESCE(step, ''), COALESCE(detail, ''), created_at
		FROM events
	`
	args := []any{}
	if feature != "" {
		query += " WHERE feature = ?"
		args = append(args, feature)
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: timeline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Feature, &e.Kind, &e.Step, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Stats aggregates event counts for one feature.
func (s *Store) Stats(feature string) (*FeatureStats, error) {
	if feature == "" {
		return nil, fmt.Errorf("journal: feature must not be empty")
	}

	stats := &FeatureStats{Feature: feature}
	var first, last sql.NullString
	err := s.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN kind = ? THEN 1 END),
			COUNT(CASE WHEN kind = ? THEN 1 END),
			MIN(created_at),
			MAX(created_at)
		FROM events WHERE feature = ?;
	`, KindStepComplete, KindTaskComplete, feature).Scan(
		&stats.StepsCompleted, &stats.TasksCompleted, &first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: stats: %w", err)
	}
	if first.Valid {
		stats.FirstEventAt = first.String
	}
	if last.Valid {
		stats.LastEventAt = last.String
	}
	return stats, nil
}
