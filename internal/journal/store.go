package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run ID is not present in the journal.
var ErrRunNotFound = errors.New("run not found")

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database under dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new run row and returns it with a fresh ID.
func (s *Store) BeginRun(ctx context.Context, historyFile, manifestFile string, maxDeltaSeconds int64) (*Run, error) {
	run := &Run{
		ID:              uuid.NewString(),
		StartedAt:       time.Now().UTC(),
		HistoryFile:     historyFile,
		ManifestFile:    manifestFile,
		MaxDeltaSeconds: maxDeltaSeconds,
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, history_file, manifest_file, max_delta_seconds)
         VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.HistoryFile,
		run.ManifestFile,
		run.MaxDeltaSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// AddMatches records the positively matched events of a run in one
// transaction.
func (s *Store) AddMatches(ctx context.Context, runID string, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin matches tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (run_id, event_id, latitude, longitude, delta_seconds)
         VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		var lat, lon sql.NullFloat64
		if m.HasCoordinate {
			lat = sql.NullFloat64{Float64: m.Latitude, Valid: true}
			lon = sql.NullFloat64{Float64: m.Longitude, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, m.EventID, lat, lon, m.DeltaSeconds); err != nil {
			return fmt.Errorf("insert match %s: %w", m.EventID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit matches: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion time and outcome counts.
func (s *Store) FinishRun(ctx context.Context, runID string, total, matched int) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, events_total = ?, events_matched = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		total,
		matched,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 means no
// limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, finished_at, history_file, manifest_file,
              max_delta_seconds, events_total, events_matched
              FROM runs ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches a single run by its full ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, history_file, manifest_file,
         max_delta_seconds, events_total, events_matched
         FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RunMatches returns the matched events of a run in event-ID order.
func (s *Store) RunMatches(ctx context.Context, runID string) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, latitude, longitude, delta_seconds
         FROM matches WHERE run_id = ? ORDER BY event_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&m.EventID, &lat, &lon, &m.DeltaSeconds); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if lat.Valid && lon.Valid {
			m.Latitude = lat.Float64
			m.Longitude = lon.Float64
			m.HasCoordinate = true
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	err := row.Scan(
		&run.ID,
		&started,
		&finished,
		&run.HistoryFile,
		&run.ManifestFile,
		&run.MaxDeltaSeconds,
		&run.EventsTotal,
		&run.EventsMatched,
	)
	if err != nil {
		return Run{}, err
	}

	run.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if finished.Valid {
		ts, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = &ts
	}
	return run, nil
}
