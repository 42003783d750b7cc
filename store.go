package carstan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord describes one completed sampler run
type RunRecord struct {
	ID          string
	Variant     string
	Generations int
	ElapsedSec  float64
	Created     time.Time
}

// SampleStore persists posterior draws to a sqlite database so runs can be
// compared after the fact
type SampleStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSampleStore points a store at a sqlite file; Init opens it
func NewSampleStore(path string) *SampleStore {
	return &SampleStore{path: path}
}

// Init opens the database and creates the schema if needed
func (s *SampleStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("carstan: sample store path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// SaveRun records the metadata of one run
func (s *SampleStore) SaveRun(ctx context.Context, rec RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, variant, generations, elapsed_sec, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			variant = excluded.variant,
			generations = excluded.generations,
			elapsed_sec = excluded.elapsed_sec,
			created_at = excluded.created_at
	`, rec.ID, rec.Variant, rec.Generations, rec.ElapsedSec, rec.Created.UTC().Format(time.RFC3339))
	return err
}

// SaveTrace stores every parameter's draws for one chain of a run
func (s *SampleStore) SaveTrace(ctx context.Context, runID string, chain int, tr *Trace) error {
	for _, name := range tr.Names {
		if err := s.SaveDraws(ctx, runID, chain, name, tr.Draws[name]); err != nil {
			return err
		}
	}
	return s.SaveDraws(ctx, runID, chain, "logPosterior", tr.LogPost)
}

// SaveDraws stores the draw sequence of a single parameter as a JSON payload
func (s *SampleStore) SaveDraws(ctx context.Context, runID string, chain int, param string, draws []float64) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(draws)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO samples (run_id, chain, param, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, chain, param) DO UPDATE SET
			payload = excluded.payload
	`, runID, chain, param, payload)
	return err
}

// GetDraws loads the draw sequence of a single parameter; the bool reports
// whether it was present
func (s *SampleStore) GetDraws(ctx context.Context, runID string, chain int, param string) ([]float64, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}
	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM samples WHERE run_id = ? AND chain = ? AND param = ?`,
		runID, chain, param).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var draws []float64
	if err := json.Unmarshal(payload, &draws); err != nil {
		return nil, false, fmt.Errorf("decode draws %s/%d/%s: %w", runID, chain, param, err)
	}
	return draws, true, nil
}

// ListRuns returns all stored runs, newest first
func (s *SampleStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, variant, generations, elapsed_sec, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Variant, &rec.Generations, &rec.ElapsedSec, &created); err != nil {
			return nil, err
		}
		rec.Created, _ = time.Parse(time.RFC3339, created)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close releases the database handle
func (s *SampleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SampleStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("carstan: sample store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			generations INTEGER NOT NULL,
			elapsed_sec REAL NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL,
			chain INTEGER NOT NULL,
			param TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, chain, param)
		);
	`)
	return err
}
