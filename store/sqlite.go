// ABOUTME: SQLite-backed run index for listing runs across restarts without walking the data dir.
// ABOUTME: Queryable cache, not the source of truth; the final report JSON on disk is.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// RunRecord is one row of the run index.
type RunRecord struct {
	RunID      string
	Filename   string
	Status     string
	Complexity int
	Coverage   float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Index is a SQLite-backed index of runs for fast list queries.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the run index database at the given path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			status TEXT NOT NULL,
			complexity INTEGER NOT NULL DEFAULT 0,
			coverage REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// UpsertRun inserts or updates a run row. CreatedAt is preserved on update.
func (idx *Index) UpsertRun(rec RunRecord) error {
	_, err := idx.db.Exec(
		`INSERT INTO runs (run_id, filename, status, complexity, coverage, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			filename = excluded.filename,
			status = excluded.status,
			complexity = excluded.complexity,
			coverage = excluded.coverage,
			updated_at = excluded.updated_at`,
		rec.RunID,
		rec.Filename,
		rec.Status,
		rec.Complexity,
		rec.Coverage,
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

// GetRun returns the indexed row for a run id.
// Returns false when the run is not indexed.
func (idx *Index) GetRun(runID string) (RunRecord, bool, error) {
	var rec RunRecord
	var created, updated string
	err := idx.db.QueryRow(
		`SELECT run_id, filename, status, complexity, coverage, created_at, updated_at
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&rec.RunID, &rec.Filename, &rec.Status, &rec.Complexity, &rec.Coverage, &created, &updated)
	if err == sql.ErrNoRows {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("query run: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return rec, true, nil
}

// ListRuns returns all indexed runs ordered by most recently updated.
func (idx *Index) ListRuns() ([]RunRecord, error) {
	rows, err := idx.db.Query(
		`SELECT run_id, filename, status, complexity, coverage, created_at, updated_at
		 FROM runs ORDER BY updated_at DESC, run_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created, updated string
		if err := rows.Scan(&rec.RunID, &rec.Filename, &rec.Status, &rec.Complexity,
			&rec.Coverage, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
