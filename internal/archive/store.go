// Package archive persists aggregated trace tables to SQLite so expensive
// multi-file aggregations can be reloaded across runs. Each saved table is
// a "run" keyed by a UUID, with its source file list and creation time.
package archive

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/simvis/internal/trace"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a handle on one archive database.
type Store struct {
	db *sql.DB
}

// Run describes one archived aggregation.
type Run struct {
	RunID     string   `json:"run_id"`
	CreatedAt int64    `json:"created_at"`
	Sources   []string `json:"sources"`
	RowCount  int      `json:"row_count"`
}

// Open opens (creating if necessary) the archive at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	// Not closing m: that would close the shared DB connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SaveRun archives a table with its source file list and returns the new
// run id. The insert is transactional; a failed row insert leaves nothing
// behind.
func (s *Store) SaveRun(t trace.Table, sources []string) (string, error) {
	runID := uuid.New().String()

	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return "", fmt.Errorf("encode sources: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, created_at, sources, row_count) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UnixNano(), string(sourcesJSON), t.Len(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trace_rows (
			run_id, seq, id, rate, temperature, density,
			ionized_hydrogen_fraction, scale_factor, time_myr,
			recomb, coll_ion, rate_log10
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		if _, err := stmt.Exec(
			runID, i, r.ID, r.Rate, r.Temperature, r.Density,
			r.IonFraction, r.ScaleFactor, r.TimeMyr,
			r.Recomb, r.CollIon, r.RateLog10,
		); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit archive tx: %w", err)
	}
	return runID, nil
}

// LoadRun reads an archived table back in its original row order.
func (s *Store) LoadRun(runID string) (trace.Table, error) {
	rows, err := s.db.Query(`
		SELECT id, rate, temperature, density, ionized_hydrogen_fraction,
		       scale_factor, time_myr, recomb, coll_ion, rate_log10
		FROM trace_rows
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return trace.Table{}, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	var t trace.Table
	for rows.Next() {
		var r trace.Record
		if err := rows.Scan(
			&r.ID, &r.Rate, &r.Temperature, &r.Density, &r.IonFraction,
			&r.ScaleFactor, &r.TimeMyr, &r.Recomb, &r.CollIon, &r.RateLog10,
		); err != nil {
			return trace.Table{}, fmt.Errorf("scan run %s: %w", runID, err)
		}
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return trace.Table{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	if t.Len() == 0 {
		var n int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID).Scan(&n); err == nil && n == 0 {
			return trace.Table{}, fmt.Errorf("no archived run %s", runID)
		}
	}
	return t, nil
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, created_at, sources, row_count
		FROM runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var sourcesJSON string
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &sourcesJSON, &r.RowCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &r.Sources); err != nil {
			return nil, fmt.Errorf("decode sources for %s: %w", r.RunID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
