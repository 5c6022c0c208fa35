// Package fieldstore persists scanned field grids in SQLite so that
// scan runs can be replayed and rendered without recomputing the cell.
package fieldstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// ErrNotFound is returned when a run id does not exist in the store.
var ErrNotFound = errors.New("fieldstore: run not found")

// Sample is one grid point of a scan run.
type Sample struct {
	X, Y   float64
	Ex, Ey float64
	V      float64
	Status int
}

// RunMeta describes a stored scan run.
type RunMeta struct {
	ID        string
	CellType  string
	CreatedAt time.Time
	X0, Y0    float64
	X1, Y1    float64
	NX, NY    int
}

// Run is a scan run with its samples in row-major grid order.
type Run struct {
	RunMeta
	Samples []Sample
}

// Store wraps the SQLite database holding the scan runs.
type Store struct {
	*sql.DB
}

// Open opens (or creates) the store at path and applies any pending
// schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("fieldstore: failed to load embedded migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("fieldstore: failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("fieldstore: failed to create migrate instance: %w", err)
	}
	// Note: m is not closed here because that would close the
	// underlying database connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("fieldstore: migration failed: %w", err)
	}
	return nil
}

// SaveRun stores a run and its samples. A missing run id is assigned a
// fresh uuid; a zero CreatedAt is set to the current time.
func (s *Store) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, cell_type, created_at_unix, x0, y0, x1, y1, nx, ny)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CellType, run.CreatedAt.Unix(),
		run.X0, run.Y0, run.X1, run.Y1, run.NX, run.NY)
	if err != nil {
		return fmt.Errorf("fieldstore: failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO samples (run_id, idx, x, y, ex, ey, v, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, smp := range run.Samples {
		if _, err := stmt.Exec(run.ID, i, smp.X, smp.Y, smp.Ex, smp.Ey, smp.V, smp.Status); err != nil {
			return fmt.Errorf("fieldstore: failed to insert sample %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Run loads a stored run with all its samples.
func (s *Store) Run(id string) (*Run, error) {
	run := &Run{}
	var createdAt int64
	err := s.QueryRow(`
		SELECT id, cell_type, created_at_unix, x0, y0, x1, y1, nx, ny
		FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.CellType, &createdAt,
		&run.X0, &run.Y0, &run.X1, &run.Y1, &run.NX, &run.NY)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()

	rows, err := s.Query(`
		SELECT x, y, ex, ey, v, status FROM samples
		WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(&smp.X, &smp.Y, &smp.Ex, &smp.Ey, &smp.V, &smp.Status); err != nil {
			return nil, err
		}
		run.Samples = append(run.Samples, smp)
	}
	return run, rows.Err()
}

// ListRuns returns the metadata of all stored runs, newest first.
func (s *Store) ListRuns() ([]RunMeta, error) {
	rows, err := s.Query(`
		SELECT id, cell_type, created_at_unix, x0, y0, x1, y1, nx, ny
		FROM runs ORDER BY created_at_unix DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var metas []RunMeta
	for rows.Next() {
		var m RunMeta
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.CellType, &createdAt,
			&m.X0, &m.Y0, &m.X1, &m.Y1, &m.NX, &m.NY); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// DeleteRun removes a run and its samples.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM samples WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
