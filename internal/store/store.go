// Package store persists the session state, the dataset registry and the
// active ephemeris, in a local SQLite database. Saves are destructive
// replacements of whole tables; the registry in memory is always the source
// of truth and the store only survives process restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/cepheid/internal/dataset"
	"github.com/papapumpkin/cepheid/internal/ephemeris"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    label       TEXT PRIMARY KEY,
    position    INTEGER NOT NULL,
    kind        TEXT NOT NULL,
    passband    TEXT NOT NULL DEFAULT '',
    source      TEXT NOT NULL DEFAULT '',
    show_data   INTEGER NOT NULL DEFAULT 0,
    show_model  INTEGER NOT NULL DEFAULT 0,
    phase_min   REAL NOT NULL,
    phase_max   REAL NOT NULL,
    resolution  INTEGER NOT NULL,
    times       TEXT NOT NULL DEFAULT '[]',
    sigmas      TEXT NOT NULL DEFAULT '[]',
    fluxes      TEXT NOT NULL DEFAULT '[]',
    rv1s        TEXT NOT NULL DEFAULT '[]',
    rv2s        TEXT NOT NULL DEFAULT '[]',
    model_fluxes TEXT NOT NULL DEFAULT '[]',
    model_rv1s   TEXT NOT NULL DEFAULT '[]',
    model_rv2s   TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS ephemeris (
    id     INTEGER PRIMARY KEY CHECK (id = 1),
    period REAL NOT NULL,
    t0     REAL NOT NULL
);
`

// Store is the SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath, enables WAL mode and a
// busy timeout, and creates the schema tables if they do not exist. Parent
// directories are created as needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; using
	// one connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup. WAL mode still benefits external
	// readers and provides crash-safe writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	// Busy timeout avoids SQLITE_BUSY under concurrent access from external processes.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveEphemeris upserts the single active ephemeris row.
func (s *Store) SaveEphemeris(ctx context.Context, eph ephemeris.Ephemeris) error {
	const q = `
		INSERT INTO ephemeris (id, period, t0) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET period = excluded.period, t0 = excluded.t0`
	if _, err := s.db.ExecContext(ctx, q, eph.Period, eph.T0); err != nil {
		return fmt.Errorf("store: save ephemeris: %w", err)
	}
	return nil
}

// LoadEphemeris returns the stored ephemeris. found is false when no
// ephemeris has ever been saved.
func (s *Store) LoadEphemeris(ctx context.Context) (eph ephemeris.Ephemeris, found bool, err error) {
	err = s.db.QueryRowContext(ctx, "SELECT period, t0 FROM ephemeris WHERE id = 1").
		Scan(&eph.Period, &eph.T0)
	if errors.Is(err, sql.ErrNoRows) {
		return ephemeris.Ephemeris{}, false, nil
	}
	if err != nil {
		return ephemeris.Ephemeris{}, false, fmt.Errorf("store: load ephemeris: %w", err)
	}
	return eph, true, nil
}

// SaveRecords replaces the whole datasets table with the given records in a
// single transaction. Positions record the registry's insertion order.
func (s *Store) SaveRecords(ctx context.Context, records []dataset.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for datasets: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM datasets"); err != nil {
		return fmt.Errorf("store: clear datasets: %w", err)
	}

	const q = `
		INSERT INTO datasets (
			label, position, kind, passband, source, show_data, show_model,
			phase_min, phase_max, resolution,
			times, sigmas, fluxes, rv1s, rv2s,
			model_fluxes, model_rv1s, model_rv2s
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("store: prepare dataset insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		cols, err := encodeArrays(&rec)
		if err != nil {
			return fmt.Errorf("store: encode dataset %q: %w", rec.Label, err)
		}
		_, err = stmt.ExecContext(ctx,
			rec.Label, i, string(rec.Kind), rec.Passband, string(rec.Source),
			rec.ShowData, rec.ShowModel,
			rec.Window.PhaseMin, rec.Window.PhaseMax, rec.Window.Resolution,
			cols.times, cols.sigmas, cols.fluxes, cols.rv1s, cols.rv2s,
			cols.modelFluxes, cols.modelRV1s, cols.modelRV2s,
		)
		if err != nil {
			return fmt.Errorf("store: insert dataset %q: %w", rec.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit datasets: %w", err)
	}
	return nil
}

// LoadRecords returns all stored records in their saved registry order.
func (s *Store) LoadRecords(ctx context.Context) ([]dataset.Record, error) {
	const q = `
		SELECT label, kind, passband, source, show_data, show_model,
			phase_min, phase_max, resolution,
			times, sigmas, fluxes, rv1s, rv2s,
			model_fluxes, model_rv1s, model_rv2s
		FROM datasets ORDER BY position`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: query datasets: %w", err)
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var rec dataset.Record
		var kind, source string
		var cols arrayColumns
		err := rows.Scan(
			&rec.Label, &kind, &rec.Passband, &source, &rec.ShowData, &rec.ShowModel,
			&rec.Window.PhaseMin, &rec.Window.PhaseMax, &rec.Window.Resolution,
			&cols.times, &cols.sigmas, &cols.fluxes, &cols.rv1s, &cols.rv2s,
			&cols.modelFluxes, &cols.modelRV1s, &cols.modelRV2s,
		)
		if err != nil {
			return nil, fmt.Errorf("store: scan dataset: %w", err)
		}
		rec.Kind = dataset.Kind(kind)
		rec.Source = dataset.Source(source)
		if err := decodeArrays(&rec, cols); err != nil {
			return nil, fmt.Errorf("store: decode dataset %q: %w", rec.Label, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate datasets: %w", err)
	}
	return records, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// arrayColumns carries the JSON text form of a record's float arrays.
type arrayColumns struct {
	times, sigmas, fluxes, rv1s, rv2s string
	modelFluxes, modelRV1s, modelRV2s string
}

func encodeArrays(rec *dataset.Record) (arrayColumns, error) {
	var cols arrayColumns
	fields := []struct {
		dst *string
		src []float64
	}{
		{&cols.times, rec.Times},
		{&cols.sigmas, rec.Sigmas},
		{&cols.fluxes, rec.Fluxes},
		{&cols.rv1s, rec.RVPrimary},
		{&cols.rv2s, rec.RVSecondary},
		{&cols.modelFluxes, rec.ModelFluxes},
		{&cols.modelRV1s, rec.ModelRVPrimary},
		{&cols.modelRV2s, rec.ModelRVSecondary},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			*f.dst = "[]"
			continue
		}
		b, err := json.Marshal(f.src)
		if err != nil {
			return arrayColumns{}, err
		}
		*f.dst = string(b)
	}
	return cols, nil
}

func decodeArrays(rec *dataset.Record, cols arrayColumns) error {
	fields := []struct {
		dst *[]float64
		src string
	}{
		{&rec.Times, cols.times},
		{&rec.Sigmas, cols.sigmas},
		{&rec.Fluxes, cols.fluxes},
		{&rec.RVPrimary, cols.rv1s},
		{&rec.RVSecondary, cols.rv2s},
		{&rec.ModelFluxes, cols.modelFluxes},
		{&rec.ModelRVPrimary, cols.modelRV1s},
		{&rec.ModelRVSecondary, cols.modelRV2s},
	}
	for _, f := range fields {
		var vals []float64
		if err := json.Unmarshal([]byte(f.src), &vals); err != nil {
			return err
		}
		if len(vals) == 0 {
			*f.dst = nil
			continue
		}
		*f.dst = vals
	}
	return nil
}
