// Package sqlite archives report runs in a SQLite database so successive
// runs over revised data can be compared.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/oregon-fire-report/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS report_runs (
	run_id       TEXT PRIMARY KEY,
	generated_at DATETIME NOT NULL,
	source       TEXT,
	loaded       INTEGER NOT NULL,
	dropped      INTEGER NOT NULL,
	imputed      INTEGER NOT NULL,
	analyzed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS fires (
	run_id          TEXT NOT NULL REFERENCES report_runs(run_id),
	id              TEXT NOT NULL,
	area            TEXT NOT NULL,
	fire_name       TEXT NOT NULL,
	fire_year       INTEGER NOT NULL,
	latitude        REAL NOT NULL,
	longitude       REAL NOT NULL,
	est_total_acres REAL NOT NULL,
	acres_imputed   INTEGER NOT NULL,
	size_class      TEXT NOT NULL,
	cause           TEXT NOT NULL,
	general_cause   TEXT,
	district_name   TEXT,
	place_name      TEXT,
	PRIMARY KEY (run_id, id)
);
CREATE TABLE IF NOT EXISTS grouped_fires (
	run_id     TEXT NOT NULL REFERENCES report_runs(run_id),
	fire_name  TEXT NOT NULL,
	fire_year  INTEGER NOT NULL,
	cause      TEXT NOT NULL,
	size_class TEXT NOT NULL,
	acres      REAL NOT NULL
);
`

// Run is one archived report run.
type Run struct {
	RunID       string
	GeneratedAt time.Time
	Source      string
	Loaded      int
	Dropped     int
	Imputed     int
	Analyzed    int
}

// Store writes reports to a SQLite database. It implements report.Sink.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Name() string { return "sqlite" }

// Write archives the run, its cleaned records and the grouped summary in a
// single transaction.
func (s *Store) Write(ctx context.Context, r *report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO report_runs (run_id, generated_at, source, loaded, dropped, imputed, analyzed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GeneratedAt.UTC(), r.Source, r.Loaded, r.Dropped, r.Imputed, len(r.Records),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	places := make(map[string]string, len(r.TopFires))
	for _, f := range r.TopFires {
		places[f.ID] = f.PlaceName
	}

	fireStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fires (run_id, id, area, fire_name, fire_year, latitude, longitude, est_total_acres,
			acres_imputed, size_class, cause, general_cause, district_name, place_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fire insert: %w", err)
	}
	defer fireStmt.Close()

	for _, f := range r.Records {
		if _, err := fireStmt.ExecContext(ctx,
			r.RunID, f.ID, f.Area.String(), f.FireName, f.FireYear, f.Latitude, f.Longitude, f.EstTotalAcres,
			f.AcresImputed, f.SizeClass.String(), f.Cause.String(), f.GeneralCause, f.DistrictName, places[f.ID],
		); err != nil {
			return fmt.Errorf("insert fire %s: %w", f.ID, err)
		}
	}

	groupStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grouped_fires (run_id, fire_name, fire_year, cause, size_class, acres) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare grouped insert: %w", err)
	}
	defer groupStmt.Close()

	for _, g := range r.Grouped {
		if _, err := groupStmt.ExecContext(ctx,
			r.RunID, g.FireName, g.FireYear, g.Cause.String(), g.SizeClass.String(), g.Acres,
		); err != nil {
			return fmt.Errorf("insert grouped fire %s: %w", g.FireName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", r.RunID, err)
	}
	s.logger.Info("report archived", "run_id", r.RunID, "fires", len(r.Records), "grouped", len(r.Grouped))
	return nil
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, generated_at, source, loaded, dropped, imputed, analyzed FROM report_runs ORDER BY generated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.GeneratedAt, &r.Source, &r.Loaded, &r.Dropped, &r.Imputed, &r.Analyzed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TotalAcres returns the summed acres of one archived run.
func (s *Store) TotalAcres(ctx context.Context, runID string) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT SUM(est_total_acres) FROM fires WHERE run_id = ?`, runID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum acres for run %s: %w", runID, err)
	}
	return total.Float64, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
