// Package catalog loads generated specimens into a SQL table so fixture
// consumers can query them. SQLite (modernc) and Postgres (pgx) are supported
// through database/sql.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"frogdata/internal/specimen"
)

// Driver selects the catalog backend.
type Driver string

const (
	DriverNone     Driver = "none"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const (
	defaultSQLitePath  = "frogdata.db"
	defaultPostgresDSN = "postgres://localhost/frogdata?sslmode=disable"
	tableName          = "frog_specimens"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Config selects and addresses the catalog database.
type Config struct {
	Driver Driver
	DSN    string
}

// Enabled reports whether a catalog backend is configured.
func (c Config) Enabled() bool {
	return c.Driver != "" && c.Driver != DriverNone
}

// Record is a specimen row as stored in the catalog. ArrivalDate is set for
// new arrivals only.
type Record struct {
	specimen.Specimen
	ArrivalDate *time.Time
}

type dialect struct {
	driverName  string
	ddl         string
	placeholder func(n int) string
}

var dialects = map[Driver]dialect{
	DriverSQLite: {
		driverName: "sqlite",
		ddl: `CREATE TABLE IF NOT EXISTS frog_specimens (
		frog_id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		species TEXT NOT NULL,
		sex TEXT NOT NULL,
		habitat TEXT NOT NULL,
		health TEXT NOT NULL,
		weight REAL NOT NULL,
		size REAL NOT NULL,
		age INTEGER NOT NULL,
		max_hop REAL NOT NULL,
		thermal_limit REAL NOT NULL,
		call_freq REAL NOT NULL,
		arrival_date TEXT
	)`,
		placeholder: func(int) string { return "?" },
	},
	DriverPostgres: {
		driverName: "pgx",
		ddl: `CREATE TABLE IF NOT EXISTS frog_specimens (
		frog_id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		species TEXT NOT NULL,
		sex TEXT NOT NULL,
		habitat TEXT NOT NULL,
		health TEXT NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		size DOUBLE PRECISION NOT NULL,
		age INTEGER NOT NULL,
		max_hop DOUBLE PRECISION NOT NULL,
		thermal_limit DOUBLE PRECISION NOT NULL,
		call_freq DOUBLE PRECISION NOT NULL,
		arrival_date DATE
	)`,
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
}

var columns = []string{
	"frog_id", "run_id", "species", "sex", "habitat", "health",
	"weight", "size", "age", "max_hop", "thermal_limit", "call_freq", "arrival_date",
}

// Store writes specimen records to the frog_specimens table.
type Store struct {
	db      *sql.DB
	driver  Driver
	dialect dialect
	mu      sync.Mutex
}

// Open connects to the configured database and ensures the specimen table
// exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown catalog driver %q", cfg.Driver)
	}
	dsn := cfg.DSN
	switch cfg.Driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	case DriverPostgres:
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	}
	openMu.Lock()
	db, err := sqlOpen(d.driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure %s table: %w", tableName, err)
	}
	return &Store{db: db, driver: cfg.Driver, dialect: d}, nil
}

// Driver returns the configured backend.
func (s *Store) Driver() Driver { return s.driver }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Load replaces the table contents with records in a single transaction.
// Records failing specimen validation are rejected before anything is written.
func (s *Store) Load(ctx context.Context, runID string, records []Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+tableName); err != nil {
		return fmt.Errorf("clear %s: %w", tableName, err)
	}
	insert := s.insertStatement()
	for _, r := range records {
		var arrival sql.NullString
		if r.ArrivalDate != nil {
			arrival = sql.NullString{String: r.ArrivalDate.UTC().Format(time.DateOnly), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insert,
			r.ID, runID, string(r.Species), string(r.Sex), string(r.Habitat), string(r.Health),
			r.Weight, r.BodySize, r.Age, r.MaxHop, r.ThermalLimit, r.CallFrequency, arrival,
		); err != nil {
			return fmt.Errorf("insert specimen %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) insertStatement() string {
	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = s.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(columns, ", "), strings.Join(marks, ", "))
}

// Count returns the number of catalogued specimens.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+tableName).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", tableName, err)
	}
	return n, nil
}

// Records reads the catalog back ordered by identifier, along with the run
// identifier of each row.
func (s *Store) Records(ctx context.Context) ([]Record, []string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+strings.Join(columns, ", ")+` FROM `+tableName+` ORDER BY frog_id`)
	if err != nil {
		return nil, nil, fmt.Errorf("select %s: %w", tableName, err)
	}
	defer func() { _ = rows.Close() }()
	var (
		out    []Record
		runIDs []string
	)
	for rows.Next() {
		var (
			r       Record
			runID   string
			species string
			sex     string
			habitat string
			health  string
			arrival sql.NullString
		)
		if err := rows.Scan(&r.ID, &runID, &species, &sex, &habitat, &health,
			&r.Weight, &r.BodySize, &r.Age, &r.MaxHop, &r.ThermalLimit, &r.CallFrequency, &arrival); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		r.Species = specimen.Species(species)
		r.Sex = specimen.Sex(sex)
		r.Habitat = specimen.Habitat(habitat)
		r.Health = specimen.Health(health)
		if arrival.Valid {
			// postgres DATE scans as an RFC 3339 timestamp, sqlite TEXT as the bare date
			day, err := time.Parse(time.DateOnly, arrival.String[:min(len(arrival.String), len(time.DateOnly))])
			if err != nil {
				return nil, nil, fmt.Errorf("parse arrival_date %q: %w", arrival.String, err)
			}
			r.ArrivalDate = &day
		}
		out = append(out, r)
		runIDs = append(runIDs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", tableName, err)
	}
	return out, runIDs, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
