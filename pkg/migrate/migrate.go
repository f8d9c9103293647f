// Package migrate keeps the settings database schema at a known version. Each
// version is a pair of SQL scripts; the applied version lives in a one-column
// bookkeeping table next to the settings.
package migrate

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// DefaultTable records the applied schema version
const DefaultTable = "schema_migrations"

// Migration is one schema version
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrator moves a database between schema versions.
type Migrator struct {
	db         *sql.DB
	migrations []Migration
	table      string
	logger     *zap.SugaredLogger
}

// Option configures a Migrator
type Option func(*Migrator)

// WithTable overrides the bookkeeping table name
func WithTable(name string) Option {
	return func(m *Migrator) { m.table = name }
}

// WithLogger logs every applied step
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(m *Migrator) { m.logger = logger }
}

// New returns a Migrator for migrations, which must be sorted by version as
// Load returns them.
func New(db *sql.DB, migrations []Migration, opts ...Option) *Migrator {
	m := &Migrator{db: db, migrations: migrations, table: DefaultTable, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Latest is the highest known schema version, 0 when there are none
func (m *Migrator) Latest() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

// Version returns the applied schema version. A fresh database is at 0.
func (m *Migrator) Version() (int, error) {
	if _, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS ` + m.table + ` (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return 0, fmt.Errorf("creating %s: %w", m.table, err)
	}

	var v int
	if err := m.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM ` + m.table).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Pending lists the versions above the applied one
func (m *Migrator) Pending() ([]Migration, error) {
	current, err := m.Version()
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending version
func (m *Migrator) Up() error {
	return m.To(m.Latest())
}

// To applies up scripts or reverts with down scripts until the schema is at
// target. Target 0 removes every version.
func (m *Migrator) To(target int) error {
	if target < 0 || target > m.Latest() {
		return fmt.Errorf("schema version %d unknown, latest is %d", target, m.Latest())
	}
	current, err := m.Version()
	if err != nil {
		return err
	}

	for _, s := range m.plan(current, target) {
		if err := m.apply(s); err != nil {
			return err
		}
	}
	return nil
}

type step struct {
	mig  Migration
	down bool
}

func (s step) script() string {
	if s.down {
		return s.mig.Down
	}
	return s.mig.Up
}

// after is the version recorded once the step commits
func (s step) after() int {
	if s.down {
		return s.mig.Version - 1
	}
	return s.mig.Version
}

// plan returns the steps from current to target in execution order
func (m *Migrator) plan(current, target int) []step {
	var steps []step
	if target >= current {
		for _, mig := range m.migrations {
			if mig.Version > current && mig.Version <= target {
				steps = append(steps, step{mig: mig})
			}
		}
		return steps
	}
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if mig := m.migrations[i]; mig.Version <= current && mig.Version > target {
			steps = append(steps, step{mig: mig, down: true})
		}
	}
	return steps
}

// apply runs one step and its bookkeeping in a single transaction
func (m *Migrator) apply(s step) error {
	if s.script() == "" {
		return fmt.Errorf("schema version %d (%s) cannot be reverted", s.mig.Version, s.mig.Name)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.script()); err != nil {
		return fmt.Errorf("schema version %d (%s): %w", s.mig.Version, s.mig.Name, err)
	}
	if _, err := tx.Exec(`DELETE FROM `+m.table+` WHERE version > ?`, s.after()); err != nil {
		return err
	}
	if s.after() > 0 {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO `+m.table+` (version) VALUES (?)`, s.after()); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	m.logger.Infow("schema migrated", "version", s.after(), "script", s.mig.Name, "down", s.down)
	return nil
}
