package config

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/watchface/pkg/migrate"
)

// SchemaStatus describes the settings schema of a SQLite file
type SchemaStatus struct {
	Current int
	Latest  int
	Pending []string
}

func schemaMigrator(db *sql.DB, logger *zap.SugaredLogger) (*migrate.Migrator, error) {
	scripts, err := migrate.Load(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	var opts []migrate.Option
	if logger != nil {
		opts = append(opts, migrate.WithLogger(logger))
	}
	return migrate.New(db, scripts, opts...), nil
}

func openSchema(dbPath string, logger *zap.SugaredLogger) (*sql.DB, *migrate.Migrator, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	m, err := schemaMigrator(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, m, nil
}

// ReadSchemaStatus reports the applied and latest schema versions of dbPath
// without changing it.
func ReadSchemaStatus(dbPath string) (SchemaStatus, error) {
	db, m, err := openSchema(dbPath, nil)
	if err != nil {
		return SchemaStatus{}, err
	}
	defer db.Close()

	pending, err := m.Pending()
	if err != nil {
		return SchemaStatus{}, err
	}
	status := SchemaStatus{Latest: m.Latest()}
	if status.Current, err = m.Version(); err != nil {
		return SchemaStatus{}, err
	}
	for _, p := range pending {
		status.Pending = append(status.Pending, fmt.Sprintf("%03d %s", p.Version, p.Name))
	}
	return status, nil
}

// MigrateSchema moves dbPath to schema version target, reverting newer
// versions when target is below the applied one. Reverting drops the settings
// those versions hold.
func MigrateSchema(dbPath string, target int, logger *zap.SugaredLogger) error {
	db, m, err := openSchema(dbPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.To(target); err != nil {
		return fmt.Errorf("failed to migrate %s to schema %d: %w", dbPath, target, err)
	}
	return nil
}
