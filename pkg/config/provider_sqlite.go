package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chrissnell/watchface/pkg/solar"
)

//go:embed migrations/*.sql
var migrations embed.FS

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (creating if needed) the settings database and
// brings its schema up to date.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator, err := schemaMigrator(db, nil)
	if err == nil {
		err = migrator.Up()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	configID, err := s.configID(s.db)
	if err != nil {
		return nil, err
	}

	config := &ConfigData{}

	face, err := s.getFace(configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load face settings: %w", err)
	}
	config.Face = *face

	if config.Outputs, err = s.getOutputs(configID); err != nil {
		return nil, fmt.Errorf("failed to load outputs: %w", err)
	}
	if config.Management, err = s.getManagement(configID); err != nil {
		return nil, fmt.Errorf("failed to load management API config: %w", err)
	}
	if config.Logging, err = s.getLogging(configID); err != nil {
		return nil, fmt.Errorf("failed to load logging config: %w", err)
	}
	if config.Peripherals, err = s.getPeripherals(configID); err != nil {
		return nil, fmt.Errorf("failed to load peripherals: %w", err)
	}

	return config, nil
}

// GetFaceSettings returns the persisted face settings
func (s *SQLiteProvider) GetFaceSettings() (*FaceData, error) {
	configID, err := s.configID(s.db)
	if err != nil {
		return nil, err
	}
	return s.getFace(configID)
}

func (s *SQLiteProvider) getFace(configID int64) (*FaceData, error) {
	query := `
		SELECT kind, clock_type, latitude, longitude, tz_offset,
		       solar_model, language, fuzzy_variant, refresh_interval
		FROM face_settings
		WHERE config_id = ?
	`

	var face FaceData
	var lat, lon int64
	var solarModel, language, variant, refresh sql.NullString

	err := s.db.QueryRow(query, configID).Scan(
		&face.Kind, &face.ClockType, &lat, &lon, &face.Location.TZOffset,
		&solarModel, &language, &variant, &refresh,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("face settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query face settings: %w", err)
	}

	face.Location.Latitude = solar.Coordinate(lat).Float64()
	face.Location.Longitude = solar.Coordinate(lon).Float64()
	face.SolarModel = solarModel.String
	face.Language = language.String
	face.FuzzyVariant = variant.String
	face.RefreshInterval = refresh.String

	return &face, nil
}

func (s *SQLiteProvider) getOutputs(configID int64) ([]OutputData, error) {
	rows, err := s.db.Query(`
		SELECT type, path, serial_device, baud, spi_port
		FROM outputs
		WHERE config_id = ?
		ORDER BY id
	`, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outputs: %w", err)
	}
	defer rows.Close()

	var outputs []OutputData
	for rows.Next() {
		var out OutputData
		var path, serialDevice, spiPort sql.NullString
		var baud sql.NullInt64

		if err := rows.Scan(&out.Type, &path, &serialDevice, &baud, &spiPort); err != nil {
			return nil, fmt.Errorf("failed to scan output row: %w", err)
		}

		out.Path = path.String
		out.SerialDevice = serialDevice.String
		out.SPIPort = spiPort.String
		if baud.Valid {
			out.Baud = int(baud.Int64)
		}
		outputs = append(outputs, out)
	}

	return outputs, rows.Err()
}

func (s *SQLiteProvider) getManagement(configID int64) (*ManagementAPIData, error) {
	var m ManagementAPIData
	var cert, key, listenAddr, token sql.NullString
	var port sql.NullInt64

	err := s.db.QueryRow(`
		SELECT tls_cert, tls_key, port, listen_addr, auth_token, enable_cors
		FROM management_api
		WHERE config_id = ?
	`, configID).Scan(&cert, &key, &port, &listenAddr, &token, &m.EnableCORS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.Cert = cert.String
	m.Key = key.String
	m.ListenAddr = listenAddr.String
	m.AuthToken = token.String
	if port.Valid {
		m.Port = int(port.Int64)
	}
	return &m, nil
}

func (s *SQLiteProvider) getLogging(configID int64) (LoggingData, error) {
	var l LoggingData
	var file sql.NullString
	var maxSize, maxBackups, maxAge sql.NullInt64

	err := s.db.QueryRow(`
		SELECT debug, file, max_size_mb, max_backups, max_age_days
		FROM logging
		WHERE config_id = ?
	`, configID).Scan(&l.Debug, &file, &maxSize, &maxBackups, &maxAge)
	if errors.Is(err, sql.ErrNoRows) {
		return l, nil
	}
	if err != nil {
		return l, err
	}

	l.File = file.String
	l.MaxSizeMB = int(maxSize.Int64)
	l.MaxBackups = int(maxBackups.Int64)
	l.MaxAgeDays = int(maxAge.Int64)
	return l, nil
}

func (s *SQLiteProvider) getPeripherals(configID int64) (PeripheralsData, error) {
	var p PeripheralsData
	var sysfs sql.NullString
	var enabled bool
	var st StaticPeripheralsData
	var steps int64

	err := s.db.QueryRow(`
		SELECT battery_sysfs, static_enabled, battery_percent, charging, ble_connected,
		       notifications, heart_rate, heart_rate_running, steps
		FROM peripherals
		WHERE config_id = ?
	`, configID).Scan(&sysfs, &enabled, &st.BatteryPercent, &st.Charging, &st.BLEConnected,
		&st.Notifications, &st.HeartRate, &st.HeartRateRunning, &steps)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return p, err
	}

	p.BatterySysfs = sysfs.String
	if enabled {
		st.Steps = uint32(steps)
		p.Static = &st
	}
	return p, nil
}

// SaveFaceSettings replaces the persisted face settings
func (s *SQLiteProvider) SaveFaceSettings(face *FaceData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	if err := s.insertFace(tx, configID, face); err != nil {
		return fmt.Errorf("failed to save face settings: %w", err)
	}

	if _, err := tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, configID); err != nil {
		return fmt.Errorf("failed to touch config: %w", err)
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig saves complete configuration to the database
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	// Start transaction
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}

	// Clear existing data
	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	if err := s.insertFace(tx, configID, &configData.Face); err != nil {
		return fmt.Errorf("failed to insert face settings: %w", err)
	}

	for i, out := range configData.Outputs {
		if err := s.insertOutput(tx, configID, &out); err != nil {
			return fmt.Errorf("failed to insert output %d (%s): %w", i, out.Type, err)
		}
	}

	if m := configData.Management; m != nil {
		_, err := tx.Exec(`
			INSERT INTO management_api (config_id, tls_cert, tls_key, port, listen_addr, auth_token, enable_cors)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, configID, nullString(m.Cert), nullString(m.Key), m.Port, nullString(m.ListenAddr),
			nullString(m.AuthToken), m.EnableCORS)
		if err != nil {
			return fmt.Errorf("failed to insert management API config: %w", err)
		}
	}

	l := configData.Logging
	_, err = tx.Exec(`
		INSERT INTO logging (config_id, debug, file, max_size_mb, max_backups, max_age_days)
		VALUES (?, ?, ?, ?, ?, ?)
	`, configID, l.Debug, nullString(l.File), l.MaxSizeMB, l.MaxBackups, l.MaxAgeDays)
	if err != nil {
		return fmt.Errorf("failed to insert logging config: %w", err)
	}

	if err := s.insertPeripherals(tx, configID, &configData.Peripherals); err != nil {
		return fmt.Errorf("failed to insert peripherals: %w", err)
	}

	// Commit transaction
	return tx.Commit()
}

func (s *SQLiteProvider) insertFace(tx *sql.Tx, configID int64, face *FaceData) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO face_settings (
			config_id, kind, clock_type, latitude, longitude, tz_offset,
			solar_model, language, fuzzy_variant, refresh_interval
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, configID, face.Kind, face.ClockType,
		int64(solar.Degrees(face.Location.Latitude)), int64(solar.Degrees(face.Location.Longitude)),
		face.Location.TZOffset, nullString(face.SolarModel), nullString(face.Language),
		nullString(face.FuzzyVariant), nullString(face.RefreshInterval))
	return err
}

func (s *SQLiteProvider) insertOutput(tx *sql.Tx, configID int64, out *OutputData) error {
	var baud sql.NullInt64
	if out.Baud != 0 {
		baud = sql.NullInt64{Int64: int64(out.Baud), Valid: true}
	}
	_, err := tx.Exec(`
		INSERT INTO outputs (config_id, type, path, serial_device, baud, spi_port)
		VALUES (?, ?, ?, ?, ?, ?)
	`, configID, out.Type, nullString(out.Path), nullString(out.SerialDevice), baud, nullString(out.SPIPort))
	return err
}

func (s *SQLiteProvider) insertPeripherals(tx *sql.Tx, configID int64, p *PeripheralsData) error {
	var st StaticPeripheralsData
	enabled := p.Static != nil
	if enabled {
		st = *p.Static
	}
	_, err := tx.Exec(`
		INSERT INTO peripherals (
			config_id, battery_sysfs, static_enabled, battery_percent, charging, ble_connected,
			notifications, heart_rate, heart_rate_running, steps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, configID, nullString(p.BatterySysfs), enabled, st.BatteryPercent, st.Charging, st.BLEConnected,
		st.Notifications, st.HeartRate, st.HeartRateRunning, int64(st.Steps))
	return err
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM face_settings WHERE config_id = ?",
		"DELETE FROM outputs WHERE config_id = ?",
		"DELETE FROM management_api WHERE config_id = ?",
		"DELETE FROM logging WHERE config_id = ?",
		"DELETE FROM peripherals WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// configID returns the id of the default configuration, or ErrNotFound
func (s *SQLiteProvider) configID(q queryRower) (int64, error) {
	var id int64
	err := q.QueryRow("SELECT id FROM configs WHERE name = ?", defaultConfigName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query config: %w", err)
	}
	return id, nil
}

// getOrCreateConfigID gets existing config ID or creates a new one
func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	id, err := s.configID(tx)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	result, err := tx.Exec(`INSERT INTO configs (name, created_at, updated_at) VALUES (?, datetime('now'), datetime('now'))`, defaultConfigName)
	if err != nil {
		return 0, fmt.Errorf("failed to create default config: %w", err)
	}
	return result.LastInsertId()
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
