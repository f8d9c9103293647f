package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/watchface/pkg/solar"
)

var (
	// ErrNotFound is returned when the backend holds no configuration yet
	ErrNotFound = errors.New("configuration not found")
	// ErrReadOnly is returned by write operations on a read-only provider
	ErrReadOnly = errors.New("configuration provider is read-only")
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Face settings are the part of the configuration the watch writes back
	GetFaceSettings() (*FaceData, error)
	SaveFaceSettings(face *FaceData) error

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Face        FaceData           `json:"face"`
	Outputs     []OutputData       `json:"outputs,omitempty"`
	Peripherals PeripheralsData    `json:"peripherals,omitempty"`
	Management  *ManagementAPIData `json:"management,omitempty"`
	Logging     LoggingData        `json:"logging,omitempty"`
}

// FaceData holds the watch face selection and the persisted user settings
type FaceData struct {
	Kind            string       `json:"kind"`
	ClockType       string       `json:"clock_type"`
	Location        LocationData `json:"location"`
	SolarModel      string       `json:"solar_model,omitempty"`
	Language        string       `json:"language,omitempty"`
	FuzzyVariant    string       `json:"fuzzy_variant,omitempty"`
	RefreshInterval string       `json:"refresh_interval,omitempty"`
}

// LocationData is the observer position in degrees
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TZOffset  int     `json:"tz_offset"`
}

// Solar converts the location to the fixed-point form used by the solar model.
func (l LocationData) Solar() solar.Location {
	return solar.NewLocation(l.Latitude, l.Longitude, int8(l.TZOffset))
}

// OutputData configures one render target
type OutputData struct {
	Type         string `json:"type"`
	Path         string `json:"path,omitempty"`
	SerialDevice string `json:"serial_device,omitempty"`
	Baud         int    `json:"baud,omitempty"`
	SPIPort      string `json:"spi_port,omitempty"`
}

// PeripheralsData selects where status information comes from
type PeripheralsData struct {
	BatterySysfs string                 `json:"battery_sysfs,omitempty"`
	Static       *StaticPeripheralsData `json:"static,omitempty"`
}

// StaticPeripheralsData holds fixed status values for displays without sensors
type StaticPeripheralsData struct {
	BatteryPercent   int    `json:"battery_percent"`
	Charging         bool   `json:"charging"`
	BLEConnected     bool   `json:"ble_connected"`
	Notifications    bool   `json:"notifications"`
	HeartRate        int    `json:"heart_rate"`
	HeartRateRunning bool   `json:"heart_rate_running"`
	Steps            uint32 `json:"steps"`
}

type ManagementAPIData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
	AuthToken  string `json:"auth_token,omitempty"`
	EnableCORS bool   `json:"enable_cors,omitempty"`
}

// LoggingData configures the optional rotating log file
type LoggingData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
}

// Output types
const (
	OutputPNG    = "png"
	OutputEPaper = "epaper"
	OutputRemote = "remote"
)

const (
	DefaultKind            = "digital"
	DefaultClockType       = "24h"
	DefaultSolarModel      = "approx"
	DefaultRefreshInterval = time.Second
	DefaultManagementPort  = 8081
	DefaultBaud            = 115200
)

// ApplyDefaults fills in unset values
func (c *ConfigData) ApplyDefaults() {
	c.Face.applyDefaults()
	for i := range c.Outputs {
		if c.Outputs[i].Type == OutputRemote && c.Outputs[i].Baud == 0 {
			c.Outputs[i].Baud = DefaultBaud
		}
	}
	if c.Management != nil && c.Management.Port == 0 {
		c.Management.Port = DefaultManagementPort
	}
}

func (f *FaceData) applyDefaults() {
	if f.Kind == "" {
		f.Kind = DefaultKind
	}
	if f.ClockType == "" {
		f.ClockType = DefaultClockType
	}
	if f.SolarModel == "" {
		f.SolarModel = DefaultSolarModel
	}
	if f.RefreshInterval == "" {
		f.RefreshInterval = DefaultRefreshInterval.String()
	}
}

// Refresh returns the tick period.
func (f *FaceData) Refresh() (time.Duration, error) {
	if f.RefreshInterval == "" {
		return DefaultRefreshInterval, nil
	}
	d, err := time.ParseDuration(f.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh interval %q: %w", f.RefreshInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh interval must be positive, got %v", d)
	}
	return d, nil
}

// ValidateLocation checks the coordinate and timezone ranges.
func ValidateLocation(l LocationData) error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %.2f out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %.2f out of range [-180, 180]", l.Longitude)
	}
	if l.TZOffset < -12 || l.TZOffset > 14 {
		return fmt.Errorf("timezone offset %d out of range [-12, 14]", l.TZOffset)
	}
	return nil
}

// Validate checks a loaded configuration
func (c *ConfigData) Validate() error {
	if err := ValidateLocation(c.Face.Location); err != nil {
		return fmt.Errorf("face location: %w", err)
	}
	if _, err := c.Face.Refresh(); err != nil {
		return fmt.Errorf("face: %w", err)
	}

	for i, out := range c.Outputs {
		switch out.Type {
		case OutputPNG:
			if out.Path == "" {
				return fmt.Errorf("output %d: png output requires a path", i)
			}
		case OutputRemote:
			if out.SerialDevice == "" && out.Path == "" {
				return fmt.Errorf("output %d: remote output requires a serial device or path", i)
			}
		case OutputEPaper:
		default:
			return fmt.Errorf("output %d: unknown type %q", i, out.Type)
		}
	}

	if c.Logging.File != "" && c.Logging.MaxSizeMB < 0 {
		return fmt.Errorf("logging: negative max size")
	}
	return nil
}
