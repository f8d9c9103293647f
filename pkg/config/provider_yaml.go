package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	readOnly bool

	mu     sync.Mutex
	config *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider. Face settings
// are written back by re-marshalling the whole file.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// SetReadOnly makes SaveFaceSettings fail with ErrReadOnly
func (y *YAMLProvider) SetReadOnly(readOnly bool) {
	y.readOnly = readOnly
}

// YAML-specific structs with proper YAML tags for parsing the file format
type configYAML struct {
	Face        FaceYAML        `yaml:"face"`
	Outputs     []OutputYAML    `yaml:"outputs,omitempty"`
	Peripherals PeripheralsYAML `yaml:"peripherals,omitempty"`
	Management  *ManagementYAML `yaml:"management,omitempty"`
	Logging     LoggingYAML     `yaml:"logging,omitempty"`
}

type FaceYAML struct {
	Kind            string       `yaml:"kind,omitempty"`
	ClockType       string       `yaml:"clock-type,omitempty"`
	Location        LocationYAML `yaml:"location"`
	SolarModel      string       `yaml:"solar-model,omitempty"`
	Language        string       `yaml:"language,omitempty"`
	FuzzyVariant    string       `yaml:"fuzzy-variant,omitempty"`
	RefreshInterval string       `yaml:"refresh-interval,omitempty"`
}

type LocationYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	TZOffset  int     `yaml:"tz-offset"`
}

type OutputYAML struct {
	Type         string `yaml:"type"`
	Path         string `yaml:"path,omitempty"`
	SerialDevice string `yaml:"serial-device,omitempty"`
	Baud         int    `yaml:"baud,omitempty"`
	SPIPort      string `yaml:"spi-port,omitempty"`
}

type PeripheralsYAML struct {
	BatterySysfs string                 `yaml:"battery-sysfs,omitempty"`
	Static       *StaticPeripheralsYAML `yaml:"static,omitempty"`
}

type StaticPeripheralsYAML struct {
	BatteryPercent   int    `yaml:"battery-percent"`
	Charging         bool   `yaml:"charging,omitempty"`
	BLEConnected     bool   `yaml:"ble-connected,omitempty"`
	Notifications    bool   `yaml:"notifications,omitempty"`
	HeartRate        int    `yaml:"heart-rate,omitempty"`
	HeartRateRunning bool   `yaml:"heart-rate-running,omitempty"`
	Steps            uint32 `yaml:"steps,omitempty"`
}

type ManagementYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
	AuthToken  string `yaml:"auth-token,omitempty"`
	EnableCORS bool   `yaml:"enable-cors,omitempty"`
}

type LoggingYAML struct {
	Debug      bool   `yaml:"debug,omitempty"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}

func (y *YAMLProvider) read() (*configYAML, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig configYAML
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}
	return &yamlConfig, nil
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	yamlConfig, err := y.read()
	if err != nil {
		return nil, err
	}

	config := &ConfigData{
		Face:    faceFromYAML(yamlConfig.Face),
		Outputs: make([]OutputData, len(yamlConfig.Outputs)),
		Peripherals: PeripheralsData{
			BatterySysfs: yamlConfig.Peripherals.BatterySysfs,
		},
		Logging: LoggingData(yamlConfig.Logging),
	}

	for i, out := range yamlConfig.Outputs {
		config.Outputs[i] = OutputData(out)
	}

	if s := yamlConfig.Peripherals.Static; s != nil {
		static := StaticPeripheralsData(*s)
		config.Peripherals.Static = &static
	}

	if m := yamlConfig.Management; m != nil {
		mgmt := ManagementAPIData(*m)
		config.Management = &mgmt
	}

	y.config = config
	return config, nil
}

// GetFaceSettings returns the face section
func (y *YAMLProvider) GetFaceSettings() (*FaceData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	face := y.config.Face
	return &face, nil
}

// SaveFaceSettings rewrites the face section of the file, leaving the rest as it was.
func (y *YAMLProvider) SaveFaceSettings(face *FaceData) error {
	if y.readOnly {
		return ErrReadOnly
	}

	y.mu.Lock()
	defer y.mu.Unlock()

	yamlConfig, err := y.read()
	if err != nil {
		return err
	}
	yamlConfig.Face = faceToYAML(*face)

	out, err := yaml.Marshal(yamlConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	info, err := os.Stat(y.filename)
	if err != nil {
		return err
	}

	// replace the file atomically
	tmp := y.filename + ".tmp"
	if err := os.WriteFile(tmp, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, y.filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", y.filename, err)
	}

	if y.config != nil {
		y.config.Face = *face
	}
	return nil
}

// IsReadOnly reports whether SaveFaceSettings is refused
func (y *YAMLProvider) IsReadOnly() bool {
	return y.readOnly
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

func faceFromYAML(f FaceYAML) FaceData {
	return FaceData{
		Kind:      f.Kind,
		ClockType: f.ClockType,
		Location: LocationData{
			Latitude:  f.Location.Latitude,
			Longitude: f.Location.Longitude,
			TZOffset:  f.Location.TZOffset,
		},
		SolarModel:      f.SolarModel,
		Language:        f.Language,
		FuzzyVariant:    f.FuzzyVariant,
		RefreshInterval: f.RefreshInterval,
	}
}

func faceToYAML(f FaceData) FaceYAML {
	return FaceYAML{
		Kind:      f.Kind,
		ClockType: f.ClockType,
		Location: LocationYAML{
			Latitude:  f.Location.Latitude,
			Longitude: f.Location.Longitude,
			TZOffset:  f.Location.TZOffset,
		},
		SolarModel:      f.SolarModel,
		Language:        f.Language,
		FuzzyVariant:    f.FuzzyVariant,
		RefreshInterval: f.RefreshInterval,
	}
}
