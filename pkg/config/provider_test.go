package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `face:
  kind: analog
  clock-type: fuzzy
  location:
    latitude: 51.5
    longitude: -0.12
    tz-offset: 1
  language: es
  refresh-interval: 500ms
outputs:
  - type: png
    path: /tmp/face.png
  - type: remote
    serial-device: /dev/ttyUSB0
    baud: 57600
peripherals:
  static:
    battery-percent: 80
    steps: 1200
management:
  port: 9000
  auth-token: secret
logging:
  file: /var/log/watchface.log
  max-size-mb: 10
`

func sampleConfig() *ConfigData {
	return &ConfigData{
		Face: FaceData{
			Kind:            "analog",
			ClockType:       "fuzzy",
			Location:        LocationData{Latitude: 51.5, Longitude: -0.12, TZOffset: 1},
			Language:        "es",
			RefreshInterval: "500ms",
		},
		Outputs: []OutputData{
			{Type: OutputPNG, Path: "/tmp/face.png"},
			{Type: OutputRemote, SerialDevice: "/dev/ttyUSB0", Baud: 57600},
		},
		Peripherals: PeripheralsData{
			Static: &StaticPeripheralsData{BatteryPercent: 80, Steps: 1200},
		},
		Management: &ManagementAPIData{Port: 9000, AuthToken: "secret"},
		Logging:    LoggingData{File: "/var/log/watchface.log", MaxSizeMB: 10},
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYAMLLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeYAML(t, sampleYAML))

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, sampleConfig()) {
		t.Errorf("loaded %+v\nexpected %+v", cfg, sampleConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestYAMLSaveFaceSettings(t *testing.T) {
	path := writeYAML(t, sampleYAML)
	provider := NewYAMLProvider(path)

	face, err := provider.GetFaceSettings()
	if err != nil {
		t.Fatalf("GetFaceSettings: %v", err)
	}
	face.ClockType = "12h"
	if err := provider.SaveFaceSettings(face); err != nil {
		t.Fatalf("SaveFaceSettings: %v", err)
	}

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Face.ClockType != "12h" {
		t.Errorf("clock type = %q, expected 12h", cfg.Face.ClockType)
	}

	want := sampleConfig()
	want.Face.ClockType = "12h"
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("rewrite lost settings: %+v", cfg)
	}
}

func TestYAMLReadOnly(t *testing.T) {
	provider := NewYAMLProvider(writeYAML(t, sampleYAML))
	provider.SetReadOnly(true)

	if !provider.IsReadOnly() {
		t.Error("provider should report read-only")
	}
	if err := provider.SaveFaceSettings(&FaceData{}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SaveFaceSettings error = %v, expected ErrReadOnly", err)
	}
}

func TestYAMLMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "nope.yaml")).LoadConfig(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name    string
		loc     LocationData
		wantErr string
	}{
		{name: "london", loc: LocationData{Latitude: 51.5, Longitude: -0.12, TZOffset: 0}},
		{name: "poles", loc: LocationData{Latitude: -90, Longitude: 180, TZOffset: -12}},
		{name: "kiribati", loc: LocationData{Latitude: 1.87, Longitude: -157.4, TZOffset: 14}},
		{name: "latitude", loc: LocationData{Latitude: 90.5}, wantErr: "latitude"},
		{name: "longitude", loc: LocationData{Longitude: -181}, wantErr: "longitude"},
		{name: "timezone", loc: LocationData{TZOffset: -13}, wantErr: "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.loc)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, expected mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
		ok     bool
	}{
		{name: "sample", mutate: func(*ConfigData) {}, ok: true},
		{name: "png without path", mutate: func(c *ConfigData) { c.Outputs[0].Path = "" }},
		{name: "remote without device", mutate: func(c *ConfigData) { c.Outputs[1].SerialDevice = "" }},
		{name: "unknown output", mutate: func(c *ConfigData) { c.Outputs[0].Type = "hologram" }},
		{name: "bad interval", mutate: func(c *ConfigData) { c.Face.RefreshInterval = "soon" }},
		{name: "negative interval", mutate: func(c *ConfigData) { c.Face.RefreshInterval = "-1s" }},
		{name: "bad latitude", mutate: func(c *ConfigData) { c.Face.Location.Latitude = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sampleConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &ConfigData{
		Outputs:    []OutputData{{Type: OutputRemote, SerialDevice: "/dev/ttyS0"}},
		Management: &ManagementAPIData{},
	}
	cfg.ApplyDefaults()

	if cfg.Face.Kind != DefaultKind || cfg.Face.ClockType != DefaultClockType || cfg.Face.SolarModel != DefaultSolarModel {
		t.Errorf("face defaults = %+v", cfg.Face)
	}
	if d, err := cfg.Face.Refresh(); err != nil || d != time.Second {
		t.Errorf("refresh = %v, %v", d, err)
	}
	if cfg.Outputs[0].Baud != DefaultBaud {
		t.Errorf("baud = %d", cfg.Outputs[0].Baud)
	}
	if cfg.Management.Port != DefaultManagementPort {
		t.Errorf("management port = %d", cfg.Management.Port)
	}
}
