// Package peripherals provides status sources for the face status row.
package peripherals

import (
	"sync"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/pkg/config"
	"go.uber.org/zap"
)

// Static serves fixed status values. Values may be changed at runtime with Update.
type Static struct {
	mu   sync.RWMutex
	data config.StaticPeripheralsData
}

func NewStatic(data config.StaticPeripheralsData) *Static {
	return &Static{data: data}
}

// Update replaces every value at once
func (s *Static) Update(data config.StaticPeripheralsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

func (s *Static) snapshot() config.StaticPeripheralsData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Static) PercentRemaining() int { return s.snapshot().BatteryPercent }
func (s *Static) IsCharging() bool { return s.snapshot().Charging }
func (s *Static) IsConnected() bool { return s.snapshot().BLEConnected }
func (s *Static) NewNotificationsAvailable() bool { return s.snapshot().Notifications }
func (s *Static) HeartRate() int { return s.snapshot().HeartRate }
func (s *Static) Running() bool { return s.snapshot().HeartRateRunning }
func (s *Static) Steps() uint32 { return s.snapshot().Steps }

// FromConfig builds the peripheral set described by cfg. A sysfs battery, when
// configured, replaces the static battery values.
func FromConfig(cfg config.PeripheralsData, logger *zap.SugaredLogger) face.Peripherals {
	var p face.Peripherals

	if cfg.Static != nil {
		s := NewStatic(*cfg.Static)
		p = face.Peripherals{
			Battery:       s,
			BLE:           s,
			Notifications: s,
			HeartRate:     s,
			Motion:        s,
		}
	}

	if cfg.BatterySysfs != "" {
		p.Battery = NewSysfsBattery(cfg.BatterySysfs, logger)
	}

	return p
}
