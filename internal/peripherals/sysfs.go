package peripherals

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultBatteryPath is the usual power_supply node on single-board computers
const DefaultBatteryPath = "/sys/class/power_supply/battery"

// SysfsBattery reads charge state from a Linux power_supply directory
// (its capacity and status files).
type SysfsBattery struct {
	dir    string
	logger *zap.SugaredLogger
	warned bool
}

func NewSysfsBattery(dir string, logger *zap.SugaredLogger) *SysfsBattery {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SysfsBattery{dir: dir, logger: logger}
}

// PercentRemaining returns the capacity clamped to 0-100, or 0 when unreadable.
func (b *SysfsBattery) PercentRemaining() int {
	raw, err := b.read("capacity")
	if err != nil {
		return 0
	}
	capacity, err := strconv.Atoi(raw)
	if err != nil {
		b.warnOnce("invalid battery capacity %q in %s", raw, b.dir)
		return 0
	}
	if capacity < 0 {
		return 0
	}
	if capacity > 100 {
		return 100
	}
	return capacity
}

// IsCharging reports a "Charging" or "Full" status
func (b *SysfsBattery) IsCharging() bool {
	status, err := b.read("status")
	if err != nil {
		return false
	}
	return status == "Charging" || status == "Full"
}

func (b *SysfsBattery) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, name))
	if err != nil {
		b.warnOnce("failed to read battery %s: %v", name, err)
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// warnOnce keeps a missing battery node from flooding the log every tick
func (b *SysfsBattery) warnOnce(template string, args ...interface{}) {
	if b.warned {
		return
	}
	b.warned = true
	b.logger.Warnf(template, args...)
}
