package face

import "github.com/chrissnell/watchface/pkg/solar"

// Settings is the persisted user state a face reads and writes.
type Settings interface {
	Location() solar.Location
	ClockType() ClockType
	SetClockType(ClockType)
	Save() error
}

// Battery reports charge state
type Battery interface {
	PercentRemaining() int
	IsCharging() bool
}

type BLE interface {
	IsConnected() bool
}

type Notifications interface {
	NewNotificationsAvailable() bool
}

// HeartRate reports the last measured rate and whether measuring is running.
type HeartRate interface {
	HeartRate() int
	Running() bool
}

type Motion interface {
	Steps() uint32
}

// Peripherals bundles the optional status sources. Nil members are skipped.
type Peripherals struct {
	Battery       Battery
	BLE           BLE
	Notifications Notifications
	HeartRate     HeartRate
	Motion        Motion
}
