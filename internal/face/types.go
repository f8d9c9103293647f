// Package face drives the watch faces: each tick it decides what changed since
// the previous tick and emits the render commands for just those parts.
package face

import (
	"fmt"
	"time"

	"github.com/chrissnell/watchface/pkg/solar"
)

// ClockSnapshot is the wall-clock time handed to a face on each tick.
type ClockSnapshot struct {
	Hour    int          `json:"hour"`
	Minute  int          `json:"minute"`
	Second  int          `json:"second"`
	Year    int          `json:"year"`
	Month   time.Month   `json:"month"`
	Day     int          `json:"day"`
	Weekday time.Weekday `json:"weekday"`
}

// SnapshotOf captures t in its own location.
func SnapshotOf(t time.Time) ClockSnapshot {
	return ClockSnapshot{
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Weekday: t.Weekday(),
	}
}

// Date returns the calendar day of the snapshot
func (s ClockSnapshot) Date() solar.Date {
	return solar.Date{Year: s.Year, Month: s.Month, Day: s.Day}
}

// ClockType is the user's persisted display preference.
type ClockType int

const (
	ClockH24 ClockType = iota
	ClockH12
	ClockFuzzy
)

func (c ClockType) String() string {
	switch c {
	case ClockH24:
		return "24h"
	case ClockH12:
		return "12h"
	case ClockFuzzy:
		return "fuzzy"
	}
	return fmt.Sprintf("ClockType(%d)", int(c))
}

// ParseClockType is the inverse of ClockType.String.
func ParseClockType(s string) (ClockType, error) {
	switch s {
	case "24h", "h24", "":
		return ClockH24, nil
	case "12h", "h12":
		return ClockH12, nil
	case "fuzzy":
		return ClockFuzzy, nil
	}
	return ClockH24, fmt.Errorf("unknown clock type %q", s)
}

// Kind selects which face a Controller draws
type Kind int

const (
	KindDigital Kind = iota
	KindAnalog
	KindFuzzy
)

func (k Kind) String() string {
	switch k {
	case KindDigital:
		return "digital"
	case KindAnalog:
		return "analog"
	case KindFuzzy:
		return "fuzzy"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "digital", "":
		return KindDigital, nil
	case "analog":
		return KindAnalog, nil
	case "fuzzy":
		return KindFuzzy, nil
	}
	return KindDigital, fmt.Errorf("unknown face kind %q", s)
}

// Hand identifies one line of an analog face.
type Hand uint8

const (
	HandHour Hand = iota
	HandHourTrace
	HandMinute
	HandMinuteTrace
	HandSecond
)

func (h Hand) String() string {
	switch h {
	case HandHour:
		return "hour"
	case HandHourTrace:
		return "hour-trace"
	case HandMinute:
		return "minute"
	case HandMinuteTrace:
		return "minute-trace"
	case HandSecond:
		return "second"
	}
	return "unknown"
}

// Label identifies a text widget.
type Label uint8

const (
	LabelTime Label = iota
	LabelDate
	LabelAmPm
	LabelBattery
	LabelBLE
	LabelNotification
	LabelHeartRate
	LabelSteps
)

func (l Label) String() string {
	switch l {
	case LabelTime:
		return "time"
	case LabelDate:
		return "date"
	case LabelAmPm:
		return "ampm"
	case LabelBattery:
		return "battery"
	case LabelBLE:
		return "ble"
	case LabelNotification:
		return "notification"
	case LabelHeartRate:
		return "heart-rate"
	case LabelSteps:
		return "steps"
	}
	return "unknown"
}

// Palette switches hand and scale colours between day and night.
type Palette uint8

const (
	PaletteDay Palette = iota
	PaletteNight
)

func (p Palette) String() string {
	if p == PaletteNight {
		return "night"
	}
	return "day"
}

// State is the controller lifecycle
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Status symbols. The panels render with a plain ASCII font.
const (
	SymbolPlug         = "CHG"
	SymbolBluetooth    = "BT"
	SymbolNotification = "(!)"
)
