// Package solar computes local sunrise and sunset for a fixed location and
// derives the hour-hand angle of a day/night sun dial from them.
package solar

import (
	"fmt"
	"math"
	"time"
)

// Coordinate is a signed fixed-point angle in hundredths of a degree
type Coordinate int32

// Degrees converts floating point degrees to a Coordinate, rounding to the nearest hundredth.
func Degrees(deg float64) Coordinate {
	return Coordinate(math.Round(deg * 100))
}

// Float64 returns the coordinate in degrees
func (c Coordinate) Float64() float64 {
	return float64(c) / 100
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.2f", c.Float64())
}

// Location is the observer position. TZOffset is whole hours east of UTC.
type Location struct {
	Latitude  Coordinate `json:"latitude" msgpack:"latitude"`
	Longitude Coordinate `json:"longitude" msgpack:"longitude"`
	TZOffset  int8       `json:"tz_offset" msgpack:"tz_offset"`
}

// NewLocation builds a Location from floating point degrees.
func NewLocation(latitude, longitude float64, tzOffset int8) Location {
	return Location{
		Latitude:  Degrees(latitude),
		Longitude: Degrees(longitude),
		TZOffset:  tzOffset,
	}
}

// Zone returns a fixed time.Location for the TZ offset.
func (l Location) Zone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", l.TZOffset), int(l.TZOffset)*3600)
}

// Date is a calendar day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// YearDay returns the day of year, 1-based.
func (d Date) YearDay() int {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).YearDay()
}

// PolarCondition marks days on which the sun does not cross the horizon
type PolarCondition int

const (
	PolarNone PolarCondition = iota
	PolarDay
	PolarNight
)

func (p PolarCondition) String() string {
	switch p {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	}
	return "none"
}

// SolarTimes holds local sunrise and sunset in minutes past midnight.
type SolarTimes struct {
	Sunrise int            `json:"sunrise"`
	Sunset  int            `json:"sunset"`
	Polar   PolarCondition `json:"polar"`
}

// Daytime returns the minutes between sunrise and sunset. A sunset that
// falls after local midnight wraps to a smaller minute than sunrise, so the
// span then crosses midnight.
func (s SolarTimes) Daytime() int {
	d := s.Sunset - s.Sunrise
	if d < 0 {
		d += minutesPerDay
	}
	return d
}

// Nighttime returns the minutes between sunset and the next sunrise.
func (s SolarTimes) Nighttime() int {
	return minutesPerDay - s.Daytime()
}

// toLocal shifts UTC minutes by the location's offset and wraps into one day
func toLocal(utcMinutes int, tzOffset int8) int {
	m := (utcMinutes + int(tzOffset)*60) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return m
}
