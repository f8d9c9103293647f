// Package trig provides fixed-point sine and cosine keyed by integer degree.
// Values are scaled so that Sin(90) == Scale, which lets screen geometry stay
// in integer arithmetic.
package trig

import "math"

// Scale is the fixed-point value of sin(90°)
const Scale = 32767

// quarter holds sin(0°)..sin(90°); the other three quadrants are mirrored from it
var quarter [91]int16

func init() {
	for deg := range quarter {
		quarter[deg] = int16(math.Round(math.Sin(float64(deg)*math.Pi/180.0) * Scale))
	}
}

// Sin returns the fixed-point sine of angle degrees. Any integer angle is accepted.
func Sin(angle int) int32 {
	angle %= 360
	if angle < 0 {
		angle += 360
	}

	switch {
	case angle < 90:
		return int32(quarter[angle])
	case angle < 180:
		return int32(quarter[180-angle])
	case angle < 270:
		return -int32(quarter[angle-180])
	default:
		return -int32(quarter[360-angle])
	}
}

// Cos returns the fixed-point cosine of angle degrees.
func Cos(angle int) int32 {
	return Sin(angle + 90)
}
