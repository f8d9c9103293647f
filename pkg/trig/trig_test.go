package trig

import (
	"math"
	"testing"
)

func TestSinKnownAngles(t *testing.T) {
	tests := []struct {
		angle int
		want  int32
	}{
		{0, 0},
		{30, 16384},
		{90, Scale},
		{180, 0},
		{270, -Scale},
		{-90, -Scale},
		{450, Scale},
	}

	for _, tt := range tests {
		if got := Sin(tt.angle); got != tt.want {
			t.Errorf("Sin(%d) = %d, expected %d", tt.angle, got, tt.want)
		}
	}
}

func TestCosIsShiftedSin(t *testing.T) {
	for a := -720; a <= 720; a++ {
		if Cos(a) != Sin(a+90) {
			t.Fatalf("Cos(%d) = %d, Sin(%d) = %d", a, Cos(a), a+90, Sin(a+90))
		}
	}
}

func TestPeriodicity(t *testing.T) {
	for a := 0; a < 360; a++ {
		if Sin(a) != Sin(a+360) || Sin(a) != Sin(a-360) {
			t.Errorf("Sin not periodic at %d", a)
		}
	}
}

func TestAgainstFloatSine(t *testing.T) {
	for a := 0; a < 360; a++ {
		want := math.Sin(float64(a)*math.Pi/180.0) * Scale
		if diff := math.Abs(float64(Sin(a)) - want); diff > 1 {
			t.Errorf("Sin(%d) = %d, expected ~%.1f", a, Sin(a), want)
		}
	}
}
