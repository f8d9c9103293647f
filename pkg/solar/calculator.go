package solar

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/soniakeys/meeus/v3/julian"
)

// Calculator produces sunrise and sunset for a day at a location.
type Calculator interface {
	Times(date Date, loc Location) SolarTimes
}

// Approx is the declination/hour-angle model with an equation of time correction.
type Approx struct{}

func (Approx) Times(date Date, loc Location) SolarTimes {
	doy := julian.DayOfYearGregorian(date.Year, int(date.Month), date.Day)
	rise, set, polar := sunTimesUTC(date.Year, doy, loc.Latitude.Float64(), loc.Longitude.Float64())
	if polar != PolarNone {
		return polarTimes(polar)
	}
	return SolarTimes{
		Sunrise: toLocal(rise, loc.TZOffset),
		Sunset:  toLocal(set, loc.TZOffset),
	}
}

// NOAA uses the NOAA sunrise equation from github.com/nathan-osman/go-sunrise.
type NOAA struct{}

func (NOAA) Times(date Date, loc Location) SolarTimes {
	rise, set := sunrise.SunriseSunset(loc.Latitude.Float64(), loc.Longitude.Float64(), date.Year, date.Month, date.Day)
	if rise.IsZero() || set.IsZero() {
		polar := PolarConditionFor(date.YearDay(), loc.Latitude.Float64())
		if polar == PolarNone {
			// The two models disagree right at the polar boundary; go-sunrise
			// saw no crossing, so side with the hemisphere's season.
			polar = PolarNight
			if cosHourAngle(date.YearDay(), loc.Latitude.Float64()) < 0 {
				polar = PolarDay
			}
		}
		return polarTimes(polar)
	}
	return SolarTimes{
		Sunrise: toLocal(minuteOfDayUTC(rise), loc.TZOffset),
		Sunset:  toLocal(minuteOfDayUTC(set), loc.TZOffset),
	}
}

func minuteOfDayUTC(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

func polarTimes(p PolarCondition) SolarTimes {
	if p == PolarDay {
		return SolarTimes{Sunrise: 0, Sunset: minutesPerDay - 1, Polar: p}
	}
	return SolarTimes{Sunrise: 720, Sunset: 720, Polar: p}
}

// CalculatorByName maps a configuration value to a Calculator. Unknown names
// fall back to Approx.
func CalculatorByName(name string) Calculator {
	switch name {
	case "noaa":
		return NOAA{}
	default:
		return Approx{}
	}
}
