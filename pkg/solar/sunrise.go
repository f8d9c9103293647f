package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const minutesPerDay = 1440

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// CalculateSunriseSunset returns sunrise and sunset as minutes from midnight UTC
// for the given day-of-year at the specified latitude and longitude.
// Returns (-1, -1, nil) for polar day (sun never sets) or polar night (sun never rises).
func CalculateSunriseSunset(year, dayOfYear int, latitude, longitude float64) (sunriseMinutes, sunsetMinutes int, err error) {
	sunrise, sunset, polar := sunTimesUTC(year, dayOfYear, latitude, longitude)
	if polar != PolarNone {
		return -1, -1, nil
	}
	return sunrise, sunset, nil
}

// cosHourAngle returns cos(H) for the sunrise/sunset hour angle, where the sun
// sits on the horizon: cos(H) = -tan(lat) * tan(declination)
func cosHourAngle(dayOfYear int, latitude float64) float64 {
	doy := float64(dayOfYear)
	innerAngle := degToRad(356.6 + 0.9856*doy)
	outerAngle := degToRad(278.97 + 0.9856*doy + 1.9165*math.Sin(innerAngle))
	declinationRad := math.Asin(0.39785 * math.Sin(outerAngle))

	return -math.Tan(degToRad(latitude)) * math.Tan(declinationRad)
}

// PolarConditionFor reports whether the sun stays above (PolarDay) or below
// (PolarNight) the horizon all day at this latitude.
func PolarConditionFor(dayOfYear int, latitude float64) PolarCondition {
	cosH := cosHourAngle(dayOfYear, latitude)
	switch {
	case cosH < -1.0:
		return PolarDay
	case cosH > 1.0:
		return PolarNight
	}
	return PolarNone
}

func sunTimesUTC(year, dayOfYear int, latitude, longitude float64) (sunrise, sunset int, polar PolarCondition) {
	cosH := cosHourAngle(dayOfYear, latitude)
	if polar = PolarConditionFor(dayOfYear, latitude); polar != PolarNone {
		return -1, -1, polar
	}

	// 15 degrees of hour angle per hour
	hourAngleMinutes := radToDeg(math.Acos(cosH)) / 15.0 * 60.0

	// Each degree of longitude shifts solar noon by 4 minutes; east is earlier in UTC
	refTime := time.Date(year, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	solarNoonUTC := 720.0 - longitude*4.0 - equationOfTime(refTime)

	sunriseUTC := math.Mod(solarNoonUTC-hourAngleMinutes+minutesPerDay, minutesPerDay)
	sunsetUTC := math.Mod(solarNoonUTC+hourAngleMinutes+minutesPerDay, minutesPerDay)

	return int(math.Round(sunriseUTC)) % minutesPerDay, int(math.Round(sunsetUTC)) % minutesPerDay, PolarNone
}

// equationOfTime returns apparent minus mean solar time in minutes
func equationOfTime(t time.Time) float64 {
	T := (julian.TimeToJD(t) - 2451545.0) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
}

// FormatSunTime converts UTC minutes from midnight to a formatted time string
// in the given timezone location.
func FormatSunTime(utcMinutes int, loc *time.Location) string {
	if utcMinutes < 0 {
		return ""
	}

	t := time.Date(2000, 1, 1, utcMinutes/60, utcMinutes%60, 0, 0, time.UTC)
	return t.In(loc).Format("3:04 PM")
}

// FormatMinutes renders minutes past local midnight as HH:MM.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		return "--:--"
	}
	minutes %= minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
