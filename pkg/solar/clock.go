package solar

import "github.com/chrissnell/watchface/pkg/observed"

// Regime identifies which interpolation formula produced a hand angle
type Regime int

const (
	RegimePreSunrise Regime = iota
	RegimeDaytime
	RegimePostSunset
	RegimePolarDay
	RegimePolarNight
)

func (r Regime) String() string {
	switch r {
	case RegimePreSunrise:
		return "pre-sunrise"
	case RegimeDaytime:
		return "daytime"
	case RegimePostSunset:
		return "post-sunset"
	case RegimePolarDay:
		return "polar day"
	case RegimePolarNight:
		return "polar night"
	}
	return "unknown"
}

const (
	// SunsetAngle and SunriseAngle are where the hour hand sits at the two transitions
	SunsetAngle  = 90
	SunriseAngle = 270

	polarDayAngle   = 180
	polarNightAngle = 0
)

// Reading is the sun dial state for one minute.
type Reading struct {
	Angle   int        `json:"angle"`
	Daytime bool       `json:"daytime"`
	Regime  Regime     `json:"regime"`
	Times   SolarTimes `json:"times"`
}

// HandAngle returns the sun dial hour-hand angle for minuteOfDay. The hand
// covers half a turn during the day (sunrise at 270, through 180, to sunset at
// 90) and the other half during the night, so both halves meet at sunrise and
// sunset.
func HandAngle(t SolarTimes, minuteOfDay int) (int, Regime) {
	switch t.Polar {
	case PolarDay:
		return polarDayAngle, RegimePolarDay
	case PolarNight:
		return polarNightAngle, RegimePolarNight
	}

	day := clampSpan(t.Daytime())
	night := clampSpan(minutesPerDay - day)
	beforeSunset := t.Sunset - minuteOfDay
	if t.Sunset < t.Sunrise && minuteOfDay >= t.Sunrise {
		// daytime runs through midnight; measure to tomorrow's wrapped sunset
		beforeSunset += minutesPerDay
	}

	var angle int
	var regime Regime
	switch {
	case beforeSunset > day:
		angle = SunriseAngle + floorDiv(180*(beforeSunset-day), night)
		regime = RegimePreSunrise
	case beforeSunset > 0:
		angle = SunsetAngle + floorDiv(180*beforeSunset, day)
		regime = RegimeDaytime
	default:
		angle = SunsetAngle + floorDiv(180*beforeSunset, night)
		regime = RegimePostSunset
	}

	return normalizeDegrees(angle), regime
}

// clampSpan keeps a day or night length usable as a divisor
func clampSpan(minutes int) int {
	if minutes < 1 {
		return 1
	}
	if minutes > minutesPerDay-1 {
		return minutesPerDay - 1
	}
	return minutes
}

// floorDiv rounds toward negative infinity so the hand moves in even steps on
// both sides of sunset
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func normalizeDegrees(a int) int {
	a %= 360
	if a < 0 {
		a += 360
	}
	return a
}

// Clock caches solar times per calendar day and the hand angle per minute.
// It is not safe for concurrent use.
type Clock struct {
	calc     Calculator
	location Location

	date   observed.Observed[Date]
	minute observed.Observed[int]
	primed bool

	times   SolarTimes
	reading Reading

	timesComputed int
	angleComputed int
}

// NewClock returns a Clock for loc. A nil calc uses Approx.
func NewClock(calc Calculator, loc Location) *Clock {
	if calc == nil {
		calc = Approx{}
	}
	return &Clock{calc: calc, location: loc}
}

// SetLocation replaces the observer location; solar times are recomputed on the next Update.
func (c *Clock) SetLocation(loc Location) {
	if loc == c.location {
		return
	}
	c.location = loc
	c.date.Invalidate()
	c.minute.Invalidate()
}

// Location returns the observer location
func (c *Clock) Location() Location {
	return c.location
}

// Update advances the clock to the given local date and time of day. It
// reports whether the reading changed since the previous call.
func (c *Clock) Update(date Date, hour, minute int) (Reading, bool) {
	c.date.Set(date)
	c.minute.Set(hour*60 + minute)

	newDay := !c.primed || c.date.IsUpdated()
	if newDay {
		c.times = c.calc.Times(date, c.location)
		c.timesComputed++
	}

	if !newDay && !c.minute.IsUpdated() {
		return c.reading, false
	}
	c.primed = true

	angle, regime := HandAngle(c.times, c.minute.Get())
	c.angleComputed++
	c.reading = Reading{
		Angle:   angle,
		Daytime: regime == RegimeDaytime || regime == RegimePolarDay,
		Regime:  regime,
		Times:   c.times,
	}
	return c.reading, true
}

// Stats returns how many times solar times and the hand angle were computed.
func (c *Clock) Stats() (times, angles int) {
	return c.timesComputed, c.angleComputed
}
