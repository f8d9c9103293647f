package solar

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// YearSummary describes how day length varies over a calendar year.
type YearSummary struct {
	Year          int
	Days          int
	MeanMinutes   float64
	StdDevMinutes float64
	Shortest      DayLength
	Longest       DayLength
	PolarDays     int
	PolarNights   int
}

// DayLength is the daylight span of one date
type DayLength struct {
	Date    Date
	Minutes int
	Times   SolarTimes
}

// daylightMinutes counts polar day as a full day and polar night as none
func daylightMinutes(t SolarTimes) int {
	switch t.Polar {
	case PolarDay:
		return minutesPerDay
	case PolarNight:
		return 0
	}
	return t.Daytime()
}

// Summarize computes day-length statistics for every day of year at loc.
func Summarize(calc Calculator, loc Location, year int) YearSummary {
	if calc == nil {
		calc = Approx{}
	}

	var lengths []DayLength
	var minutes []float64
	summary := YearSummary{Year: year}

	for day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); day.Year() == year; day = day.AddDate(0, 0, 1) {
		date := DateOf(day)
		times := calc.Times(date, loc)
		switch times.Polar {
		case PolarDay:
			summary.PolarDays++
		case PolarNight:
			summary.PolarNights++
		}

		dl := DayLength{Date: date, Minutes: daylightMinutes(times), Times: times}
		lengths = append(lengths, dl)
		minutes = append(minutes, float64(dl.Minutes))
	}

	summary.Days = len(lengths)
	summary.MeanMinutes, summary.StdDevMinutes = stat.MeanStdDev(minutes, nil)
	summary.Shortest = lengths[floats.MinIdx(minutes)]
	summary.Longest = lengths[floats.MaxIdx(minutes)]

	return summary
}
