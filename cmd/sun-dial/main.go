package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/watchface/pkg/solar"
)

func main() {
	var (
		lat     = flag.Float64("lat", 51.5, "Latitude in degrees, north positive")
		lon     = flag.Float64("lon", 0, "Longitude in degrees, east positive")
		tz      = flag.Int("tz", 0, "Offset from UTC in whole hours")
		timeStr = flag.String("time", "", "Local time to show the hand for (2006-01-02T15:04, default now)")
		model   = flag.String("model", "approx", "Sunrise model: 'approx' or 'noaa'")
		year    = flag.Int("year", 0, "Print a day-length summary for this year instead")
	)
	flag.Parse()

	if *tz < -12 || *tz > 14 {
		fmt.Fprintf(os.Stderr, "Error: timezone offset %d out of range\n", *tz)
		os.Exit(1)
	}

	loc := solar.NewLocation(*lat, *lon, int8(*tz))
	calc := solar.CalculatorByName(*model)

	if *year != 0 {
		printSummary(solar.Summarize(calc, loc, *year))
		return
	}

	var t time.Time
	if *timeStr == "" {
		t = time.Now().In(loc.Zone())
	} else {
		var err error
		t, err = time.ParseInLocation("2006-01-02T15:04", *timeStr, loc.Zone())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	reading, _ := solar.NewClock(calc, loc).Update(solar.DateOf(t), t.Hour(), t.Minute())

	fmt.Printf("Sun dial for %s at %v, %v\n", t.Format("2006-01-02 15:04 MST"), loc.Latitude, loc.Longitude)
	fmt.Printf("  Sunrise:    %s\n", solar.FormatMinutes(reading.Times.Sunrise))
	fmt.Printf("  Sunset:     %s\n", solar.FormatMinutes(reading.Times.Sunset))
	if reading.Times.Polar != solar.PolarNone {
		fmt.Printf("  Polar:      %v\n", reading.Times.Polar)
	}
	fmt.Printf("  Regime:     %v\n", reading.Regime)
	fmt.Printf("  Hand angle: %d°\n", reading.Angle)
	if reading.Daytime {
		fmt.Printf("  Palette:    day\n")
	} else {
		fmt.Printf("  Palette:    night\n")
	}
}

func printSummary(s solar.YearSummary) {
	fmt.Printf("Day length for %d (%d days)\n", s.Year, s.Days)
	fmt.Printf("  Mean:     %s\n", hoursMinutes(s.MeanMinutes))
	fmt.Printf("  Std dev:  %.0f min\n", s.StdDevMinutes)
	fmt.Printf("  Shortest: %04d-%02d-%02d %s (%s-%s)\n", s.Shortest.Date.Year, s.Shortest.Date.Month, s.Shortest.Date.Day,
		hoursMinutes(float64(s.Shortest.Minutes)), solar.FormatMinutes(s.Shortest.Times.Sunrise), solar.FormatMinutes(s.Shortest.Times.Sunset))
	fmt.Printf("  Longest:  %04d-%02d-%02d %s (%s-%s)\n", s.Longest.Date.Year, s.Longest.Date.Month, s.Longest.Date.Day,
		hoursMinutes(float64(s.Longest.Minutes)), solar.FormatMinutes(s.Longest.Times.Sunrise), solar.FormatMinutes(s.Longest.Times.Sunset))
	if s.PolarDays > 0 || s.PolarNights > 0 {
		fmt.Printf("  Polar:    %d days, %d nights\n", s.PolarDays, s.PolarNights)
	}
}

func hoursMinutes(minutes float64) string {
	m := int(minutes + 0.5)
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
