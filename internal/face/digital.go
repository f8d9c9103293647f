package face

import (
	"fmt"

	"github.com/chrissnell/watchface/pkg/fuzzy"
	"github.com/chrissnell/watchface/pkg/solar"
)

type digitalFace struct {
	words *fuzzy.Formatter
}

func newDigitalFace() *digitalFace {
	return &digitalFace{words: fuzzy.New(fuzzy.VariantNearly, &fuzzy.English)}
}

func (d *digitalFace) refreshTime(out Sink, snap ClockSnapshot, ct ClockType) {
	switch ct {
	case ClockH12:
		hour := snap.Hour % 12
		if hour == 0 {
			hour = 12
		}
		out.SetText(LabelTime, fmt.Sprintf("%2d:%02d", hour, snap.Minute))
		out.SetText(LabelAmPm, ampm(snap.Hour))
	case ClockFuzzy:
		out.SetText(LabelTime, d.words.Phrase(snap.Hour, snap.Minute).Text())
		out.SetText(LabelAmPm, "")
	default:
		out.SetText(LabelTime, fmt.Sprintf("%02d:%02d", snap.Hour, snap.Minute))
		out.SetText(LabelAmPm, "")
	}
}

func (d *digitalFace) refreshSecond(Sink, ClockSnapshot, ClockType) {}

func (d *digitalFace) refreshDate(out Sink, snap ClockSnapshot, ct ClockType) {
	out.SetText(LabelDate, longDate(snap, ct))
}

func (d *digitalFace) setLocation(solar.Location) {}

func (d *digitalFace) solarStats() (int, int) { return 0, 0 }

// fuzzyFace shows the time only as words.
type fuzzyFace struct {
	words *fuzzy.Formatter
}

func newFuzzyFace(f *fuzzy.Formatter) *fuzzyFace {
	return &fuzzyFace{words: f}
}

func (f *fuzzyFace) refreshTime(out Sink, snap ClockSnapshot, _ ClockType) {
	out.SetText(LabelTime, f.words.Phrase(snap.Hour, snap.Minute).Text())
}

func (f *fuzzyFace) refreshSecond(Sink, ClockSnapshot, ClockType) {}

func (f *fuzzyFace) refreshDate(out Sink, snap ClockSnapshot, ct ClockType) {
	out.SetText(LabelDate, longDate(snap, ct))
}

func (f *fuzzyFace) setLocation(solar.Location) {}

func (f *fuzzyFace) solarStats() (int, int) { return 0, 0 }

func ampm(hour int) string {
	if hour < 12 {
		return "AM"
	}
	return "PM"
}

// longDate puts the day before the month on 24 hour clocks.
func longDate(snap ClockSnapshot, ct ClockType) string {
	if ct == ClockH24 {
		return fmt.Sprintf("%s %d %s %d", shortWeekday(snap), snap.Day, shortMonth(snap), snap.Year)
	}
	return fmt.Sprintf("%s %s %d %d", shortWeekday(snap), shortMonth(snap), snap.Day, snap.Year)
}

func shortWeekday(snap ClockSnapshot) string {
	return snap.Weekday.String()[:3]
}

func shortMonth(snap ClockSnapshot) string {
	if snap.Month < 1 || snap.Month > 12 {
		return "???"
	}
	return snap.Month.String()[:3]
}
