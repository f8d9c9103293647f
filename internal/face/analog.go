package face

import (
	"fmt"

	"github.com/chrissnell/watchface/pkg/polar"
	"github.com/chrissnell/watchface/pkg/solar"
)

const (
	hourLength        = 70
	minuteLength      = 90
	secondLength      = 110
	sunDialHourLength = 40

	// sun dial hands start at the axis radius minus the line stroke
	sunDialAxis   = 28
	sunDialSpread = 66
)

type analogFace struct {
	mapper polar.Mapper
	clock  *solar.Clock

	// hourLength differs between the standard dial and the sun dial
	hourLength int
}

func newAnalogFace(m polar.Mapper, clock *solar.Clock) *analogFace {
	return &analogFace{mapper: m, clock: clock, hourLength: hourLength}
}

func (a *analogFace) refreshTime(out Sink, snap ClockSnapshot, ct ClockType) {
	if ct == ClockFuzzy {
		a.sunDial(out, snap)
		return
	}
	a.hourLength = hourLength

	// the sun dial may have left a night palette and its centre label behind
	out.SetPalette(PaletteDay)
	out.SetText(LabelTime, "")

	angle := snap.Hour*30 + snap.Minute/2
	out.SetHandPoints(HandHour, a.mapper.Segment(30, a.hourLength, angle))
	out.SetHandPoints(HandHourTrace, a.mapper.Segment(5, 31, angle))

	angle = snap.Minute * 6
	out.SetHandPoints(HandMinute, a.mapper.Segment(30, minuteLength, angle))
	out.SetHandPoints(HandMinuteTrace, a.mapper.Segment(5, 31, angle))
}

func (a *analogFace) sunDial(out Sink, snap ClockSnapshot) {
	a.hourLength = sunDialHourLength

	reading, _ := a.clock.Update(snap.Date(), snap.Hour, snap.Minute)
	angle := reading.Angle

	out.SetHandPoints(HandHourTrace, [2]polar.Point{
		a.mapper.Point(sunDialAxis, angle-sunDialSpread),
		a.mapper.Point(a.hourLength, angle),
	})
	out.SetHandPoints(HandHour, [2]polar.Point{
		a.mapper.Point(sunDialAxis, angle+sunDialSpread),
		a.mapper.Point(a.hourLength, angle),
	})
	out.SetHandPoints(HandMinute, HiddenHand)
	out.SetHandPoints(HandMinuteTrace, HiddenHand)
	out.SetHandPoints(HandSecond, HiddenHand)

	out.SetText(LabelTime, fmt.Sprintf("%02d:%02d", snap.Hour, snap.Minute))
	if reading.Daytime {
		out.SetPalette(PaletteDay)
	} else {
		out.SetPalette(PaletteNight)
	}
}

func (a *analogFace) refreshSecond(out Sink, snap ClockSnapshot, ct ClockType) {
	if ct == ClockFuzzy {
		return
	}
	out.SetHandPoints(HandSecond, a.mapper.Segment(-20, secondLength, snap.Second*6))
}

func (a *analogFace) refreshDate(out Sink, snap ClockSnapshot, ct ClockType) {
	if ct == ClockFuzzy {
		out.SetText(LabelDate, "")
		return
	}
	out.SetText(LabelDate, fmt.Sprintf("%s\n%02d", shortWeekday(snap), snap.Day))
}

func (a *analogFace) setLocation(loc solar.Location) {
	a.clock.SetLocation(loc)
}

func (a *analogFace) solarStats() (int, int) {
	return a.clock.Stats()
}
