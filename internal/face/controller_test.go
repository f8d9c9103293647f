package face

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/watchface/pkg/polar"
	"github.com/chrissnell/watchface/pkg/solar"
)

type fakeSettings struct {
	loc     solar.Location
	ct      ClockType
	saves   int
	saveErr error
}

func (s *fakeSettings) Location() solar.Location { return s.loc }
func (s *fakeSettings) ClockType() ClockType { return s.ct }
func (s *fakeSettings) SetClockType(ct ClockType) {
	s.ct = ct
}
func (s *fakeSettings) Save() error {
	s.saves++
	return s.saveErr
}

type fakePeripherals struct {
	percent   int
	charging  bool
	connected bool
	notify    bool
	bpm       int
	running   bool
	steps     uint32
}

func (p *fakePeripherals) PercentRemaining() int { return p.percent }
func (p *fakePeripherals) IsCharging() bool { return p.charging }
func (p *fakePeripherals) IsConnected() bool { return p.connected }
func (p *fakePeripherals) NewNotificationsAvailable() bool { return p.notify }
func (p *fakePeripherals) HeartRate() int { return p.bpm }
func (p *fakePeripherals) Running() bool { return p.running }
func (p *fakePeripherals) Steps() uint32 { return p.steps }

func (p *fakePeripherals) all() Peripherals {
	return Peripherals{Battery: p, BLE: p, Notifications: p, HeartRate: p, Motion: p}
}

var london = solar.NewLocation(51, 0, 0)

func snapshot(hour, minute, second int) ClockSnapshot {
	return SnapshotOf(time.Date(2024, time.June, 21, hour, minute, second, 0, time.UTC))
}

func textOf(f Frame, l Label) (string, bool) {
	text, found := "", false
	for _, cmd := range f.Commands {
		if cmd.Kind == CommandText && cmd.Label == l {
			text, found = cmd.Text, true
		}
	}
	return text, found
}

func handOf(f Frame, h Hand) ([2]polar.Point, bool) {
	var pts [2]polar.Point
	found := false
	for _, cmd := range f.Commands {
		if cmd.Kind == CommandHand && cmd.Hand == h {
			pts, found = cmd.Points, true
		}
	}
	return pts, found
}

func TestSecondOnlyTickSkipsMinuteWork(t *testing.T) {
	c := New(KindAnalog, &fakeSettings{loc: london, ct: ClockH24}, Peripherals{})

	c.Tick(snapshot(10, 15, 0))
	frame := c.Tick(snapshot(10, 15, 1))

	stats := c.Stats()
	if stats.TimeRecomputes != 1 {
		t.Errorf("time recomputes = %d, expected 1", stats.TimeRecomputes)
	}
	if stats.DateRecomputes != 1 {
		t.Errorf("date recomputes = %d, expected 1", stats.DateRecomputes)
	}
	if stats.SecondRecompute != 2 {
		t.Errorf("second recomputes = %d, expected 2", stats.SecondRecompute)
	}

	if len(frame.Commands) != 1 {
		t.Fatalf("second-only tick produced %d commands, expected 1", len(frame.Commands))
	}
	if _, ok := handOf(frame, HandSecond); !ok {
		t.Error("second-only tick did not move the second hand")
	}

	// nothing changed at all
	if frame := c.Tick(snapshot(10, 15, 1)); !frame.Empty() {
		t.Errorf("repeated tick produced %d commands", len(frame.Commands))
	}
}

func TestAnalogHands(t *testing.T) {
	c := New(KindAnalog, &fakeSettings{loc: london, ct: ClockH24}, Peripherals{})
	frame := c.Tick(snapshot(3, 0, 0))

	tests := []struct {
		hand Hand
		want [2]polar.Point
	}{
		{hand: HandHour, want: [2]polar.Point{{X: 150, Y: 120}, {X: 190, Y: 120}}},
		{hand: HandHourTrace, want: [2]polar.Point{{X: 125, Y: 120}, {X: 151, Y: 120}}},
		{hand: HandMinute, want: [2]polar.Point{{X: 120, Y: 90}, {X: 120, Y: 30}}},
		{hand: HandMinuteTrace, want: [2]polar.Point{{X: 120, Y: 115}, {X: 120, Y: 89}}},
		{hand: HandSecond, want: [2]polar.Point{{X: 120, Y: 140}, {X: 120, Y: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.hand.String(), func(t *testing.T) {
			got, ok := handOf(frame, tt.hand)
			if !ok {
				t.Fatal("hand not drawn")
			}
			if got != tt.want {
				t.Errorf("points = %v, expected %v", got, tt.want)
			}
		})
	}

	if date, _ := textOf(frame, LabelDate); date != "Fri\n21" {
		t.Errorf("date = %q, expected %q", date, "Fri\n21")
	}
}

func TestSunDial(t *testing.T) {
	c := New(KindAnalog, &fakeSettings{loc: london, ct: ClockFuzzy}, Peripherals{})

	frame := c.Tick(snapshot(12, 0, 0))
	if label, _ := textOf(frame, LabelTime); label != "12:00" {
		t.Errorf("centre label = %q, expected 12:00", label)
	}
	if date, ok := textOf(frame, LabelDate); !ok || date != "" {
		t.Errorf("date label = %q (sent %v), expected hidden", date, ok)
	}
	if minute, _ := handOf(frame, HandMinute); minute != HiddenHand {
		t.Errorf("minute hand = %v, expected hidden", minute)
	}

	var palette []Palette
	for _, cmd := range frame.Commands {
		if cmd.Kind == CommandPalette {
			palette = append(palette, cmd.Palette)
		}
	}
	if len(palette) != 1 || palette[0] != PaletteDay {
		t.Errorf("palette = %v, expected day", palette)
	}

	// both hand bodies meet at the tip, hourLength from the centre
	hour, _ := handOf(frame, HandHour)
	trace, _ := handOf(frame, HandHourTrace)
	if hour[1] != trace[1] {
		t.Errorf("hand tips differ: %v and %v", hour[1], trace[1])
	}
	if hour[1].Y <= 120 {
		t.Errorf("noon tip %v should point down the dial", hour[1])
	}

	for s := 1; s < 60; s++ {
		if f := c.Tick(snapshot(12, 0, s)); !f.Empty() {
			t.Fatalf("second %d produced %d commands on the sun dial", s, len(f.Commands))
		}
	}
	c.Tick(snapshot(12, 1, 0))

	stats := c.Stats()
	if stats.SolarTimes != 1 {
		t.Errorf("solar times computed %d times, expected 1", stats.SolarTimes)
	}
	if stats.SolarAngles != 2 {
		t.Errorf("solar angle computed %d times, expected 2", stats.SolarAngles)
	}
}

func TestSunDialNightPalette(t *testing.T) {
	c := New(KindAnalog, &fakeSettings{loc: london, ct: ClockFuzzy}, Peripherals{})
	frame := c.Tick(snapshot(1, 30, 0))

	for _, cmd := range frame.Commands {
		if cmd.Kind == CommandPalette && cmd.Palette != PaletteNight {
			t.Errorf("palette at 01:30 = %v, expected night", cmd.Palette)
		}
	}
}

func TestDigitalFormats(t *testing.T) {
	tests := []struct {
		name   string
		ct     ClockType
		hour   int
		minute int
		time   string
		ampm   string
		date   string
	}{
		{name: "24h", ct: ClockH24, hour: 9, minute: 5, time: "09:05", ampm: "", date: "Fri 21 Jun 2024"},
		{name: "12h evening", ct: ClockH12, hour: 21, minute: 5, time: " 9:05", ampm: "PM", date: "Fri Jun 21 2024"},
		{name: "12h midnight", ct: ClockH12, hour: 0, minute: 30, time: "12:30", ampm: "AM", date: "Fri Jun 21 2024"},
		{name: "fuzzy", ct: ClockFuzzy, hour: 11, minute: 58, time: "nearly twelve\no'clock", ampm: "", date: "Fri Jun 21 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(KindDigital, &fakeSettings{loc: london, ct: tt.ct}, Peripherals{})
			frame := c.Tick(snapshot(tt.hour, tt.minute, 0))

			if got, _ := textOf(frame, LabelTime); got != tt.time {
				t.Errorf("time = %q, expected %q", got, tt.time)
			}
			if got, _ := textOf(frame, LabelAmPm); got != tt.ampm {
				t.Errorf("ampm = %q, expected %q", got, tt.ampm)
			}
			if got, _ := textOf(frame, LabelDate); got != tt.date {
				t.Errorf("date = %q, expected %q", got, tt.date)
			}
		})
	}
}

func TestFuzzyFace(t *testing.T) {
	c := New(KindFuzzy, &fakeSettings{loc: london, ct: ClockH24}, Peripherals{})
	frame := c.Tick(snapshot(15, 15, 0))

	if got, _ := textOf(frame, LabelTime); got != "quarter\npast\nthree" {
		t.Errorf("time = %q", got)
	}
	if frame := c.Tick(snapshot(15, 15, 30)); !frame.Empty() {
		t.Errorf("second change produced %d commands", len(frame.Commands))
	}
}

func TestLongPress(t *testing.T) {
	settings := &fakeSettings{loc: london, ct: ClockH24}
	c := New(KindDigital, settings, Peripherals{})
	c.Tick(snapshot(9, 0, 0))

	if !c.OnLongPress() {
		t.Fatal("long press not handled")
	}
	if settings.ct != ClockFuzzy || c.ClockType() != ClockFuzzy {
		t.Errorf("clock type = %v/%v, expected fuzzy", settings.ct, c.ClockType())
	}
	if settings.saves != 1 {
		t.Errorf("saves = %d, expected 1", settings.saves)
	}

	// same minute, but the long press forces a full redraw
	frame := c.Tick(snapshot(9, 0, 1))
	if got, _ := textOf(frame, LabelTime); got != "nine\no'clock" {
		t.Errorf("time after long press = %q", got)
	}
	if got, _ := textOf(frame, LabelDate); got != "Fri Jun 21 2024" {
		t.Errorf("date after long press = %q", got)
	}

	c.OnLongPress()
	if settings.ct != ClockH12 {
		t.Errorf("second long press gave %v, expected 12h", settings.ct)
	}
	c.OnLongPress()
	if settings.ct != ClockFuzzy {
		t.Errorf("third long press gave %v, expected fuzzy", settings.ct)
	}
}

func TestLongPressLeavesSunDial(t *testing.T) {
	settings := &fakeSettings{loc: london, ct: ClockFuzzy}
	c := New(KindAnalog, settings, Peripherals{})

	frame := c.Tick(snapshot(23, 0, 0))
	if label, _ := textOf(frame, LabelTime); label != "23:00" {
		t.Fatalf("centre label = %q, expected 23:00", label)
	}

	c.OnLongPress()
	if settings.ct != ClockH12 {
		t.Fatalf("clock type = %v, expected 12h", settings.ct)
	}

	frame = c.Tick(snapshot(23, 1, 0))
	var palette []Palette
	for _, cmd := range frame.Commands {
		if cmd.Kind == CommandPalette {
			palette = append(palette, cmd.Palette)
		}
	}
	if len(palette) != 1 || palette[0] != PaletteDay {
		t.Errorf("palette = %v, expected day", palette)
	}
	if label, ok := textOf(frame, LabelTime); !ok || label != "" {
		t.Errorf("centre label = %q (sent %v), expected cleared", label, ok)
	}
	if date, _ := textOf(frame, LabelDate); date != "Fri\n21" {
		t.Errorf("date = %q, expected the standard dial date", date)
	}
}

func TestLongPressSaveFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	settings := &fakeSettings{loc: london, ct: ClockFuzzy, saveErr: errors.New("disk full")}
	c := New(KindDigital, settings, Peripherals{}, WithLogger(zap.New(core).Sugar()))

	if !c.OnLongPress() {
		t.Fatal("long press not handled")
	}
	if c.ClockType() != ClockH12 {
		t.Errorf("clock type = %v, expected 12h", c.ClockType())
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d errors, expected 1", logs.Len())
	}
	if frame := c.Tick(snapshot(9, 0, 0)); frame.Empty() {
		t.Error("face stopped rendering after a save failure")
	}
}

func TestStatusRow(t *testing.T) {
	p := &fakePeripherals{percent: 80, connected: true, bpm: 72, running: true, steps: 1234}
	c := New(KindDigital, &fakeSettings{loc: london}, p.all())

	frame := c.Tick(snapshot(8, 0, 0))
	expect := map[Label]string{
		LabelBattery:      "80%",
		LabelBLE:          SymbolBluetooth,
		LabelNotification: "",
		LabelHeartRate:    "72",
		LabelSteps:        "1234",
	}
	for label, want := range expect {
		if got, ok := textOf(frame, label); !ok || got != want {
			t.Errorf("%v = %q (sent %v), expected %q", label, got, ok, want)
		}
	}

	p.charging = true
	p.running = false
	p.notify = true
	frame = c.Tick(snapshot(8, 0, 1))
	expect = map[Label]string{
		LabelBattery:      SymbolPlug,
		LabelHeartRate:    "",
		LabelNotification: SymbolNotification,
	}
	for label, want := range expect {
		if got, ok := textOf(frame, label); !ok || got != want {
			t.Errorf("%v = %q (sent %v), expected %q", label, got, ok, want)
		}
	}
	if _, ok := textOf(frame, LabelSteps); ok {
		t.Error("unchanged steps were redrawn")
	}

	// battery drains while charging: nothing to redraw
	p.percent = 79
	if _, ok := textOf(c.Tick(snapshot(8, 0, 2)), LabelBattery); ok {
		t.Error("battery percentage redrawn while charging")
	}

	p.charging = false
	if got, _ := textOf(c.Tick(snapshot(8, 0, 3)), LabelBattery); got != "79%" {
		t.Errorf("battery after unplugging = %q", got)
	}
}

func TestAnalogSkipsHeartRateAndSteps(t *testing.T) {
	p := &fakePeripherals{percent: 50, bpm: 60, running: true, steps: 10}
	c := New(KindAnalog, &fakeSettings{loc: london}, p.all())
	frame := c.Tick(snapshot(8, 0, 0))

	if _, ok := textOf(frame, LabelHeartRate); ok {
		t.Error("analog face drew the heart rate")
	}
	if _, ok := textOf(frame, LabelSteps); ok {
		t.Error("analog face drew steps")
	}
	if got, _ := textOf(frame, LabelBattery); got != "50%" {
		t.Errorf("battery = %q", got)
	}
}

func TestReloadSettings(t *testing.T) {
	settings := &fakeSettings{loc: london, ct: ClockFuzzy}
	c := New(KindAnalog, settings, Peripherals{})
	c.Tick(snapshot(12, 0, 0))

	settings.loc = solar.NewLocation(40.42, -3.7, 2)
	c.ReloadSettings()
	if c.Location() != settings.loc {
		t.Errorf("location = %+v, expected %+v", c.Location(), settings.loc)
	}

	frame := c.Tick(snapshot(12, 0, 1))
	if _, ok := handOf(frame, HandHour); !ok {
		t.Error("reload did not redraw the hour hand")
	}
	if got := c.Stats().SolarTimes; got != 2 {
		t.Errorf("solar times computed %d times, expected 2", got)
	}
}

func TestClose(t *testing.T) {
	c := New(KindDigital, &fakeSettings{loc: london}, Peripherals{})
	if c.State() != StateUninitialized {
		t.Errorf("state = %v", c.State())
	}
	c.Tick(snapshot(8, 0, 0))
	if c.State() != StateActive {
		t.Errorf("state = %v", c.State())
	}

	c.Close()
	if c.State() != StateClosed {
		t.Errorf("state = %v", c.State())
	}
	if frame := c.Tick(snapshot(8, 1, 0)); !frame.Empty() || frame.Seq != 0 {
		t.Errorf("closed face produced %+v", frame)
	}
	if c.OnLongPress() {
		t.Error("closed face handled a long press")
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	sunDial := New(KindAnalog, &fakeSettings{loc: london, ct: ClockFuzzy}, Peripherals{})
	standard := New(KindAnalog, &fakeSettings{loc: london, ct: ClockH24}, Peripherals{})

	sunDial.Tick(snapshot(3, 0, 0))
	frame := standard.Tick(snapshot(3, 0, 0))

	hour, _ := handOf(frame, HandHour)
	if hour[1] != (polar.Point{X: 190, Y: 120}) {
		t.Errorf("standard hour hand tip = %v, a sun dial changed its length", hour[1])
	}
	if sunDial.ID() == standard.ID() {
		t.Error("instances share an id")
	}
}
