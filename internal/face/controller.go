package face

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/watchface/pkg/fuzzy"
	"github.com/chrissnell/watchface/pkg/observed"
	"github.com/chrissnell/watchface/pkg/polar"
	"github.com/chrissnell/watchface/pkg/solar"
)

// watchFace draws the kind-specific parts. The controller only calls it for
// the parts whose inputs changed.
type watchFace interface {
	refreshTime(out Sink, snap ClockSnapshot, ct ClockType)
	refreshSecond(out Sink, snap ClockSnapshot, ct ClockType)
	refreshDate(out Sink, snap ClockSnapshot, ct ClockType)
	setLocation(loc solar.Location)
	solarStats() (times, angles int)
}

// Stats counts recomputations since construction.
type Stats struct {
	Ticks           int `json:"ticks"`
	TimeRecomputes  int `json:"time_recomputes"`
	SecondRecompute int `json:"second_recomputes"`
	DateRecomputes  int `json:"date_recomputes"`
	SolarTimes      int `json:"solar_times"`
	SolarAngles     int `json:"solar_angles"`
}

type hourMinute struct {
	hour, minute int
}

// Controller owns one face instance. It is not safe for concurrent use; the
// host calls it from a single tick goroutine.
type Controller struct {
	id       string
	kind     Kind
	settings Settings
	periph   Peripherals
	logger   *zap.SugaredLogger

	mapper  polar.Mapper
	calc    solar.Calculator
	table   *fuzzy.Table
	variant fuzzy.Variant

	face      watchFace
	state     State
	seq       uint64
	clockType ClockType
	location  solar.Location
	force     bool

	charging     observed.Observed[bool]
	battery      observed.Observed[int]
	bleConnected observed.Observed[bool]
	notification observed.Observed[bool]
	heartbeat    observed.Observed[int]
	heartRunning observed.Observed[bool]
	steps        observed.Observed[uint32]
	minute       observed.Observed[hourMinute]
	second       observed.Observed[int]
	date         observed.Observed[solar.Date]

	stats Stats
}

// Option configures a Controller
type Option func(*Controller)

// WithCalculator sets the sunrise/sunset model used by the sun dial.
func WithCalculator(calc solar.Calculator) Option {
	return func(c *Controller) { c.calc = calc }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMapper overrides the full-screen polar mapper.
func WithMapper(m polar.Mapper) Option {
	return func(c *Controller) { c.mapper = m }
}

// WithFuzzyTable sets the phrase table of the fuzzy face.
func WithFuzzyTable(t *fuzzy.Table) Option {
	return func(c *Controller) { c.table = t }
}

// WithFuzzyVariant sets the rounding rules of the fuzzy face.
func WithFuzzyVariant(v fuzzy.Variant) Option {
	return func(c *Controller) { c.variant = v }
}

// New builds a face controller of the given kind. Location and clock type are
// read from settings once here and again only on ReloadSettings.
func New(kind Kind, settings Settings, periph Peripherals, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.New().String(),
		kind:     kind,
		settings: settings,
		periph:   periph,
		logger:   zap.NewNop().Sugar(),
		mapper:   polar.Screen240,
		calc:     solar.Approx{},
		table:    &fuzzy.English,
		variant:  fuzzy.VariantSector,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.location = settings.Location()
	c.clockType = settings.ClockType()

	switch kind {
	case KindAnalog:
		c.face = newAnalogFace(c.mapper, solar.NewClock(c.calc, c.location))
	case KindFuzzy:
		c.face = newFuzzyFace(fuzzy.New(c.variant, c.table))
	default:
		c.face = newDigitalFace()
	}

	c.logger.Debugw("face created", "id", c.id, "kind", kind, "clock_type", c.clockType,
		"latitude", c.location.Latitude, "longitude", c.location.Longitude)
	return c
}

func (c *Controller) ID() string { return c.id }
func (c *Controller) Kind() Kind { return c.kind }
func (c *Controller) State() State { return c.state }
func (c *Controller) ClockType() ClockType { return c.clockType }
func (c *Controller) Location() solar.Location { return c.location }

// Stats returns the recomputation counters.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.SolarTimes, s.SolarAngles = c.face.solarStats()
	return s
}

// Tick advances the face to snap and returns the commands for what changed.
func (c *Controller) Tick(snap ClockSnapshot) Frame {
	if c.state == StateClosed {
		return Frame{}
	}
	if c.state == StateUninitialized {
		c.state = StateActive
		c.force = true
	}
	if c.force {
		c.invalidate()
		c.force = false
	}
	c.stats.Ticks++

	rec := &Recorder{}
	c.refreshStatus(rec)

	c.minute.Set(hourMinute{snap.Hour, snap.Minute})
	if c.minute.IsUpdated() {
		c.stats.TimeRecomputes++
		c.face.refreshTime(rec, snap, c.clockType)

		c.date.Set(snap.Date())
		if c.date.IsUpdated() {
			c.stats.DateRecomputes++
			c.face.refreshDate(rec, snap, c.clockType)
		}
	}

	c.second.Set(snap.Second)
	if c.second.IsUpdated() {
		c.stats.SecondRecompute++
		c.face.refreshSecond(rec, snap, c.clockType)
	}

	c.seq++
	return Frame{Seq: c.seq, Commands: rec.Commands()}
}

// invalidate makes every gated part redraw on the next tick
func (c *Controller) invalidate() {
	c.charging.Invalidate()
	c.battery.Invalidate()
	c.bleConnected.Invalidate()
	c.notification.Invalidate()
	c.heartbeat.Invalidate()
	c.heartRunning.Invalidate()
	c.steps.Invalidate()
	c.minute.Invalidate()
	c.second.Invalidate()
	c.date.Invalidate()
}

// OnLongPress toggles between the fuzzy and 12 hour clock types and persists
// the choice. It reports whether the event was handled.
func (c *Controller) OnLongPress() bool {
	if c.state == StateClosed {
		return false
	}

	next := ClockFuzzy
	if c.clockType == ClockFuzzy {
		next = ClockH12
	}
	c.logger.Infof("clock type %v -> %v", c.clockType, next)

	c.clockType = next
	c.settings.SetClockType(next)
	if err := c.settings.Save(); err != nil {
		c.logger.Errorf("failed to save settings: %v", err)
	}
	c.force = true
	return true
}

// ReloadSettings re-reads location and clock type and redraws everything on
// the next tick.
func (c *Controller) ReloadSettings() {
	c.location = c.settings.Location()
	c.clockType = c.settings.ClockType()
	c.face.setLocation(c.location)
	c.force = true
	c.logger.Debugw("settings reloaded", "id", c.id, "clock_type", c.clockType)
}

// Close tears the face down. Later ticks return empty frames.
func (c *Controller) Close() {
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	c.logger.Debugw("face closed", "id", c.id, "ticks", c.stats.Ticks)
}
