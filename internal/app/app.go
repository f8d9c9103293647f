package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chrissnell/watchface/internal/controllers/management"
	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/internal/interfaces"
	"github.com/chrissnell/watchface/internal/peripherals"
	"github.com/chrissnell/watchface/internal/render"
	"github.com/chrissnell/watchface/pkg/config"
	"github.com/chrissnell/watchface/pkg/fuzzy"
	"github.com/chrissnell/watchface/pkg/solar"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type eventKind int

const (
	eventLongPress eventKind = iota
	eventReload
)

func (e eventKind) String() string {
	if e == eventReload {
		return "reload"
	}
	return "longpress"
}

const eventQueueSize = 8

// App owns the face controller and drives it from a single tick goroutine.
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	clock          clockwork.Clock

	cfg     *config.ConfigData
	store   *config.Store
	face    *face.Controller
	canvas  *render.Canvas
	outputs []render.Output
	periph  *face.Peripherals
	refresh time.Duration
	events  chan eventKind

	mu        sync.RWMutex
	state     interfaces.FaceState
	lastFrame time.Time

	// ticked, when set, receives the sequence number of every rendered frame
	ticked chan uint64
}

// Option customizes an App
type Option func(*App)

// WithClock replaces the wall clock
func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithOutputs replaces the outputs named in the configuration
func WithOutputs(outs ...render.Output) Option {
	return func(a *App) { a.outputs = outs }
}

// WithPeripherals replaces the peripherals named in the configuration
func WithPeripherals(p face.Peripherals) Option {
	return func(a *App) { a.periph = &p }
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	a := &App{
		configProvider: configProvider,
		logger:         logger,
		clock:          clockwork.NewRealClock(),
		events:         make(chan eventKind, eventQueueSize),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup loads the configuration and builds the face, canvas, peripherals and outputs.
func (a *App) Setup() error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.refresh, err = cfg.Face.Refresh()
	if err != nil {
		return err
	}

	a.store, err = config.NewStore(a.configProvider)
	if err != nil {
		return err
	}

	kind, err := face.ParseKind(cfg.Face.Kind)
	if err != nil {
		return err
	}
	table, err := fuzzy.ParseTable(cfg.Face.Language)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", cfg.Face.Language, err)
	}
	variant, err := fuzzy.ParseVariant(cfg.Face.FuzzyVariant)
	if err != nil {
		return err
	}

	if a.periph == nil {
		p := peripherals.FromConfig(cfg.Peripherals, a.logger)
		a.periph = &p
	}

	a.face = face.New(kind, &faceSettings{store: a.store, logger: a.logger}, *a.periph,
		face.WithCalculator(solar.CalculatorByName(cfg.Face.SolarModel)),
		face.WithFuzzyTable(table),
		face.WithFuzzyVariant(variant),
		face.WithLogger(a.logger.With("face", kind.String())),
	)
	a.canvas = render.NewCanvas(0)

	if a.outputs == nil {
		a.outputs, err = buildOutputs(cfg.Outputs, a.logger)
		if err != nil {
			return err
		}
	}

	a.logger.Infow("face ready", "id", a.face.ID(), "kind", kind, "clock_type", a.face.ClockType(),
		"refresh", a.refresh, "outputs", len(a.outputs))
	return nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.face == nil {
		if err := a.Setup(); err != nil {
			return err
		}
	}

	if a.cfg.Management != nil {
		mc, err := management.NewController(ctx, &wg, a.configProvider, *a.cfg.Management, a.logger.With("component", "management"), a)
		if err != nil {
			return err
		}
		if err := mc.StartController(); err != nil {
			return err
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Loop(ctx)
	}()

	a.logger.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

wait:
	for {
		select {
		case sig := <-sigs:
			if sig == syscall.SIGHUP {
				a.logger.Info("SIGHUP received, reloading settings")
				if err := a.ReloadConfiguration(ctx); err != nil {
					a.logger.Warnf("reload not queued: %v", err)
				}
				continue
			}
			a.logger.Info("shutdown signal received, initiating graceful shutdown...")
			break wait
		case <-ctx.Done():
			a.logger.Info("context cancelled, shutting down...")
			break wait
		}
	}

	cancel()

	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")

	return nil
}

// Loop ticks the face until ctx is cancelled, then tears down the face and outputs.
func (a *App) Loop(ctx context.Context) {
	ticker := a.clock.NewTicker(a.refresh)

	a.tick()

	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			a.teardown()
			return
		case <-ticker.Chan():
			a.tick()
		case ev := <-a.events:
			a.handle(ev)
			a.tick()
		}
	}
}

func (a *App) handle(ev eventKind) {
	a.logger.Debugf("handling %v event", ev)
	switch ev {
	case eventLongPress:
		a.face.OnLongPress()
	case eventReload:
		if err := a.store.Reload(); err != nil {
			a.logger.Errorf("settings reload failed: %v", err)
			return
		}
		a.face.ReloadSettings()
	}
}

// tick renders one frame and hands it to every output
func (a *App) tick() {
	zone := a.face.Location().Zone()
	now := a.clock.Now()
	frame := a.face.Tick(face.SnapshotOf(now.In(zone)))

	frame.Apply(a.canvas)
	for _, out := range a.outputs {
		if err := out.Push(a.canvas, frame); err != nil {
			a.logger.Errorf("output %s: %v", out.Name(), err)
		}
	}

	if !frame.Empty() {
		a.mu.Lock()
		a.lastFrame = now
		a.mu.Unlock()
	}
	a.snapshot(frame.Seq)

	if a.ticked != nil {
		a.ticked <- frame.Seq
	}
}

func (a *App) teardown() {
	a.face.Close()
	a.snapshot(0)
	for _, out := range a.outputs {
		if err := out.Close(); err != nil {
			a.logger.Warnf("failed to close output %s: %v", out.Name(), err)
		}
	}
}

// snapshot publishes the face state for other goroutines. seq 0 keeps the last sequence.
func (a *App) snapshot(seq uint64) {
	loc := a.face.Location()
	labels := make(map[string]string)
	for l := face.LabelTime; l <= face.LabelSteps; l++ {
		if text := a.canvas.Text(l); text != "" {
			labels[l.String()] = text
		}
	}
	outputs := make([]string, 0, len(a.outputs))
	for _, out := range a.outputs {
		outputs = append(outputs, out.Name())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq == 0 {
		seq = a.state.Seq
	}
	a.state = interfaces.FaceState{
		ID:          a.face.ID(),
		Kind:        a.face.Kind().String(),
		State:       a.face.State().String(),
		ClockType:   a.face.ClockType().String(),
		Latitude:    loc.Latitude.Float64(),
		Longitude:   loc.Longitude.Float64(),
		TZOffset:    int(loc.TZOffset),
		Palette:     a.canvas.Palette().String(),
		Labels:      labels,
		Seq:         seq,
		LastFrameAt: a.lastFrame,
		Stats:       a.face.Stats(),
		Outputs:     outputs,
	}
}

// FaceState returns the state published after the last tick
func (a *App) FaceState() interfaces.FaceState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// FramePNG encodes the current canvas
func (a *App) FramePNG() ([]byte, error) {
	if a.canvas == nil {
		return nil, fmt.Errorf("face not set up")
	}
	return a.canvas.PNG()
}

// LongPress queues a long-press for the tick goroutine
func (a *App) LongPress(ctx context.Context) error {
	return a.submit(ctx, eventLongPress)
}

// ReloadConfiguration queues a settings reload for the tick goroutine
func (a *App) ReloadConfiguration(ctx context.Context) error {
	return a.submit(ctx, eventReload)
}

func (a *App) submit(ctx context.Context, ev eventKind) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case a.events <- ev:
		return nil
	default:
		return interfaces.ErrBusy
	}
}
