package app

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/internal/interfaces"
	"github.com/chrissnell/watchface/internal/render"
	"github.com/chrissnell/watchface/pkg/config"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const digitalYAML = `face:
  kind: digital
  clock-type: 24h
  location:
    latitude: 51.5
    longitude: -0.12
    tz-offset: 0
  refresh-interval: 1m
`

type recordingOutput struct {
	mu     sync.Mutex
	pushes int
	frames int
	closed bool
}

func (r *recordingOutput) Name() string { return "recording" }

func (r *recordingOutput) Push(c *render.Canvas, f face.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes++
	if !f.Empty() {
		r.frames++
	}
	return nil
}

func (r *recordingOutput) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T, yaml string, opts ...Option) (*App, string, *clockwork.FakeClock) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, yaml)

	fc := clockwork.NewFakeClockAt(time.Date(2024, time.June, 21, 14, 30, 5, 0, time.UTC))
	opts = append([]Option{WithClock(fc)}, opts...)
	a := New(config.NewYAMLProvider(path), nil, opts...)
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return a, path, fc
}

func TestLoop(t *testing.T) {
	out := &recordingOutput{}
	a, path, fc := newTestApp(t, digitalYAML, WithOutputs(out))
	a.ticked = make(chan uint64)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Loop(ctx)
		close(done)
	}()

	<-a.ticked
	if got := a.FaceState().Labels["time"]; got != "14:30" {
		t.Errorf("first frame time = %q, expected 14:30", got)
	}
	if a.FaceState().State != "active" {
		t.Errorf("state = %q", a.FaceState().State)
	}

	fc.Advance(time.Minute)
	<-a.ticked
	if got := a.FaceState().Labels["time"]; got != "14:31" {
		t.Errorf("time after a minute = %q, expected 14:31", got)
	}

	// Long press switches to the fuzzy clock and persists it.
	if err := a.LongPress(ctx); err != nil {
		t.Fatalf("LongPress: %v", err)
	}
	<-a.ticked
	st := a.FaceState()
	if st.ClockType != "fuzzy" {
		t.Errorf("clock type after long press = %q", st.ClockType)
	}
	if !strings.Contains(st.Labels["time"], "past two") {
		t.Errorf("fuzzy time = %q", st.Labels["time"])
	}
	saved, _ := os.ReadFile(path)
	if !strings.Contains(string(saved), "clock-type: fuzzy") {
		t.Errorf("clock type was not persisted:\n%s", saved)
	}

	// A reload picks up an edited location and clock type.
	writeConfig(t, path, strings.Replace(strings.Replace(digitalYAML, "tz-offset: 0", "tz-offset: 2", 1), "24h", "12h", 1))
	if err := a.ReloadConfiguration(ctx); err != nil {
		t.Fatalf("ReloadConfiguration: %v", err)
	}
	<-a.ticked
	st = a.FaceState()
	if st.TZOffset != 2 || st.ClockType != "12h" {
		t.Errorf("reloaded state = %+v", st)
	}
	if got := st.Labels["time"]; got != " 4:31" {
		t.Errorf("reloaded time = %q, expected \" 4:31\"", got)
	}

	cancel()
	<-done

	if !out.closed {
		t.Error("output was not closed on shutdown")
	}
	if out.frames < 4 {
		t.Errorf("output saw %d non-empty frames, expected at least 4", out.frames)
	}
	if a.FaceState().State != "closed" {
		t.Errorf("state after shutdown = %q", a.FaceState().State)
	}
}

func TestSubmitBusy(t *testing.T) {
	a, _, _ := newTestApp(t, digitalYAML, WithOutputs())
	ctx := context.Background()

	for i := 0; i < eventQueueSize; i++ {
		if err := a.LongPress(ctx); err != nil {
			t.Fatalf("LongPress %d: %v", i, err)
		}
	}
	if err := a.LongPress(ctx); !errors.Is(err, interfaces.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := a.ReloadConfiguration(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPNGOutputFromConfig(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "face.png")
	yaml := strings.Replace(digitalYAML, "face:\n  kind: digital", "face:\n  kind: analog", 1) +
		"outputs:\n  - type: png\n    path: " + pngPath + "\n"

	a, _, _ := newTestApp(t, yaml)
	a.tick()

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("png output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 240 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}

	data, err := a.FramePNG()
	if err != nil || len(data) == 0 {
		t.Errorf("FramePNG: %d bytes, %v", len(data), err)
	}
}

func TestStaticPeripheralsFromConfig(t *testing.T) {
	yaml := digitalYAML + "peripherals:\n  static:\n    battery-percent: 64\n    ble-connected: true\n"
	a, _, _ := newTestApp(t, yaml, WithOutputs())
	a.tick()

	labels := a.FaceState().Labels
	if labels["battery"] != "64%" {
		t.Errorf("battery label = %q", labels["battery"])
	}
	if labels["ble"] != face.SymbolBluetooth {
		t.Errorf("ble label = %q", labels["ble"])
	}
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad latitude", strings.Replace(digitalYAML, "latitude: 51.5", "latitude: 95", 1)},
		{"bad kind", strings.Replace(digitalYAML, "kind: digital", "kind: sundial", 1)},
		{"bad refresh", strings.Replace(digitalYAML, "refresh-interval: 1m", "refresh-interval: soon", 1)},
		{"bad output", digitalYAML + "outputs:\n  - type: hologram\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeConfig(t, path, tt.yaml)
			if err := New(config.NewYAMLProvider(path), nil).Setup(); err == nil {
				t.Error("expected Setup error")
			}
		})
	}
}

func TestBuildOutputs(t *testing.T) {
	dir := t.TempDir()

	outs, err := buildOutputs([]config.OutputData{
		{Type: config.OutputPNG, Path: filepath.Join(dir, "face.png")},
		{Type: config.OutputRemote, Path: filepath.Join(dir, "frames.msgpack")},
	}, zapNop())
	if err != nil {
		t.Fatalf("buildOutputs: %v", err)
	}
	if len(outs) != 2 || !strings.HasPrefix(outs[1].Name(), "remote:") {
		t.Errorf("outputs = %v", outs)
	}
	for _, o := range outs {
		o.Close()
	}

	if _, err := buildOutputs([]config.OutputData{{Type: config.OutputRemote}}, zapNop()); err == nil {
		t.Error("remote output without a target should fail")
	}
}

func zapNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
