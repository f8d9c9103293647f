// Package epaper drives a Waveshare 2.13" v4 e-paper HAT.
package epaper

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/internal/render"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

// display is the subset of the panel driver the output uses
type display interface {
	Bounds() image.Rectangle
	Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Panel pushes canvas pictures to the e-paper display. Frames that only move
// the second hand are skipped; e-paper refresh is too slow for them.
type Panel struct {
	dev    display
	port   spi.PortCloser
	logger *zap.SugaredLogger
	pushes int
}

// Open initializes the host drivers and the HAT on the given SPI port ("" for the first one).
func Open(spiPort string, logger *zap.SugaredLogger) (*Panel, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", spiPort, err)
	}

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to attach e-paper HAT: %w", err)
	}
	if err := dev.Init(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to initialize e-paper display: %w", err)
	}
	if err := dev.Clear(color.White); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to clear e-paper display: %w", err)
	}

	logger.Infof("e-paper display ready, bounds %v", dev.Bounds())
	return &Panel{dev: dev, port: port, logger: logger}, nil
}

func newPanel(dev display) *Panel {
	return &Panel{dev: dev, logger: zap.NewNop().Sugar()}
}

func (p *Panel) Name() string { return "epaper" }

func (p *Panel) Push(c *render.Canvas, f face.Frame) error {
	if f.Empty() || render.OnlySeconds(f) {
		return nil
	}

	img := Convert(c.Image(), p.dev.Bounds())
	if err := p.dev.Draw(p.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("e-paper draw failed: %w", err)
	}
	p.pushes++
	p.logger.Debugf("e-paper frame %d pushed (%d commands)", f.Seq, len(f.Commands))
	return nil
}

func (p *Panel) Close() error {
	err := p.dev.Halt()
	if p.port != nil {
		if cerr := p.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Convert scales the square canvas to fit the panel width, centres it
// vertically and thresholds it to one bit per pixel. Lit canvas pixels
// become black ink on white paper.
func Convert(src image.Image, bounds image.Rectangle) *image1bit.VerticalLSB {
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	top := bounds.Min.Y + (bounds.Dy()-side)/2
	target := image.Rect(bounds.Min.X, top, bounds.Min.X+side, top+side)

	scaled := image.NewGray(bounds)
	stddraw.Draw(scaled, bounds, image.Black, image.Point{}, stddraw.Src)
	xdraw.ApproxBiLinear.Scale(scaled, target, src, src.Bounds(), xdraw.Src, nil)

	out := image1bit.NewVerticalLSB(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Inverted: a lit canvas pixel is ink (Off is black on this panel).
			out.SetBit(x, y, image1bit.Bit(scaled.GrayAt(x, y).Y < 0x40))
		}
	}
	return out
}
