// Package render draws face frames onto raster images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/chrissnell/watchface/internal/face"
	"github.com/chrissnell/watchface/pkg/polar"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const lineHeight = 13

// Theme is the colour set for one palette
type Theme struct {
	Background color.RGBA
	Scale      color.RGBA
	Hands      map[face.Hand]color.RGBA
	Text       color.RGBA
}

var (
	DayTheme = Theme{
		Background: color.RGBA{0x00, 0x00, 0x00, 0xff},
		Scale:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		Hands: map[face.Hand]color.RGBA{
			face.HandHour:        {0xff, 0xa5, 0x00, 0xff},
			face.HandHourTrace:   {0x80, 0x52, 0x00, 0xff},
			face.HandMinute:      {0xff, 0xff, 0xff, 0xff},
			face.HandMinuteTrace: {0x80, 0x80, 0x80, 0xff},
			face.HandSecond:      {0xff, 0x00, 0x00, 0xff},
		},
		Text: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	NightTheme = Theme{
		Background: color.RGBA{0x00, 0x00, 0x00, 0xff},
		Scale:      color.RGBA{0x40, 0x40, 0x60, 0xff},
		Hands: map[face.Hand]color.RGBA{
			face.HandHour:        {0x60, 0x60, 0xc0, 0xff},
			face.HandHourTrace:   {0x30, 0x30, 0x60, 0xff},
			face.HandMinute:      {0x90, 0x90, 0x90, 0xff},
			face.HandMinuteTrace: {0x48, 0x48, 0x48, 0xff},
			face.HandSecond:      {0x80, 0x00, 0x00, 0xff},
		},
		Text: color.RGBA{0x90, 0x90, 0x90, 0xff},
	}
)

// anchor places a label. Centered labels are centered on X as a block.
type anchor struct {
	x, y     int
	centered bool
}

var layout = map[face.Label]anchor{
	face.LabelTime:         {x: polar.ScreenSize / 2, y: polar.ScreenSize / 2, centered: true},
	face.LabelDate:         {x: 170, y: 116},
	face.LabelAmPm:         {x: 200, y: 60},
	face.LabelBattery:      {x: 196, y: 14},
	face.LabelBLE:          {x: 4, y: 14},
	face.LabelNotification: {x: 30, y: 14},
	face.LabelHeartRate:    {x: 4, y: 232},
	face.LabelSteps:        {x: 160, y: 232},
}

// Canvas is a retained-mode Sink. It remembers the last state of every hand
// and label and redraws the whole picture on demand. Safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	size    int
	hands   map[face.Hand][2]polar.Point
	labels  map[face.Label]string
	palette face.Palette
	dirty   bool
	img     *image.RGBA
}

// NewCanvas creates a square canvas; size <= 0 means the 240 pixel screen.
func NewCanvas(size int) *Canvas {
	if size <= 0 {
		size = polar.ScreenSize
	}
	return &Canvas{
		size:   size,
		hands:  make(map[face.Hand][2]polar.Point),
		labels: make(map[face.Label]string),
		dirty:  true,
	}
}

func (c *Canvas) SetHandPoints(h face.Hand, pts [2]polar.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hands[h] = pts
	c.dirty = true
}

func (c *Canvas) SetText(l face.Label, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[l] = text
	c.dirty = true
}

func (c *Canvas) SetPalette(p face.Palette) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.palette = p
	c.dirty = true
}

// Palette returns the palette currently in effect
func (c *Canvas) Palette() face.Palette {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.palette
}

// Text returns the current text of a label
func (c *Canvas) Text(l face.Label) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labels[l]
}

// Image returns a copy of the rendered picture, redrawing first if anything changed.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dirty || c.img == nil {
		c.img = c.draw()
		c.dirty = false
	}

	out := image.NewRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// PNG encodes the current picture
func (c *Canvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode canvas: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Canvas) theme() Theme {
	if c.palette == face.PaletteNight {
		return NightTheme
	}
	return DayTheme
}

func (c *Canvas) draw() *image.RGBA {
	th := c.theme()
	img := image.NewRGBA(image.Rect(0, 0, c.size, c.size))
	draw.Draw(img, img.Rect, image.NewUniform(th.Background), image.Point{}, draw.Src)

	drawScale(img, th.Scale)

	// Traces first so the hands sit on top of them.
	for _, h := range []face.Hand{face.HandHourTrace, face.HandMinuteTrace, face.HandHour, face.HandMinute, face.HandSecond} {
		pts, ok := c.hands[h]
		if !ok || pts[0] == pts[1] {
			continue
		}
		line(img, int(pts[0].X), int(pts[0].Y), int(pts[1].X), int(pts[1].Y), th.Hands[h])
	}

	for l, s := range c.labels {
		if s == "" {
			continue
		}
		a, ok := layout[l]
		if !ok {
			continue
		}
		drawText(img, a, s, th.Text)
	}

	return img
}

// drawScale marks the twelve hour positions around the rim
func drawScale(img *image.RGBA, col color.RGBA) {
	m := polar.Mapper{OriginX: int16(img.Rect.Dx() / 2), OriginY: int16(img.Rect.Dy() / 2)}
	outer := img.Rect.Dx()/2 - 2
	for angle := 0; angle < 360; angle += 30 {
		inner := outer - 6
		if angle%90 == 0 {
			inner = outer - 12
		}
		seg := m.Segment(inner, outer, angle)
		line(img, int(seg[0].X), int(seg[0].Y), int(seg[1].X), int(seg[1].Y), col)
	}
}

func drawText(img *image.RGBA, a anchor, s string, col color.RGBA) {
	lines := strings.Split(s, "\n")
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}

	y := a.y
	if a.centered {
		y = a.y - (len(lines)*lineHeight)/2 + lineHeight
	}
	for _, ln := range lines {
		x := a.x
		if a.centered {
			x = a.x - d.MeasureString(ln).Round()/2
		}
		d.Dot = fixed.P(x, y)
		d.DrawString(ln)
		y += lineHeight
	}
}

func line(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Rect) {
			img.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
