// Package polar maps (radius, angle) pairs onto screen coordinates. Angle 0
// points to the top of the dial and angles grow clockwise.
package polar

import "github.com/chrissnell/watchface/pkg/trig"

// ScreenSize is the edge length of the square display
const ScreenSize = 240

// Point is a screen coordinate
type Point struct {
	X int16 `json:"x" msgpack:"x"`
	Y int16 `json:"y" msgpack:"y"`
}

// Mapper converts polar coordinates around an origin into screen points
type Mapper struct {
	OriginX int16
	OriginY int16
}

// Screen240 is centred on the full display
var Screen240 = Mapper{OriginX: ScreenSize / 2, OriginY: ScreenSize / 2}

// Point returns the screen point radius pixels from the origin at angle degrees.
// The vertical axis is flipped so that positive cosine moves up the screen.
func (m Mapper) Point(radius, angle int) Point {
	x := int32(m.OriginX) + int32(radius)*trig.Sin(angle)/trig.Scale
	y := int32(m.OriginY) - int32(radius)*trig.Cos(angle)/trig.Scale
	if y < 0 {
		y = -y
	}
	return Point{X: int16(x), Y: int16(y)}
}

// Anchored returns a mapper sharing the horizontal origin but measuring the
// vertical axis from anchorY, for faces whose scale sits in a band of the screen.
func (m Mapper) Anchored(anchorY int16) Mapper {
	return Mapper{OriginX: m.OriginX, OriginY: anchorY}
}

// Segment returns the two endpoints of a hand drawn from inner to outer radius.
func (m Mapper) Segment(inner, outer, angle int) [2]Point {
	return [2]Point{m.Point(inner, angle), m.Point(outer, angle)}
}
