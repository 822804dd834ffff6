package physics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/raster"
)

// G is the gravitational constant in SI units.
const G = 6.674e-11

// Year is the Julian year in seconds, rounded as the scenarios use it.
const Year = 3.156e7

// AU is one astronomical unit in metres.
const AU = 1.496e11

// Body is a value; systems copy it on construction.
type Body struct {
	Name   string
	Mass   float64
	Radius int // pixels
	Pos    r2.Vec
	Vel    r2.Vec
	Color  raster.Color
}

// Sprite is the renderable view of a body at position pos.
func (b Body) Sprite(pos r2.Vec) raster.Sprite {
	return raster.Sprite{Pos: pos, Radius: b.Radius, Color: b.Color}
}

// WithRadius returns a copy of b with a new pixel radius.
func (b Body) WithRadius(r int) Body {
	b.Radius = r
	return b
}

func (b Body) validate() error {
	if !(b.Mass > 0) {
		return dynamo.Configf("body %q: mass must be positive, got %g", b.Name, b.Mass)
	}
	if b.Radius <= 0 {
		return dynamo.Configf("body %q: radius must be positive, got %d", b.Name, b.Radius)
	}
	return nil
}
