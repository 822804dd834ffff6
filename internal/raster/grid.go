package raster

import (
	"math"

	"github.com/san-kum/gravlens/internal/dynamo"
)

// IndexOf returns the pixel index holding coordinate x on an n-pixel axis
// spanning [-dom, dom). The result may fall outside [0, n).
func IndexOf(x, dom float64, n int) int {
	pw := 2 * dom / float64(n)
	return int(math.Floor((x + dom) / pw))
}

// IndicesOf applies IndexOf element-wise.
func IndicesOf(xs []float64, dom float64, n int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = IndexOf(x, dom, n)
	}
	return out
}

// Grid is a validated pairing of side length and physical half-width.
type Grid struct {
	N         int
	HalfWidth float64
}

func NewGrid(n int, halfWidth float64) (Grid, error) {
	if n <= 0 {
		return Grid{}, dynamo.Configf("grid size must be positive, got %d", n)
	}
	if !(halfWidth > 0) || math.IsInf(halfWidth, 0) {
		return Grid{}, dynamo.Configf("domain half-width must be positive and finite, got %g", halfWidth)
	}
	return Grid{N: n, HalfWidth: halfWidth}, nil
}

func (g Grid) PixelWidth() float64 { return 2 * g.HalfWidth / float64(g.N) }

func (g Grid) Index(x float64) int { return IndexOf(x, g.HalfWidth, g.N) }

func (g Grid) Indices(xs []float64) []int { return IndicesOf(xs, g.HalfWidth, g.N) }

// CellCenter is the inverse of Index for the middle of pixel i.
func (g Grid) CellCenter(i int) float64 {
	pw := g.PixelWidth()
	return float64(i)*pw - g.HalfWidth + pw/2
}

// MidRow is the shared row used by edge-on transit scenes.
func MidRow(n int) int { return n / 2 }
