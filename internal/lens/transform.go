package lens

import (
	"fmt"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/raster"
)

const rowChunk = 16

// coords returns the cell-centre reduced coordinate of each index,
// 2*dom*i/n - dom + pw/2, written so that r[n-1-i] == -r[i] exactly.
// Rounding differs from the literal expression, so a source index can move
// by one pixel where the deflected coordinate lands on a floor boundary.
func coords(n int, dom float64) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = float64(2*i+1-n) * dom / float64(n)
	}
	return r
}

// Mapping is the precomputed output-to-source index table for one grid
// size and parameter set. It is read-only after NewMapping and safe for
// concurrent use.
type Mapping struct {
	n      int
	params Params
	src    []int // -1 marks a black pixel
}

func NewMapping(n int, p Params) (*Mapping, error) {
	if n <= 0 {
		return nil, dynamo.Configf("grid size must be positive, got %d", n)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := coords(n, p.Domain)
	src := make([]int, n*n)

	dynamo.ParallelFor(n, rowChunk, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < n; j++ {
				s1, s2 := p.Deflect(r[i], r[j])
				si := p.Edge.resolve(raster.IndexOf(s1, p.Domain, n), n)
				sj := p.Edge.resolve(raster.IndexOf(s2, p.Domain, n), n)
				if si < 0 || sj < 0 {
					src[i*n+j] = -1
					continue
				}
				src[i*n+j] = si*n + sj
			}
		}
	})

	return &Mapping{n: n, params: p, src: src}, nil
}

func (m *Mapping) N() int         { return m.n }
func (m *Mapping) Params() Params { return m.params }

// Apply returns the lensed copy of src. src is not modified.
func (m *Mapping) Apply(src *raster.Image) (*raster.Image, error) {
	if !src.IsSquare() {
		return nil, fmt.Errorf("%w: got %dx%d", dynamo.ErrShape, src.Rows, src.Cols)
	}
	if src.N() != m.n {
		return nil, dynamo.Configf("image is %dx%d, lens grid is %d", src.Rows, src.Cols, m.n)
	}

	n := m.n
	out, err := raster.NewImage(n)
	if err != nil {
		return nil, err
	}

	dynamo.ParallelFor(n, rowChunk, func(start, end int) {
		for k := start * n; k < end*n; k++ {
			s := m.src[k]
			if s < 0 {
				continue
			}
			copy(out.Pix[k*3:k*3+3], src.Pix[s*3:s*3+3])
		}
	})

	return out, nil
}

// SourceIndices returns, for each output pixel in row-major order, the
// row-major index of the source pixel it samples, or -1 when the edge
// policy blacks it out.
func SourceIndices(n int, p Params) ([]int, error) {
	m, err := NewMapping(n, p)
	if err != nil {
		return nil, err
	}
	return m.src, nil
}

// Transform returns the lensed copy of src.
func Transform(src *raster.Image, p Params) (*raster.Image, error) {
	if !src.IsSquare() {
		return nil, fmt.Errorf("%w: got %dx%d", dynamo.ErrShape, src.Rows, src.Cols)
	}
	m, err := NewMapping(src.N(), p)
	if err != nil {
		return nil, err
	}
	return m.Apply(src)
}
