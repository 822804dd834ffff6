package raster

import (
	"github.com/san-kum/gravlens/internal/dynamo"
)

// Color is an RGB triple. Values are not clamped while composing.
type Color [3]float64

var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
	Red   = Color{255, 0, 0}
)

// Image is a row-major RGB buffer. Pix[(i*Cols+j)*3+c] holds channel c of
// row i, column j.
type Image struct {
	Rows, Cols int
	Pix        []float64
}

// NewImage allocates an n×n black image.
func NewImage(n int) (*Image, error) {
	return NewRect(n, n)
}

func NewRect(rows, cols int) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, dynamo.Configf("image size must be positive, got %dx%d", rows, cols)
	}
	return &Image{Rows: rows, Cols: cols, Pix: make([]float64, rows*cols*3)}, nil
}

func (im *Image) IsSquare() bool { return im.Rows == im.Cols }

// N is the side length of a square image.
func (im *Image) N() int { return im.Rows }

func (im *Image) InBounds(i, j int) bool {
	return i >= 0 && i < im.Rows && j >= 0 && j < im.Cols
}

func (im *Image) offset(i, j int) int { return (i*im.Cols + j) * 3 }

func (im *Image) At(i, j int) Color {
	o := im.offset(i, j)
	return Color{im.Pix[o], im.Pix[o+1], im.Pix[o+2]}
}

func (im *Image) Set(i, j int, c Color) {
	o := im.offset(i, j)
	im.Pix[o], im.Pix[o+1], im.Pix[o+2] = c[0], c[1], c[2]
}

func (im *Image) Add(i, j int, c Color) {
	o := im.offset(i, j)
	im.Pix[o] += c[0]
	im.Pix[o+1] += c[1]
	im.Pix[o+2] += c[2]
}

func (im *Image) Clone() *Image {
	pix := make([]float64, len(im.Pix))
	copy(pix, im.Pix)
	return &Image{Rows: im.Rows, Cols: im.Cols, Pix: pix}
}

// Rotate90 returns the image rotated a quarter turn counter-clockwise.
func (im *Image) Rotate90() *Image {
	out := &Image{Rows: im.Cols, Cols: im.Rows, Pix: make([]float64, len(im.Pix))}
	for i := 0; i < im.Rows; i++ {
		for j := 0; j < im.Cols; j++ {
			out.Set(im.Cols-1-j, i, im.At(i, j))
		}
	}
	return out
}

// Equal reports bit-identical dimensions and pixels.
func (im *Image) Equal(other *Image) bool {
	if im.Rows != other.Rows || im.Cols != other.Cols {
		return false
	}
	for i, v := range im.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}
