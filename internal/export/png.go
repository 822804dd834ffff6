package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/gravlens/internal/raster"
)

// FrameOptions controls how a frame is encoded.
type FrameOptions struct {
	Scale int    // integer upscaling factor, 1 if zero
	Label string // drawn in the top-left corner when non-empty
}

// ToRGBA converts a raster image to 8-bit, clamping every channel to
// [0, 255].
func ToRGBA(img *raster.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Cols, img.Rows))
	for i := 0; i < img.Rows; i++ {
		for j := 0; j < img.Cols; j++ {
			c := img.At(i, j)
			out.SetRGBA(j, i, color.RGBA{R: clamp8(c[0]), G: clamp8(c[1]), B: clamp8(c[2]), A: 255})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// Upscale enlarges src by an integer factor without smoothing, so pixel
// edges stay visible.
func Upscale(src *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// drawLabel writes s in the top-left corner on a dark band.
func drawLabel(img *image.RGBA, s string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil() + 8
	h := face.Metrics().Height.Ceil() + 4
	draw.Draw(img, image.Rect(0, 0, w, h), image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(4, face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(s)
}

// Frame renders img into an RGBA image ready for encoding.
func Frame(img *raster.Image, opts FrameOptions) *image.RGBA {
	out := Upscale(ToRGBA(img), opts.Scale)
	if opts.Label != "" {
		drawLabel(out, opts.Label)
	}
	return out
}

func EncodePNG(w io.Writer, img *raster.Image, opts FrameOptions) error {
	return png.Encode(w, Frame(img, opts))
}

func WritePNG(path string, img *raster.Image, opts FrameOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodePNG(f, img, opts); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
