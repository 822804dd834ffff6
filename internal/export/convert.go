package export

import (
	"image"

	"github.com/san-kum/gravlens/internal/raster"
)

// FromImage converts any decoded image to a raster image with 8-bit
// channel values.
func FromImage(img image.Image) (*raster.Image, error) {
	b := img.Bounds()
	out, err := raster.NewRect(b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	for i := 0; i < b.Dy(); i++ {
		for j := 0; j < b.Dx(); j++ {
			r, g, bl, _ := img.At(b.Min.X+j, b.Min.Y+i).RGBA()
			out.Set(i, j, raster.Color{float64(r >> 8), float64(g >> 8), float64(bl >> 8)})
		}
	}
	return out, nil
}
