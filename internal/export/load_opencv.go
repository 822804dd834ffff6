//go:build opencv

package export

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/san-kum/gravlens/internal/raster"
)

// LoadImage reads any format OpenCV understands.
func LoadImage(path string) (*raster.Image, error) {
	src := gocv.IMRead(path, gocv.IMReadColor)
	if src.Empty() {
		return nil, fmt.Errorf("could not load image: %s", path)
	}
	defer src.Close()

	out, err := raster.NewRect(src.Rows(), src.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Rows(); i++ {
		for j := 0; j < src.Cols(); j++ {
			// OpenCV stores BGR
			v := src.GetVecbAt(i, j)
			out.Set(i, j, raster.Color{float64(v[2]), float64(v[1]), float64(v[0])})
		}
	}
	return out, nil
}
