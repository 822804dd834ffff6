package raster

import "github.com/san-kum/gravlens/internal/dynamo"

// Compose selects how DrawDisk combines a colour with existing pixels.
type Compose int

const (
	Overwrite Compose = iota
	Additive
)

// DrawDisk fills every pixel with (i-row)^2 + (j-col)^2 <= radius^2.
// Pixels outside the image are skipped.
func DrawDisk(img *Image, radius, row, col int, c Color, mode Compose) error {
	if radius <= 0 {
		return dynamo.Configf("disk radius must be positive, got %d", radius)
	}

	r2 := radius * radius
	i0, i1 := max(row-radius, 0), min(row+radius, img.Rows-1)
	j0, j1 := max(col-radius, 0), min(col+radius, img.Cols-1)

	for i := i0; i <= i1; i++ {
		di := i - row
		for j := j0; j <= j1; j++ {
			dj := j - col
			if di*di+dj*dj > r2 {
				continue
			}
			if mode == Additive {
				img.Add(i, j, c)
			} else {
				img.Set(i, j, c)
			}
		}
	}
	return nil
}

// DiskArea counts the lattice points a disk of this radius covers when
// fully inside the grid.
func DiskArea(radius int) int {
	n := 0
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			if i*i+j*j <= radius*radius {
				n++
			}
		}
	}
	return n
}
