package raster

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Projection chooses how orbital-plane positions land on the image.
type Projection int

const (
	// EdgeOn views the orbit along +y: x maps to a column, every body sits
	// on the middle row and y is the depth used for occlusion.
	EdgeOn Projection = iota
	// FaceOn views the orbit from above: x maps to a column and y to a row
	// (increasing upwards). Bodies share one depth, so nothing is hidden.
	FaceOn
)

func (p Projection) String() string {
	switch p {
	case EdgeOn:
		return "edge-on"
	case FaceOn:
		return "face-on"
	default:
		return "unknown"
	}
}

func ParseProjection(s string) (Projection, error) {
	switch s {
	case "", "edge-on":
		return EdgeOn, nil
	case "face-on":
		return FaceOn, nil
	default:
		return 0, fmt.Errorf("unknown projection %q", s)
	}
}

// Sprite is one body to paint in a frame.
type Sprite struct {
	Pos    r2.Vec
	Radius int
	Color  Color
}

// Camera renders sprites onto a grid.
type Camera struct {
	Grid       Grid
	Projection Projection
}

// Place returns the pixel centre and silhouette of a sprite.
func (c Camera) Place(s Sprite) (row, col int, sil Silhouette) {
	col = c.Grid.Index(s.Pos.X)
	switch c.Projection {
	case FaceOn:
		row = c.Grid.N - 1 - c.Grid.Index(s.Pos.Y)
		sil = Silhouette{Index: col, Radius: s.Radius}
	default:
		row = MidRow(c.Grid.N)
		sil = Silhouette{Index: col, Radius: s.Radius, Depth: s.Pos.Y}
	}
	return row, col, sil
}

// Render paints the sprites into a fresh image. Visibility is resolved
// before any pixel is written; visible sprites are painted far to near.
// The returned slice reports which sprites were drawn.
func (c Camera) Render(sprites []Sprite) (*Image, []bool, error) {
	img, err := NewImage(c.Grid.N)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]int, len(sprites))
	cols := make([]int, len(sprites))
	sils := make([]Silhouette, len(sprites))
	for i, s := range sprites {
		rows[i], cols[i], sils[i] = c.Place(s)
	}
	visible := Visible(sils)

	order := make([]int, len(sprites))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sils[order[a]].Depth > sils[order[b]].Depth
	})

	for _, i := range order {
		if !visible[i] {
			continue
		}
		if err := DrawDisk(img, sprites[i].Radius, rows[i], cols[i], sprites[i].Color, Overwrite); err != nil {
			return nil, nil, err
		}
	}

	return img, visible, nil
}
