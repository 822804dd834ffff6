package storage

import (
	"github.com/san-kum/gravlens/internal/galaxy"
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/pipeline"
)

// Table names used by the CLI.
const (
	SeriesTable      = "series"
	TrajectoryTable  = "trajectory"
	RadiusTable      = "radius_sweep"
	EllipticityTable = "ellipticity_sweep"
	GalaxyTable      = "galaxies"
)

// Series holds one row per processed frame.
func Series(res *pipeline.Result) Table {
	t := Table{Name: SeriesTable, Header: []string{"time", "raw", "lensed"}}
	t.Rows = make([][]float64, res.Frames())
	for k := range t.Rows {
		t.Rows[k] = []float64{res.Times[k], res.Raw[k], res.Lensed[k]}
	}
	return t
}

func Trajectory(tr *physics.Trajectory) Table {
	t := Table{
		Name:   TrajectoryTable,
		Header: []string{"time", "x1", "y1", "x2", "y2", "vx1", "vy1", "vx2", "vy2"},
		Rows:   make([][]float64, tr.Len()),
	}
	for k, x := range tr.States {
		row := make([]float64, 0, len(x)+1)
		row = append(row, tr.Times[k])
		row = append(row, x...)
		t.Rows[k] = row
	}
	return t
}

func Radius(points []pipeline.RadiusPoint) Table {
	t := Table{Name: RadiusTable, Header: []string{"radius", "raw", "lensed"}}
	t.Rows = make([][]float64, len(points))
	for i, p := range points {
		t.Rows[i] = []float64{float64(p.Radius), p.Raw, p.Lensed}
	}
	return t
}

func Ellipticity(points []pipeline.EllipticityPoint) Table {
	t := Table{Name: EllipticityTable, Header: []string{"eps", "brightness", "change"}}
	t.Rows = make([][]float64, len(points))
	for i, p := range points {
		t.Rows[i] = []float64{p.Ellipticity, p.Brightness, p.Change}
	}
	return t
}

func Galaxies(gs []galaxy.Galaxy) Table {
	t := Table{
		Name:   GalaxyTable,
		Header: []string{"row", "col", "minor", "major", "theta", "scale", "r", "g", "b"},
		Rows:   make([][]float64, len(gs)),
	}
	for i, g := range gs {
		t.Rows[i] = []float64{
			float64(g.Row), float64(g.Col), float64(g.Minor), float64(g.Major),
			g.Theta, g.Scale, g.Flux[0], g.Flux[1], g.Flux[2],
		}
	}
	return t
}
