package pipeline

import (
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/raster"
)

// Frame is one processed sample. Images belong to the runner and must
// not be modified by observers.
type Frame struct {
	Index            int
	Time             float64
	Raw              *raster.Image
	Lensed           *raster.Image
	Visible          []bool
	RawBrightness    float64
	LensedBrightness float64
}

// Observer is notified after every completed frame, in order.
type Observer interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }

// Result holds the trajectory and one brightness value per processed
// frame. After an early stop the series are shorter than Trajectory.
type Result struct {
	Trajectory *physics.Trajectory
	Times      []float64
	Raw        []float64
	Lensed     []float64
}

func (r *Result) Frames() int { return len(r.Raw) }

// Complete reports whether every sample was processed.
func (r *Result) Complete() bool {
	return r.Trajectory != nil && len(r.Raw) == r.Trajectory.Len()
}
