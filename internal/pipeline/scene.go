package pipeline

import (
	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/integrators"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/raster"
)

// Scene is everything needed to turn a two-body system into a pair of
// light curves.
type Scene struct {
	System     *physics.System
	Camera     raster.Camera
	Lens       lens.Params
	Times      []float64
	Integrator integrators.Options
}

func (s Scene) Validate() error {
	if s.System == nil {
		return dynamo.Configf("scene has no system")
	}
	if len(s.Times) == 0 {
		return dynamo.Configf("scene has no sample times")
	}
	if _, err := raster.NewGrid(s.Camera.Grid.N, s.Camera.Grid.HalfWidth); err != nil {
		return err
	}
	return s.Lens.Validate()
}

// WithSystem returns a copy of s observing a different system.
func (s Scene) WithSystem(sys *physics.System) Scene {
	s.System = sys
	return s
}

// Sprites places both bodies at sample k of tr.
func (s Scene) Sprites(tr *physics.Trajectory, k int) []raster.Sprite {
	bodies := s.System.Bodies()
	return []raster.Sprite{
		bodies[0].Sprite(tr.Position(0, k)),
		bodies[1].Sprite(tr.Position(1, k)),
	}
}

// TimeGrid returns samples evenly spaced over [0, tMax], both ends
// included.
func TimeGrid(tMax float64, samples int) ([]float64, error) {
	if samples < 2 {
		return nil, dynamo.Configf("need at least two samples, got %d", samples)
	}
	if !(tMax > 0) {
		return nil, dynamo.Configf("time horizon must be positive, got %g", tMax)
	}
	out := make([]float64, samples)
	step := tMax / float64(samples-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	out[samples-1] = tMax
	return out, nil
}
