package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/physics"
)

type Runner struct {
	scene     Scene
	observers []Observer
	log       zerolog.Logger
}

func New(scene Scene) *Runner {
	return &Runner{
		scene:     scene,
		observers: make([]Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) WithLogger(l zerolog.Logger) *Runner {
	r.log = l
	return r
}

func (r *Runner) Scene() Scene { return r.scene }

// Run integrates the orbit and then processes every sample. The context
// is checked after each frame completes; on cancellation the frames done
// so far are returned together with an error wrapping
// dynamo.ErrContextCanceled.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.scene.Validate(); err != nil {
		return nil, err
	}

	tr, err := r.scene.System.Integrate(r.scene.Times, r.scene.Integrator)
	if err != nil {
		return nil, fmt.Errorf("integrate orbit: %w", err)
	}
	r.log.Debug().Int("samples", tr.Len()).Msg("orbit integrated")

	m, err := lens.NewMapping(r.scene.Camera.Grid.N, r.scene.Lens)
	if err != nil {
		return nil, err
	}

	return r.RunTrajectory(ctx, tr, m)
}

// RunTrajectory processes a precomputed trajectory through a prepared
// lens mapping. Sweeps share both across runs.
func (r *Runner) RunTrajectory(ctx context.Context, tr *physics.Trajectory, m *lens.Mapping) (*Result, error) {
	if m.N() != r.scene.Camera.Grid.N {
		return nil, dynamo.Configf("lens grid %d does not match camera grid %d", m.N(), r.scene.Camera.Grid.N)
	}

	n := tr.Len()
	result := &Result{
		Trajectory: tr,
		Times:      make([]float64, 0, n),
		Raw:        make([]float64, 0, n),
		Lensed:     make([]float64, 0, n),
	}

	for k := 0; k < n; k++ {
		raw, visible, err := r.scene.Camera.Render(r.scene.Sprites(tr, k))
		if err != nil {
			return result, &dynamo.SimulationError{Step: k, Time: tr.Times[k], Wrapped: err}
		}
		lensed, err := m.Apply(raw)
		if err != nil {
			return result, &dynamo.SimulationError{Step: k, Time: tr.Times[k], Wrapped: err}
		}

		f := &Frame{
			Index:            k,
			Time:             tr.Times[k],
			Raw:              raw,
			Lensed:           lensed,
			Visible:          visible,
			RawBrightness:    photometry.Normalized(raw),
			LensedBrightness: photometry.Normalized(lensed),
		}
		result.Times = append(result.Times, f.Time)
		result.Raw = append(result.Raw, f.RawBrightness)
		result.Lensed = append(result.Lensed, f.LensedBrightness)

		for _, obs := range r.observers {
			obs.OnFrame(f)
		}

		if k < n-1 && ctx.Err() != nil {
			r.log.Info().Int("frames", k+1).Int("total", n).Msg("stopped early")
			return result, fmt.Errorf("%w after %d of %d frames: %v", dynamo.ErrContextCanceled, k+1, n, ctx.Err())
		}
	}

	return result, nil
}
