package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravlens/internal/dynamo"
)

const (
	DefaultRelTol   = 1e-10
	DefaultMaxSteps = 500
	DefaultSubsteps = 100
)

// Options controls how Solve advances between sample times.
type Options struct {
	// Method is one of the names accepted by ByName. Empty means "rk45".
	Method string
	// RelTol is the relative local error tolerance for adaptive methods.
	RelTol float64
	// MaxSteps bounds the attempted steps between two consecutive samples.
	MaxSteps int
	// Substeps is the number of equal steps per sample interval used by
	// fixed-step methods.
	Substeps int
}

func DefaultOptions() Options {
	return Options{
		Method:   "rk45",
		RelTol:   DefaultRelTol,
		MaxSteps: DefaultMaxSteps,
		Substeps: DefaultSubsteps,
	}
}

func (o Options) withDefaults() Options {
	if o.Method == "" {
		o.Method = "rk45"
	}
	if o.RelTol <= 0 {
		o.RelTol = DefaultRelTol
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Substeps <= 0 {
		o.Substeps = DefaultSubsteps
	}
	return o
}

// Solve integrates dyn from x0 and returns one state per entry of times,
// in the same order. times must be strictly increasing; the first state
// is x0 itself at times[0].
func Solve(dyn dynamo.System, x0 dynamo.State, times []float64, opts Options) ([]dynamo.State, error) {
	opts = opts.withDefaults()

	if len(times) == 0 {
		return nil, dynamo.Configf("time grid is empty")
	}
	if len(x0) != dyn.StateDim() {
		return nil, dynamo.Configf("initial state has %d components, system needs %d", len(x0), dyn.StateDim())
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return nil, dynamo.Configf("time grid not strictly increasing at index %d", i)
		}
	}
	if !x0.IsValid() {
		return nil, &dynamo.SimulationError{Step: 0, Time: times[0], State: x0.Clone(), Wrapped: dynamo.ErrUnstable}
	}

	integ, err := ByName(opts.Method)
	if err != nil {
		return nil, err
	}

	out := make([]dynamo.State, len(times))
	out[0] = x0.Clone()

	if adaptive, ok := integ.(dynamo.AdaptiveIntegrator); ok {
		err = solveAdaptive(adaptive, dyn, times, out, opts)
	} else {
		err = solveFixed(integ, dyn, times, out, opts)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func solveAdaptive(integ dynamo.AdaptiveIntegrator, dyn dynamo.System, times []float64, out []dynamo.State, opts Options) error {
	x := out[0].Clone()
	t := times[0]
	h := (times[len(times)-1] - times[0]) / float64(len(times)) / 10

	for k := 1; k < len(times); k++ {
		target := times[k]
		steps := 0

		for t < target {
			if steps >= opts.MaxSteps {
				return &dynamo.SimulationError{
					Step:    k,
					Time:    t,
					State:   x.Clone(),
					Wrapped: fmt.Errorf("%w: %d steps did not reach t=%g at rtol=%g", dynamo.ErrUnstable, opts.MaxSteps, target, opts.RelTol),
				}
			}
			steps++

			remaining := target - t
			dt := math.Min(h, remaining)
			last := dt == remaining

			next, hNew, err := integ.StepAdaptive(dyn, x, t, dt, opts.RelTol)
			if errors.Is(err, dynamo.ErrStepRejected) {
				if !(hNew > minStep(t)) {
					return &dynamo.SimulationError{
						Step:    k,
						Time:    t,
						State:   x.Clone(),
						Wrapped: fmt.Errorf("%w: step size underflow (h=%g)", dynamo.ErrUnstable, hNew),
					}
				}
				h = hNew
				continue
			}
			if err != nil {
				return err
			}
			if !next.IsValid() {
				return &dynamo.SimulationError{Step: k, Time: t, State: x.Clone(), Wrapped: dynamo.ErrUnstable}
			}

			x = next
			if last {
				t = target
				h = math.Max(h, hNew)
			} else {
				t += dt
				h = hNew
			}
		}

		out[k] = x.Clone()
	}

	return nil
}

func solveFixed(integ dynamo.Integrator, dyn dynamo.System, times []float64, out []dynamo.State, opts Options) error {
	x := out[0].Clone()

	for k := 1; k < len(times); k++ {
		t := times[k-1]
		dt := (times[k] - t) / float64(opts.Substeps)
		for s := 0; s < opts.Substeps; s++ {
			x = integ.Step(dyn, x, t, dt)
			t += dt
		}
		if !x.IsValid() {
			return &dynamo.SimulationError{Step: k, Time: times[k], State: x.Clone(), Wrapped: dynamo.ErrUnstable}
		}
		out[k] = x.Clone()
	}

	return nil
}

func minStep(t float64) float64 {
	return 1e-14 * math.Max(1, math.Abs(t))
}
