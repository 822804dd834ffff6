// Package dynamo provides the core simulation primitives shared by the
// orbit integrator and the imaging pipeline.
//
// The package defines:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator] and [AdaptiveIntegrator]: numerical stepper interfaces
//   - the error kinds surfaced by every core operation
//
// # Errors
//
// Core operations never correct bad input silently. Failures wrap one of
// [ErrShape], [ErrUnstable], [ErrDegenerateSeries] or [ErrConfiguration]
// so callers can branch with errors.Is:
//
//	traj, err := integrators.Solve(sys, x0, times, opts)
//	if errors.Is(err, dynamo.ErrUnstable) {
//	    // tolerance could not be met within the step budget
//	}
package dynamo
