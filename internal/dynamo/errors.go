package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrShape indicates an image whose dimensions the operation cannot accept.
	ErrShape = errors.New("dynamo: image must be square")

	// ErrUnstable indicates the integrator could not meet its tolerance
	// within the step budget, or the state diverged.
	ErrUnstable = errors.New("dynamo: numerical instability")

	// ErrDegenerateSeries indicates a time series lacking the structure a
	// photometric ratio needs.
	ErrDegenerateSeries = errors.New("dynamo: degenerate series")

	// ErrConfiguration indicates a parameter value is outside valid range.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrStepRejected indicates an adaptive step whose error estimate
	// exceeded the tolerance. Drivers retry with the suggested step.
	ErrStepRejected = errors.New("dynamo: adaptive step rejected")

	// ErrContextCanceled indicates the frame loop was stopped early.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Configf returns an error wrapping ErrConfiguration.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Degeneratef returns an error wrapping ErrDegenerateSeries.
func Degeneratef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerateSeries, fmt.Sprintf(format, args...))
}
