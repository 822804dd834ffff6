package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravlens/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"rk45":     func() dynamo.Integrator { return NewRK45() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
}

// ByName returns a fresh integrator. Steppers keep scratch buffers, so
// callers must not share one between goroutines.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, dynamo.Configf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o Options) String() string {
	return fmt.Sprintf("%s(rtol=%g, max_steps=%d)", o.Method, o.RelTol, o.MaxSteps)
}
