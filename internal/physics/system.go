package physics

import (
	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/integrators"
)

// System is an ordered pair of bodies. It is immutable after NewSystem;
// sweeps build a new System per parameter value.
type System struct {
	bodies   [2]Body
	g        float64
	initials dynamo.State
}

func NewSystem(a, b Body, g float64) (*System, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if !(g > 0) {
		return nil, dynamo.Configf("gravitational constant must be positive, got %g", g)
	}
	if a.Pos == b.Pos {
		return nil, dynamo.Configf("bodies %q and %q start at the same position", a.Name, b.Name)
	}

	return &System{
		bodies: [2]Body{a, b},
		g:      g,
		initials: dynamo.State{
			a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y,
			a.Vel.X, a.Vel.Y, b.Vel.X, b.Vel.Y,
		},
	}, nil
}

func (s *System) Body(i int) Body    { return s.bodies[i] }
func (s *System) Bodies() [2]Body    { return s.bodies }
func (s *System) G() float64         { return s.g }
func (s *System) TotalMass() float64 { return s.bodies[0].Mass + s.bodies[1].Mass }

func (s *System) ReducedMass() float64 {
	return s.bodies[0].Mass * s.bodies[1].Mass / s.TotalMass()
}

// Initials returns a copy of the initial-condition vector.
func (s *System) Initials() dynamo.State {
	return s.initials.Clone()
}

func (s *System) Dynamics() *TwoBody {
	return NewTwoBody(s.bodies[0].Mass, s.bodies[1].Mass, s.g)
}

// WithRadius returns a new System whose i-th body has the given radius.
// Masses and initial conditions are unchanged, so a trajectory computed
// for s remains valid for the result.
func (s *System) WithRadius(i, radius int) (*System, error) {
	bodies := s.bodies
	bodies[i] = bodies[i].WithRadius(radius)
	return NewSystem(bodies[0], bodies[1], s.g)
}

// Integrate samples the orbit at the given times.
func (s *System) Integrate(times []float64, opts integrators.Options) (*Trajectory, error) {
	dyn := s.Dynamics()
	states, err := integrators.Solve(dyn, s.initials, times, opts)
	if err != nil {
		return nil, err
	}

	ts := make([]float64, len(times))
	copy(ts, times)

	return &Trajectory{Times: ts, States: states, dyn: dyn}, nil
}
