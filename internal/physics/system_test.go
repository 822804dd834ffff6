package physics

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/integrators"
)

const (
	au   = 1.49e11
	year = 3.156e7
)

func symmetricBinary(t *testing.T) *System {
	t.Helper()
	a := Body{Name: "a", Mass: 2e30, Radius: 18, Pos: r2.Vec{X: -au / 2}, Vel: r2.Vec{Y: 20000}}
	b := Body{Name: "b", Mass: 2e30, Radius: 10, Pos: r2.Vec{X: au / 2}, Vel: r2.Vec{Y: -20000}}
	sys, err := NewSystem(a, b, G)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return sys
}

func timeGrid(tMax float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = tMax * float64(i) / float64(n-1)
	}
	return out
}

func TestSystem_DerivedState(t *testing.T) {
	sys := symmetricBinary(t)

	if sys.TotalMass() != 4e30 {
		t.Errorf("total mass = %g, want 4e30", sys.TotalMass())
	}
	if got := sys.ReducedMass(); math.Abs(got-1e30) > 1e-12*1e30 {
		t.Errorf("reduced mass = %g, want 1e30", sys.ReducedMass())
	}

	want := dynamo.State{-au / 2, 0, au / 2, 0, 0, 20000, 0, -20000}
	got := sys.Initials()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("initials[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	got[0] = 0
	if sys.Initials()[0] != -au/2 {
		t.Error("Initials exposed internal state")
	}
}

func TestSystem_Validation(t *testing.T) {
	good := Body{Name: "ok", Mass: 1, Radius: 1, Pos: r2.Vec{X: 1}}
	tests := []struct {
		name string
		a, b Body
		g    float64
	}{
		{"zero mass", Body{Mass: 0, Radius: 1}, good, G},
		{"negative mass", Body{Mass: -1, Radius: 1}, good, G},
		{"zero radius", Body{Mass: 1, Radius: 0}, good, G},
		{"negative radius", good, Body{Mass: 1, Radius: -3}, G},
		{"coincident", good, good, G},
		{"zero G", Body{Mass: 1, Radius: 1}, good, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSystem(tt.a, tt.b, tt.g)
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestSystem_WithRadiusKeepsOriginal(t *testing.T) {
	sys := symmetricBinary(t)
	next, err := sys.WithRadius(1, 4)
	if err != nil {
		t.Fatalf("WithRadius: %v", err)
	}
	if next.Body(1).Radius != 4 {
		t.Errorf("new radius = %d, want 4", next.Body(1).Radius)
	}
	if sys.Body(1).Radius != 10 {
		t.Errorf("original radius changed to %d", sys.Body(1).Radius)
	}
	if _, err := sys.WithRadius(1, 0); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for zero radius, got %v", err)
	}
}

func TestTwoBody_DerivativeIsNewtonian(t *testing.T) {
	tb := NewTwoBody(2, 3, 1)
	dx := tb.Derive(dynamo.State{0, 0, 2, 0, 1, 2, 3, 4}, 0)

	want := dynamo.State{1, 2, 3, 4, 3.0 / 4.0, 0, -2.0 / 4.0, 0}
	for i := range want {
		if math.Abs(dx[i]-want[i]) > 1e-15 {
			t.Fatalf("dx[%d] = %g, want %g", i, dx[i], want[i])
		}
	}
}

func TestIntegrate_ConservesCenterOfMass(t *testing.T) {
	sys := symmetricBinary(t)
	times := timeGrid(0.3*year, 200)

	traj, err := sys.Integrate(times, integrators.DefaultOptions())
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if traj.Len() != len(times) {
		t.Fatalf("trajectory has %d samples, want %d", traj.Len(), len(times))
	}

	for k := 0; k < traj.Len(); k++ {
		com := traj.CenterOfMass(k)
		if r2.Norm(com) > 1e-6*traj.Separation(k) {
			t.Fatalf("sample %d: centre of mass drifted to %v", k, com)
		}
	}
}

func TestIntegrate_ConservesEnergy(t *testing.T) {
	sys := symmetricBinary(t)
	traj, err := sys.Integrate(timeGrid(0.3*year, 50), integrators.DefaultOptions())
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	e0 := traj.Energy(0)
	drift := math.Abs(traj.Energy(traj.Len()-1)-e0) / math.Abs(e0)
	if drift > 1e-8 {
		t.Errorf("energy drift %e", drift)
	}
	if worst := traj.EnergyDrift(); worst < drift || worst > 1e-7 {
		t.Errorf("max energy drift %e, final %e", worst, drift)
	}
}

func TestIntegrate_FixedStepMethods(t *testing.T) {
	sys := symmetricBinary(t)
	times := timeGrid(0.3*year, 50)

	for _, method := range []string{"rk4", "verlet", "leapfrog"} {
		t.Run(method, func(t *testing.T) {
			opts := integrators.DefaultOptions()
			opts.Method = method
			traj, err := sys.Integrate(times, opts)
			if err != nil {
				t.Fatalf("Integrate: %v", err)
			}
			if traj.Len() != len(times) {
				t.Fatalf("trajectory has %d samples, want %d", traj.Len(), len(times))
			}
			for k := 0; k < traj.Len(); k++ {
				if com := traj.CenterOfMass(k); r2.Norm(com) > 1e-6*traj.Separation(k) {
					t.Fatalf("sample %d: centre of mass drifted to %v", k, com)
				}
			}
			if drift := traj.EnergyDrift(); drift > 1e-5 {
				t.Errorf("energy drift %e", drift)
			}
		})
	}

	ref, err := sys.Integrate(times, integrators.DefaultOptions())
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	opts := integrators.DefaultOptions()
	opts.Method = "rk4"
	traj, err := sys.Integrate(times, opts)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	last := traj.Len() - 1
	if d := r2.Norm(r2.Sub(traj.Position(1, last), ref.Position(1, last))); d > 1e-6*au {
		t.Errorf("rk4 ends %g m from rk45", d)
	}
}

func TestIntegrate_CircularOrbitReturns(t *testing.T) {
	// Earth-like circular orbit around a fixed-ish star, one period.
	star := Body{Name: "star", Mass: 2e30, Radius: 50}
	v := math.Sqrt(G * 2e30 / au)
	planet := Body{Name: "planet", Mass: 6e24, Radius: 5, Pos: r2.Vec{X: au}, Vel: r2.Vec{Y: -v}}
	sys, err := NewSystem(star, planet, G)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}

	period := 2 * math.Pi * au / v
	traj, err := sys.Integrate(timeGrid(period, 101), integrators.DefaultOptions())
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	rel := traj.Position(1, 100)
	rel = r2.Sub(rel, traj.Position(0, 100))
	if math.Abs(rel.X-au)/au > 1e-3 || math.Abs(rel.Y)/au > 1e-2 {
		t.Errorf("orbit did not close: relative position %v", rel)
	}
}
