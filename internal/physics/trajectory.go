package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravlens/internal/dynamo"
)

// Trajectory holds one 8-component state per sample time.
type Trajectory struct {
	Times  []float64
	States []dynamo.State
	dyn    *TwoBody
}

func (tr *Trajectory) Len() int { return len(tr.States) }

// Position returns the centre of body i (0 or 1) at sample k.
func (tr *Trajectory) Position(i, k int) r2.Vec {
	x := tr.States[k]
	return r2.Vec{X: x[2*i], Y: x[2*i+1]}
}

func (tr *Trajectory) Velocity(i, k int) r2.Vec {
	x := tr.States[k]
	return r2.Vec{X: x[4+2*i], Y: x[4+2*i+1]}
}

func (tr *Trajectory) CenterOfMass(k int) r2.Vec {
	m1, m2 := tr.dyn.M1, tr.dyn.M2
	p := r2.Add(r2.Scale(m1, tr.Position(0, k)), r2.Scale(m2, tr.Position(1, k)))
	return r2.Scale(1/(m1+m2), p)
}

func (tr *Trajectory) Separation(k int) float64 {
	return r2.Norm(r2.Sub(tr.Position(1, k), tr.Position(0, k)))
}

func (tr *Trajectory) Energy(k int) float64 {
	return tr.dyn.Energy(tr.States[k])
}

// EnergyDrift is the largest relative departure of the total energy from
// its value at the first sample. Zero initial energy yields 0.
func (tr *Trajectory) EnergyDrift() float64 {
	if tr.Len() == 0 {
		return 0
	}
	e0 := tr.Energy(0)
	if e0 == 0 {
		return 0
	}
	drift := 0.0
	for k := 1; k < tr.Len(); k++ {
		drift = math.Max(drift, math.Abs(tr.Energy(k)-e0)/math.Abs(e0))
	}
	return drift
}

// Column returns component c of every state, e.g. 0 for x1.
func (tr *Trajectory) Column(c int) []float64 {
	out := make([]float64, len(tr.States))
	for k, x := range tr.States {
		out[k] = x[c]
	}
	return out
}
