package physics

import (
	"math"

	"github.com/san-kum/gravlens/internal/dynamo"
)

// TwoBody is Newtonian gravity between two point masses in a plane.
// No softening is applied; coincident bodies yield non-finite derivatives
// which the integrator reports as dynamo.ErrUnstable.
type TwoBody struct {
	M1, M2 float64
	G      float64
}

func NewTwoBody(m1, m2, g float64) *TwoBody {
	return &TwoBody{M1: m1, M2: m2, G: g}
}

func (tb *TwoBody) StateDim() int { return 8 }

func (tb *TwoBody) Derive(x dynamo.State, _ float64) dynamo.State {
	x1, y1, x2, y2 := x[0], x[1], x[2], x[3]

	rx := x2 - x1
	ry := y2 - y1
	r := math.Sqrt(rx*rx + ry*ry)
	r3Inv := 1.0 / (r * r * r)

	f1 := tb.G * tb.M2 * r3Inv
	f2 := tb.G * tb.M1 * r3Inv

	return dynamo.State{
		x[4], x[5], x[6], x[7],
		f1 * rx, f1 * ry,
		-f2 * rx, -f2 * ry,
	}
}

func (tb *TwoBody) Energy(x dynamo.State) float64 {
	ke := 0.5*tb.M1*(x[4]*x[4]+x[5]*x[5]) + 0.5*tb.M2*(x[6]*x[6]+x[7]*x[7])

	rx := x[2] - x[0]
	ry := x[3] - x[1]
	pe := -tb.G * tb.M1 * tb.M2 / math.Sqrt(rx*rx+ry*ry)

	return ke + pe
}

func (tb *TwoBody) Momentum(x dynamo.State) (px, py float64) {
	px = tb.M1*x[4] + tb.M2*x[6]
	py = tb.M1*x[5] + tb.M2*x[7]
	return
}

func (tb *TwoBody) AngularMomentum(x dynamo.State) float64 {
	return tb.M1*(x[0]*x[5]-x[1]*x[4]) + tb.M2*(x[2]*x[7]-x[3]*x[6])
}
