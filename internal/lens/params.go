package lens

import (
	"fmt"
	"math"

	"github.com/san-kum/gravlens/internal/dynamo"
)

// EdgePolicy resolves source indices that fall outside [0, n).
type EdgePolicy int

const (
	// EdgeWrap takes indices modulo n in both directions.
	EdgeWrap EdgePolicy = iota
	// EdgeClamp pins indices to the nearest border pixel.
	EdgeClamp
	// EdgeBlack leaves the output pixel black.
	EdgeBlack
)

func (e EdgePolicy) String() string {
	switch e {
	case EdgeWrap:
		return "wrap"
	case EdgeClamp:
		return "clamp"
	case EdgeBlack:
		return "black"
	default:
		return "unknown"
	}
}

func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch s {
	case "", "wrap":
		return EdgeWrap, nil
	case "clamp":
		return EdgeClamp, nil
	case "black":
		return EdgeBlack, nil
	default:
		return 0, dynamo.Configf("unknown edge policy %q", s)
	}
}

// resolve returns the in-range index for k, or -1 for a black pixel.
func (e EdgePolicy) resolve(k, n int) int {
	if k >= 0 && k < n {
		return k
	}
	switch e {
	case EdgeClamp:
		if k < 0 {
			return 0
		}
		return n - 1
	case EdgeBlack:
		return -1
	default:
		k %= n
		if k < 0 {
			k += n
		}
		return k
	}
}

// Params describes the deflector and the physical extent of the grid.
type Params struct {
	CoreRadius  float64
	Ellipticity float64
	Domain      float64 // half-width of both planes
	Edge        EdgePolicy
}

func (p Params) Validate() error {
	if !(p.CoreRadius >= 0) || math.IsInf(p.CoreRadius, 0) {
		return dynamo.Configf("core radius must be >= 0, got %g", p.CoreRadius)
	}
	if !(p.Ellipticity >= 0 && p.Ellipticity < 1) {
		return dynamo.Configf("ellipticity must be in [0, 1), got %g", p.Ellipticity)
	}
	if !(p.Domain > 0) || math.IsInf(p.Domain, 0) {
		return dynamo.Configf("domain must be positive, got %g", p.Domain)
	}
	if p.Edge < EdgeWrap || p.Edge > EdgeBlack {
		return dynamo.Configf("unknown edge policy %d", p.Edge)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("rc=%g eps=%g dom=%g edge=%s", p.CoreRadius, p.Ellipticity, p.Domain, p.Edge)
}

// Deflect maps an image-plane point to the source plane. A zero
// denominator (rc = 0 exactly at the lens centre) leaves the point where
// it is.
func (p Params) Deflect(r1, r2 float64) (s1, s2 float64) {
	eps := p.Ellipticity
	d := math.Sqrt(p.CoreRadius*p.CoreRadius + (1-eps)*r1*r1 + (1+eps)*r2*r2)
	if d == 0 {
		return r1, r2
	}
	return r1 - (1-eps)*r1/d, r2 - (1+eps)*r2/d
}
