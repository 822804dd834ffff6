package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/raster"
)

// RadiusPoint is the transit radius estimate for one trial radius.
type RadiusPoint struct {
	Radius int
	Raw    float64
	Lensed float64
}

// RadiusSweep re-renders the scene once per radius of body i and
// estimates the radius ratio from the raw and lensed dips. The orbit does
// not depend on pixel radius, so it is integrated once. Points are
// computed concurrently and returned in input order.
func RadiusSweep(ctx context.Context, scene Scene, body int, radii []int) ([]RadiusPoint, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if body != 0 && body != 1 {
		return nil, dynamo.Configf("body index must be 0 or 1, got %d", body)
	}
	if len(radii) == 0 {
		return nil, dynamo.Configf("no radii to sweep")
	}

	tr, err := scene.System.Integrate(scene.Times, scene.Integrator)
	if err != nil {
		return nil, fmt.Errorf("integrate orbit: %w", err)
	}
	m, err := lens.NewMapping(scene.Camera.Grid.N, scene.Lens)
	if err != nil {
		return nil, err
	}

	points := make([]RadiusPoint, len(radii))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, radius := range radii {
		i, radius := i, radius
		g.Go(func() error {
			sys, err := scene.System.WithRadius(body, radius)
			if err != nil {
				return err
			}
			res, err := New(scene.WithSystem(sys)).RunTrajectory(gctx, tr, m)
			if err != nil {
				return fmt.Errorf("radius %d: %w", radius, err)
			}

			raw, err := photometry.TransitDepthRatio(res.Raw)
			if err != nil {
				return fmt.Errorf("radius %d raw: %w", radius, err)
			}
			lensed, err := photometry.TransitDepthRatio(res.Lensed)
			if err != nil {
				return fmt.Errorf("radius %d lensed: %w", radius, err)
			}

			points[i] = RadiusPoint{Radius: radius, Raw: raw, Lensed: lensed}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// EllipticityPoint is the lensed brightness of a fixed source at one
// ellipticity.
type EllipticityPoint struct {
	Ellipticity float64
	Brightness  float64
	Change      float64 // relative to the unlensed source
}

// EllipticitySweep lenses src once per ellipticity, keeping the other
// lens parameters from base.
func EllipticitySweep(ctx context.Context, src *raster.Image, base lens.Params, eps []float64) ([]EllipticityPoint, error) {
	if len(eps) == 0 {
		return nil, dynamo.Configf("no ellipticities to sweep")
	}
	if !src.IsSquare() {
		return nil, fmt.Errorf("%w: got %dx%d", dynamo.ErrShape, src.Rows, src.Cols)
	}

	baseline := photometry.Normalized(src)
	points := make([]EllipticityPoint, len(eps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range eps {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
			}
			p := base
			p.Ellipticity = e
			out, err := lens.Transform(src, p)
			if err != nil {
				return fmt.Errorf("eps %g: %w", e, err)
			}
			points[i] = EllipticityPoint{Ellipticity: e, Brightness: photometry.Normalized(out)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Brightness
	}
	change, err := photometry.FractionalChange(series, baseline)
	if err != nil {
		return nil, err
	}
	for i := range points {
		points[i].Change = change[i]
	}
	return points, nil
}

// Linspace returns n evenly spaced values over [lo, hi]. With open set
// the upper end is excluded.
func Linspace(lo, hi float64, n int, open bool) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	div := float64(n - 1)
	if open {
		div = float64(n)
	}
	step := (hi - lo) / div
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
