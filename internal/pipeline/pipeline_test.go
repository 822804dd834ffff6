package pipeline_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/integrators"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/pipeline"
	"github.com/san-kum/gravlens/internal/raster"
)

const year = 3.156e7

// transitScene is a small star and planet seen edge-on. The planet starts
// well clear of the star and crosses in front of it near t = 0.25 yr.
func transitScene(planetRadius int) pipeline.Scene {
	star := physics.Body{Name: "star", Mass: 2e30, Radius: 12, Color: raster.White}
	planet := physics.Body{
		Name:   "planet",
		Mass:   6e24,
		Radius: planetRadius,
		Pos:    r2.Vec{X: 1.496e11},
		Vel:    r2.Vec{Y: -29800},
		Color:  raster.Black,
	}
	sys, err := physics.NewSystem(star, planet, physics.G)
	Expect(err).NotTo(HaveOccurred())

	grid, err := raster.NewGrid(100, 2e11)
	Expect(err).NotTo(HaveOccurred())

	times, err := pipeline.TimeGrid(0.6*year, 60)
	Expect(err).NotTo(HaveOccurred())

	return pipeline.Scene{
		System:     sys,
		Camera:     raster.Camera{Grid: grid, Projection: raster.EdgeOn},
		Lens:       lens.Params{Domain: 4},
		Times:      times,
		Integrator: integrators.DefaultOptions(),
	}
}

func depthRatio(planet, star int) float64 {
	return math.Sqrt(float64(raster.DiskArea(planet)) / float64(raster.DiskArea(star)))
}

var _ = Describe("Runner", func() {
	var scene pipeline.Scene

	BeforeEach(func() {
		scene = transitScene(4)
	})

	It("produces one brightness value per sample", func() {
		res, err := pipeline.New(scene).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Complete()).To(BeTrue())
		Expect(res.Raw).To(HaveLen(len(scene.Times)))
		Expect(res.Lensed).To(HaveLen(len(scene.Times)))
		Expect(res.Times).To(Equal(scene.Times))
	})

	It("records the transit dip at the pixel-area ratio", func() {
		res, err := pipeline.New(scene).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Raw[0]).To(BeNumerically("~", 3*float64(raster.DiskArea(12)), 1e-9))

		ratio, err := photometry.TransitDepthRatio(res.Raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(ratio).To(BeNumerically("~", depthRatio(4, 12), 1e-9))

		lensed, err := photometry.TransitDepthRatio(res.Lensed)
		Expect(err).NotTo(HaveOccurred())
		Expect(lensed).To(BeNumerically(">", 0))
	})

	It("notifies observers once per frame in order", func() {
		var seen []int
		r := pipeline.New(scene)
		r.AddObserver(pipeline.ObserverFunc(func(f *pipeline.Frame) {
			seen = append(seen, f.Index)
			Expect(f.Raw.N()).To(Equal(100))
			Expect(f.Lensed.N()).To(Equal(100))
			Expect(f.Visible).To(HaveLen(2))
		}))

		_, err := r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(len(scene.Times)))
		for i, k := range seen {
			Expect(k).To(Equal(i))
		}
	})

	It("hides the planet while it is behind the star", func() {
		// the far-side passage happens near t = 0.75 yr
		var err error
		scene.Times, err = pipeline.TimeGrid(year, 100)
		Expect(err).NotTo(HaveOccurred())

		var hidden int
		r := pipeline.New(scene)
		r.AddObserver(pipeline.ObserverFunc(func(f *pipeline.Frame) {
			Expect(f.Visible[0]).To(BeTrue())
			if !f.Visible[1] {
				hidden++
			}
		}))

		_, err = r.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(hidden).To(BeNumerically(">", 0))
	})

	Context("when the context is cancelled", func() {
		It("stops after the current frame and keeps partial results", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			r := pipeline.New(scene)
			r.AddObserver(pipeline.ObserverFunc(func(f *pipeline.Frame) {
				if f.Index == 2 {
					cancel()
				}
			}))

			res, err := r.Run(ctx)
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
			Expect(res).NotTo(BeNil())
			Expect(res.Frames()).To(Equal(3))
			Expect(res.Complete()).To(BeFalse())
			Expect(res.Trajectory.Len()).To(Equal(len(scene.Times)))
		})

		It("still completes the first frame", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := pipeline.New(scene).Run(ctx)
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
			Expect(res.Frames()).To(Equal(1))
		})
	})

	Context("with an invalid scene", func() {
		It("rejects a missing system", func() {
			scene.System = nil
			_, err := pipeline.New(scene).Run(context.Background())
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects an out-of-range ellipticity", func() {
			scene.Lens.Ellipticity = 1
			_, err := pipeline.New(scene).Run(context.Background())
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("surfaces integrator failure", func() {
			scene.Integrator.MaxSteps = 1
			_, err := pipeline.New(scene).Run(context.Background())
			Expect(err).To(MatchError(dynamo.ErrUnstable))
		})
	})
})

var _ = Describe("RadiusSweep", func() {
	It("returns one point per radius in input order", func() {
		radii := []int{6, 2, 4}
		points, err := pipeline.RadiusSweep(context.Background(), transitScene(1), 1, radii)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(len(radii)))

		for i, p := range points {
			Expect(p.Radius).To(Equal(radii[i]))
			Expect(p.Raw).To(BeNumerically("~", depthRatio(p.Radius, 12), 1e-9))
		}
	})

	It("rejects a bad body index", func() {
		_, err := pipeline.RadiusSweep(context.Background(), transitScene(1), 2, []int{3})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})

	It("rejects a non-positive radius", func() {
		_, err := pipeline.RadiusSweep(context.Background(), transitScene(1), 1, []int{3, 0})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("EllipticitySweep", func() {
	var src *raster.Image

	BeforeEach(func() {
		var err error
		src, err = raster.NewImage(81)
		Expect(err).NotTo(HaveOccurred())
		Expect(raster.DrawDisk(src, 8, 40, 40, raster.Red, raster.Overwrite)).To(Succeed())
	})

	It("matches a direct transform at every point", func() {
		base := lens.Params{CoreRadius: 0.2, Domain: 4}
		eps := pipeline.Linspace(0, 1, 5, true)
		points, err := pipeline.EllipticitySweep(context.Background(), src, base, eps)
		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(5))

		baseline := photometry.Normalized(src)
		for i, p := range points {
			Expect(p.Ellipticity).To(Equal(eps[i]))

			q := base
			q.Ellipticity = eps[i]
			out, err := lens.Transform(src, q)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Brightness).To(Equal(photometry.Normalized(out)))
			Expect(p.Change).To(BeNumerically("~", (p.Brightness-baseline)/baseline, 1e-12))
		}
	})

	It("rejects ellipticity of one", func() {
		_, err := pipeline.EllipticitySweep(context.Background(), src, lens.Params{Domain: 4}, []float64{0, 1})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("TimeGrid", func() {
	It("includes both ends", func() {
		ts, err := pipeline.TimeGrid(10, 11)
		Expect(err).NotTo(HaveOccurred())
		Expect(ts).To(HaveLen(11))
		Expect(ts[0]).To(Equal(0.0))
		Expect(ts[10]).To(Equal(10.0))
		Expect(ts[3]).To(BeNumerically("~", 3, 1e-12))
	})

	It("rejects degenerate grids", func() {
		_, err := pipeline.TimeGrid(10, 1)
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
		_, err = pipeline.TimeGrid(0, 10)
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("Linspace", func() {
	It("excludes the end point when open", func() {
		Expect(pipeline.Linspace(0, 1, 4, true)).To(Equal([]float64{0, 0.25, 0.5, 0.75}))
		Expect(pipeline.Linspace(0, 1, 3, false)).To(Equal([]float64{0, 0.5, 1}))
	})
})
