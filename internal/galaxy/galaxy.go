// Package galaxy builds seeded synthetic galaxy-cluster source images for
// the lens.
package galaxy

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/raster"
)

// Galaxy is an elliptical exponential-profile blob. Minor and Major are
// semi-axes in pixels; Theta rotates the major axis away from the rows.
type Galaxy struct {
	Flux  raster.Color
	Row   int
	Col   int
	Scale float64 // profile scale length in units of the ellipse radius
	Minor int
	Major int
	Theta float64
}

// Config controls cluster generation.
type Config struct {
	Size     int     `yaml:"size,omitempty"`
	Count    int     `yaml:"count"`
	MaxScale float64 `yaml:"max_scale"`
	MinorMax int     `yaml:"minor_max"`
	Seed     uint64  `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{Size: 400, Count: 25, MaxScale: 0.4, MinorMax: 21, Seed: 34563}
}

func (c Config) validate() error {
	if c.Size <= 0 {
		return dynamo.Configf("cluster size must be positive, got %d", c.Size)
	}
	if c.Count < 0 {
		return dynamo.Configf("galaxy count must be >= 0, got %d", c.Count)
	}
	if !(c.MaxScale > 0) {
		return dynamo.Configf("max scale must be positive, got %g", c.MaxScale)
	}
	if c.MinorMax <= 0 {
		return dynamo.Configf("minor_max must be positive, got %d", c.MinorMax)
	}
	return nil
}

// Sample draws cfg.Count galaxies. The same seed always yields the same
// cluster.
func Sample(cfg Config) ([]Galaxy, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	gals := make([]Galaxy, cfg.Count)
	for k := range gals {
		minor := 1 + rnd.Intn(cfg.MinorMax)
		major := minor
		if span := 5*cfg.MinorMax - minor; span > 0 {
			major += rnd.Intn(span)
		}
		gals[k] = Galaxy{
			Flux: raster.Color{
				float64(rnd.Intn(255)),
				float64(rnd.Intn(255)),
				float64(rnd.Intn(255)),
			},
			Row:   rnd.Intn(cfg.Size),
			Col:   rnd.Intn(cfg.Size),
			Scale: cfg.MaxScale * (1 - rnd.Float64()),
			Minor: minor,
			Major: major,
			Theta: rnd.Float64() * math.Pi,
		}
	}
	return gals, nil
}

// Generate samples a cluster and renders it into a fresh image.
func Generate(cfg Config) (*raster.Image, []Galaxy, error) {
	gals, err := Sample(cfg)
	if err != nil {
		return nil, nil, err
	}
	img, err := raster.NewImage(cfg.Size)
	if err != nil {
		return nil, nil, err
	}
	for _, g := range gals {
		g.Draw(img)
	}
	return img, gals, nil
}

// Draw adds the galaxy's light to img. Pixels past the grid are dropped.
func (g Galaxy) Draw(img *raster.Image) {
	sin, cos := math.Sincos(g.Theta)
	minor, major := float64(g.Minor), float64(g.Major)

	for x := -g.Major; x <= g.Major; x++ {
		for y := -g.Major; y <= g.Major; y++ {
			i, j := g.Row+x, g.Col+y
			if !img.InBounds(i, j) {
				continue
			}
			xp := float64(x)*cos - float64(y)*sin
			yp := float64(x)*sin + float64(y)*cos
			q := (xp/minor)*(xp/minor) + (yp/major)*(yp/major)
			if q > 1 {
				continue
			}
			w := math.Exp(-math.Sqrt(q) / g.Scale)
			img.Add(i, j, raster.Color{g.Flux[0] * w, g.Flux[1] * w, g.Flux[2] * w})
		}
	}
}
