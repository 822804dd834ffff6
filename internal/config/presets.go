package config

import (
	"sort"

	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/raster"
)

const (
	sunMass   = 2e30
	earthMass = 6e24
)

var (
	white = [3]float64(raster.White)
	black = [3]float64(raster.Black)
	red   = [3]float64(raster.Red)
)

var presets = map[string]func() *Config{
	// A planet crossing a large star, seen edge-on.
	"transit": func() *Config {
		c := DefaultConfig()
		c.Name, c.Kind = "transit", KindOrbit
		c.Grid = GridConfig{Size: 400, Extent: 4e11}
		c.Lens = LensConfig{CoreRadius: 0, Ellipticity: 0, Domain: 4}
		c.Bodies = []BodyConfig{
			{Name: "star", Mass: sunMass, Radius: 50, Color: white},
			{Name: "planet", Mass: earthMass, Radius: 9, X: physics.AU, VY: -29800, Color: black},
		}
		c.Time = TimeConfig{Years: 0.6, Samples: 300}
		c.Sweep.Radii = []int{3, 5, 7, 9, 11, 13, 15}
		return c
	},
	// Equal-mass bright and dark stars on opposite velocities.
	"binary": func() *Config {
		c := DefaultConfig()
		c.Name, c.Kind = "binary", KindOrbit
		c.Grid = GridConfig{Size: 200, Extent: 2.5e11}
		c.Lens = LensConfig{CoreRadius: 0.15, Ellipticity: 0, Domain: 6}
		c.Bodies = []BodyConfig{
			{Name: "bright", Mass: sunMass, Radius: 18, X: -1.49e11 / 2, VY: 20000, Color: white},
			{Name: "dark", Mass: sunMass, Radius: 10, X: 1.49e11 / 2, VY: -20000, Color: black},
		}
		c.Time = TimeConfig{Years: 0.3, Samples: 200}
		c.Peaks.MinHeight = 1
		return c
	},
	// Fractional brightness change of a centred disk against ellipticity.
	"ellipticity": func() *Config {
		c := DefaultConfig()
		c.Name, c.Kind = "ellipticity", KindEllipticity
		c.Grid = GridConfig{Size: 600}
		c.Lens = LensConfig{CoreRadius: 0.2, Domain: 4}
		c.Source = SourceConfig{Radius: 30, Color: red}
		c.Sweep.EpsCount = 300
		return c
	},
	"cluster": func() *Config {
		c := DefaultConfig()
		c.Name, c.Kind = "cluster", KindCluster
		c.Grid = GridConfig{Size: 400}
		c.Lens = LensConfig{CoreRadius: 0.2, Domain: 2}
		return c
	},
	"magnification": func() *Config {
		c := DefaultConfig()
		c.Name, c.Kind = "magnification", KindMagnification
		c.Grid = GridConfig{Size: 300}
		c.Lens = LensConfig{Domain: 2}
		return c
	},
}

// GetPreset returns a fresh copy of the named scenario, or nil.
func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
