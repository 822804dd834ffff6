package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/galaxy"
	"github.com/san-kum/gravlens/internal/integrators"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/pipeline"
	"github.com/san-kum/gravlens/internal/raster"
)

// Scenario kinds.
const (
	KindOrbit         = "orbit"
	KindEllipticity   = "ellipticity"
	KindCluster       = "cluster"
	KindMagnification = "magnification"
)

const (
	DefaultSize     = 200
	DefaultDomain   = 4.0
	DefaultSamples  = 200
	DefaultEpsCount = 300
	DefaultMinPeak  = 1.0
)

type Config struct {
	Name       string           `yaml:"name"`
	Kind       string           `yaml:"kind" validate:"oneof=orbit ellipticity cluster magnification"`
	Grid       GridConfig       `yaml:"grid"`
	Lens       LensConfig       `yaml:"lens"`
	Bodies     []BodyConfig     `yaml:"bodies,omitempty" validate:"omitempty,len=2,dive"`
	Time       TimeConfig       `yaml:"time"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Projection string           `yaml:"projection,omitempty" validate:"omitempty,oneof=edge-on face-on"`
	Sweep      SweepConfig      `yaml:"sweep,omitempty"`
	Source     SourceConfig     `yaml:"source,omitempty"`
	Cluster    galaxy.Config    `yaml:"cluster,omitempty"`
	Peaks      PeakConfig       `yaml:"peaks,omitempty"`
}

type GridConfig struct {
	Size int `yaml:"size" validate:"gt=0"`
	// Extent is the full physical width of the rendered plane in metres.
	Extent float64 `yaml:"extent" validate:"gte=0"`
}

type LensConfig struct {
	CoreRadius  float64 `yaml:"core_radius" validate:"gte=0"`
	Ellipticity float64 `yaml:"ellipticity" validate:"gte=0,lt=1"`
	Domain      float64 `yaml:"domain" validate:"gt=0"`
	Edge        string  `yaml:"edge,omitempty" validate:"omitempty,oneof=wrap clamp black"`
}

type BodyConfig struct {
	Name   string     `yaml:"name"`
	Mass   float64    `yaml:"mass" validate:"gt=0"`
	Radius int        `yaml:"radius" validate:"gt=0"`
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	VX     float64    `yaml:"vx"`
	VY     float64    `yaml:"vy"`
	Color  [3]float64 `yaml:"color,flow"`
}

type TimeConfig struct {
	Years   float64 `yaml:"years" validate:"gte=0"`
	Samples int     `yaml:"samples" validate:"gte=0"`
}

type IntegratorConfig struct {
	Method   string  `yaml:"method,omitempty" validate:"omitempty,oneof=rk45 rk4 verlet leapfrog"`
	RelTol   float64 `yaml:"rtol,omitempty" validate:"gte=0"`
	MaxSteps int     `yaml:"max_steps,omitempty" validate:"gte=0"`
	Substeps int     `yaml:"substeps,omitempty" validate:"gte=0"`
}

type SweepConfig struct {
	Body     int   `yaml:"body,omitempty" validate:"gte=0,lte=1"`
	Radii    []int `yaml:"radii,omitempty,flow" validate:"dive,gt=0"`
	EpsCount int   `yaml:"eps_count,omitempty" validate:"gte=0"`
}

// SourceConfig is the centred disk lensed by ellipticity scenarios.
type SourceConfig struct {
	Radius int        `yaml:"radius,omitempty" validate:"gte=0"`
	Color  [3]float64 `yaml:"color,flow"`
}

type PeakConfig struct {
	MinHeight float64 `yaml:"min_height,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind: KindOrbit,
		Grid: GridConfig{Size: DefaultSize},
		Lens: LensConfig{Domain: DefaultDomain},
		Time: TimeConfig{Samples: DefaultSamples},
		Integrator: IntegratorConfig{
			Method:   "rk45",
			RelTol:   integrators.DefaultRelTol,
			MaxSteps: integrators.DefaultMaxSteps,
			Substeps: integrators.DefaultSubsteps,
		},
		Projection: raster.EdgeOn.String(),
		Sweep:      SweepConfig{Body: 1, EpsCount: DefaultEpsCount},
		Cluster:    galaxy.DefaultConfig(),
		Peaks:      PeakConfig{MinHeight: DefaultMinPeak},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrConfiguration, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and the fields each kind depends on.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	switch c.Kind {
	case KindOrbit:
		if len(c.Bodies) != 2 {
			return dynamo.Configf("orbit scenario needs exactly two bodies, got %d", len(c.Bodies))
		}
		if !(c.Grid.Extent > 0) {
			return dynamo.Configf("grid.extent must be positive for orbit scenarios")
		}
		if !(c.Time.Years > 0) || c.Time.Samples < 2 {
			return dynamo.Configf("time needs years > 0 and at least two samples")
		}
	case KindEllipticity:
		if c.Source.Radius <= 0 {
			return dynamo.Configf("source.radius must be positive for ellipticity scenarios")
		}
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", dynamo.ErrConfiguration, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", dynamo.ErrConfiguration, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must have %s entries", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func (c *Config) LensParams() (lens.Params, error) {
	edge, err := lens.ParseEdgePolicy(c.Lens.Edge)
	if err != nil {
		return lens.Params{}, err
	}
	p := lens.Params{
		CoreRadius:  c.Lens.CoreRadius,
		Ellipticity: c.Lens.Ellipticity,
		Domain:      c.Lens.Domain,
		Edge:        edge,
	}
	return p, p.Validate()
}

func (c *Config) IntegratorOptions() integrators.Options {
	return integrators.Options{
		Method:   c.Integrator.Method,
		RelTol:   c.Integrator.RelTol,
		MaxSteps: c.Integrator.MaxSteps,
		Substeps: c.Integrator.Substeps,
	}
}

func (b BodyConfig) Body() physics.Body {
	return physics.Body{
		Name:   b.Name,
		Mass:   b.Mass,
		Radius: b.Radius,
		Pos:    r2.Vec{X: b.X, Y: b.Y},
		Vel:    r2.Vec{X: b.VX, Y: b.VY},
		Color:  raster.Color(b.Color),
	}
}

// Scene builds the pipeline scene for an orbit scenario.
func (c *Config) Scene() (pipeline.Scene, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Scene{}, err
	}
	if c.Kind != KindOrbit {
		return pipeline.Scene{}, dynamo.Configf("scenario %q is %s, not orbit", c.Name, c.Kind)
	}

	sys, err := physics.NewSystem(c.Bodies[0].Body(), c.Bodies[1].Body(), physics.G)
	if err != nil {
		return pipeline.Scene{}, err
	}
	grid, err := raster.NewGrid(c.Grid.Size, c.Grid.Extent/2)
	if err != nil {
		return pipeline.Scene{}, err
	}
	proj, err := raster.ParseProjection(c.Projection)
	if err != nil {
		return pipeline.Scene{}, dynamo.Configf("%v", err)
	}
	lp, err := c.LensParams()
	if err != nil {
		return pipeline.Scene{}, err
	}
	times, err := pipeline.TimeGrid(c.Time.Years*physics.Year, c.Time.Samples)
	if err != nil {
		return pipeline.Scene{}, err
	}

	return pipeline.Scene{
		System:     sys,
		Camera:     raster.Camera{Grid: grid, Projection: proj},
		Lens:       lp,
		Times:      times,
		Integrator: c.IntegratorOptions(),
	}, nil
}

// DiskSource renders the centred source disk of an ellipticity scenario.
func (c *Config) DiskSource() (*raster.Image, error) {
	img, err := raster.NewImage(c.Grid.Size)
	if err != nil {
		return nil, err
	}
	mid := c.Grid.Size / 2
	if err := raster.DrawDisk(img, c.Source.Radius, mid, mid, raster.Color(c.Source.Color), raster.Overwrite); err != nil {
		return nil, err
	}
	return img, nil
}

// Ellipticities spans [0, 1) with Sweep.EpsCount points. One is excluded
// because the lens rejects it.
func (c *Config) Ellipticities() []float64 {
	n := c.Sweep.EpsCount
	if n <= 0 {
		n = DefaultEpsCount
	}
	return pipeline.Linspace(0, 1, n, true)
}

// ClusterConfig returns the galaxy settings sized to the grid.
func (c *Config) ClusterConfig() galaxy.Config {
	g := c.Cluster
	g.Size = c.Grid.Size
	return g
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	out.Sweep.Radii = append([]int(nil), c.Sweep.Radii...)
	return &out
}
