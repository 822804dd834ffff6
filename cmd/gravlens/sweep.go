package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlens/internal/config"
	"github.com/san-kum/gravlens/internal/export"
	"github.com/san-kum/gravlens/internal/pipeline"
	"github.com/san-kum/gravlens/internal/raster"
	"github.com/san-kum/gravlens/internal/storage"
)

func sweepRadius(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "transit", config.KindOrbit)
	if err != nil {
		return err
	}
	if len(radii) > 0 {
		cfg.Sweep.Radii = radii
	}
	scene, err := cfg.Scene()
	if err != nil {
		return err
	}

	logger.Info().
		Str("scenario", cfg.Name).
		Int("body", cfg.Sweep.Body).
		Ints("radii", cfg.Sweep.Radii).
		Msg("radius sweep")

	points, err := pipeline.RadiusSweep(cmd.Context(), scene, cfg.Sweep.Body, cfg.Sweep.Radii)
	if err != nil {
		return err
	}

	star := cfg.Bodies[1-cfg.Sweep.Body].Radius
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RADIUS\tTRUE\tRAW\tLENSED")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", p.Radius, float64(p.Radius)/float64(star), p.Raw, p.Lensed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if noSave {
		return nil
	}
	return save(storage.RunMetadata{
		Scenario:   cfg.Name,
		Kind:       "radius-sweep",
		GridSize:   cfg.Grid.Size,
		Lens:       lensLabel(cfg),
		Integrator: cfg.Integrator.Method,
		Frames:     len(scene.Times),
		Complete:   true,
	}, storage.Radius(points))
}

func sweepEllipticity(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "ellipticity", config.KindEllipticity)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	src, err := cfg.DiskSource()
	if err != nil {
		return err
	}
	base, err := cfg.LensParams()
	if err != nil {
		return err
	}
	eps := cfg.Ellipticities()

	logger.Info().Str("scenario", cfg.Name).Int("points", len(eps)).Str("lens", base.String()).Msg("ellipticity sweep")

	points, err := pipeline.EllipticitySweep(cmd.Context(), src, base, eps)
	if err != nil {
		return err
	}

	change := make([]float64, len(points))
	for i, p := range points {
		change[i] = p.Change
	}
	fmt.Println(asciigraph.Plot(change,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("fractional brightness change, eps 0 to %.3f", eps[len(eps)-1])),
	))
	printObservables(map[string]float64{
		"change_eps0":   change[0],
		"change_last":   change[len(change)-1],
		"source_pixels": float64(raster.DiskArea(cfg.Source.Radius)),
	})

	if svgPath != "" {
		svg := export.LightCurveSVG(eps, []export.Curve{{Name: "change", Values: change, Stroke: "#ff5252"}}, nil, 800, 400)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
	}

	if noSave {
		return nil
	}
	return save(storage.RunMetadata{
		Scenario: cfg.Name,
		Kind:     cfg.Kind,
		GridSize: cfg.Grid.Size,
		Lens:     base.String(),
		Frames:   len(points),
		Complete: true,
	}, storage.Ellipticity(points))
}
