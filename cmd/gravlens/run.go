package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlens/internal/config"
	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/export"
	"github.com/san-kum/gravlens/internal/observability"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/physics"
	"github.com/san-kum/gravlens/internal/pipeline"
	"github.com/san-kum/gravlens/internal/storage"
	"github.com/san-kum/gravlens/internal/tui"
)

func runOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "transit", config.KindOrbit)
	if err != nil {
		return err
	}
	scene, err := cfg.Scene()
	if err != nil {
		return err
	}

	runner := pipeline.New(scene).WithLogger(logger)

	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		m, err := observability.NewMetrics(reg, cfg.Name)
		if err != nil {
			return err
		}
		m.Start()
		runner.AddObserver(m)
	}

	if frameDir != "" {
		if err := os.MkdirAll(frameDir, 0755); err != nil {
			return err
		}
		runner.AddObserver(framePNGWriter(frameDir, max(pngEvery, 1), pngScale))
	}

	logger.Info().
		Str("scenario", cfg.Name).
		Int("grid", cfg.Grid.Size).
		Int("frames", len(scene.Times)).
		Str("lens", scene.Lens.String()).
		Msg("running")
	start := time.Now()

	res, runErr := runner.Run(cmd.Context())
	if runErr != nil && (res == nil || !errors.Is(runErr, dynamo.ErrContextCanceled)) {
		return runErr
	}
	if runErr != nil {
		logger.Warn().Err(runErr).Msg("keeping partial result")
	}

	logger.Info().Dur("elapsed", time.Since(start)).Int("frames", res.Frames()).Msg("done")

	if reg != nil {
		if err := observability.WriteTextfile(metricsFile, reg); err != nil {
			return err
		}
	}

	return reportOrbit(cfg, res)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "transit", config.KindOrbit)
	if err != nil {
		return err
	}
	scene, err := cfg.Scene()
	if err != nil {
		return err
	}

	res, runErr := tui.Run(cmd.Context(), pipeline.New(scene), cfg.Name)
	if res == nil {
		return runErr
	}
	if runErr != nil && !errors.Is(runErr, dynamo.ErrContextCanceled) {
		return runErr
	}
	return reportOrbit(cfg, res)
}

// reportOrbit prints the observables and light curve of an orbit run and
// stores it unless --no-save is set.
func reportOrbit(cfg *config.Config, res *pipeline.Result) error {
	obs := orbitObservables(res, cfg.Peaks.MinHeight, logger)

	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("frames: %d", res.Frames())
	if !res.Complete() {
		fmt.Printf(" (stopped early)")
	}
	fmt.Println()

	if res.Frames() > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany([][]float64{res.Raw, res.Lensed},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
			asciigraph.Caption("brightness: raw (green) / lensed (cyan)"),
		))
	}

	printObservables(obs)

	if svgPath != "" {
		years := make([]float64, len(res.Times))
		for k, t := range res.Times {
			years[k] = t / physics.Year
		}
		svg := export.LightCurveSVG(years, []export.Curve{
			{Name: "lensed", Values: res.Lensed, Stroke: "#00bcd4"},
			{Name: "raw", Values: res.Raw, Stroke: "#4caf50"},
		}, photometry.FindPeaks(res.Lensed, cfg.Peaks.MinHeight), 800, 400)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info().Str("path", svgPath).Msg("light curve written")
	}

	if noSave {
		return nil
	}
	meta := storage.RunMetadata{
		Scenario:    cfg.Name,
		Kind:        cfg.Kind,
		GridSize:    cfg.Grid.Size,
		Lens:        lensLabel(cfg),
		Integrator:  cfg.Integrator.Method,
		Frames:      res.Frames(),
		Complete:    res.Complete(),
		Observables: obs,
	}
	return save(meta, storage.Series(res), storage.Trajectory(res.Trajectory))
}

func framePNGWriter(dir string, every, scale int) pipeline.Observer {
	return pipeline.ObserverFunc(func(f *pipeline.Frame) {
		if f.Index%every != 0 {
			return
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", f.Index))
		opts := export.FrameOptions{Scale: scale, Label: fmt.Sprintf("t=%.3f yr", f.Time/physics.Year)}
		if err := export.WritePNG(path, f.Lensed, opts); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("frame not written")
		}
	})
}

// lensLabel describes the lens of an already validated scenario.
func lensLabel(cfg *config.Config) string {
	p, err := cfg.LensParams()
	if err != nil {
		return "invalid"
	}
	return p.String()
}

func printObservables(obs map[string]float64) {
	if len(obs) == 0 {
		return
	}
	names := make([]string, 0, len(obs))
	for name := range obs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nobservables:")
	for _, name := range names {
		fmt.Printf("  %-20s %.6g\n", name, obs[name])
	}
}

func save(meta storage.RunMetadata, tables ...storage.Table) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(meta, tables...)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", id)
	return nil
}
