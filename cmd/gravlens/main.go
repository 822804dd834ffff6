package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlens/internal/config"
	"github.com/san-kum/gravlens/internal/observability"
)

var (
	dataDir     string
	configFile  string
	verbose     bool
	noSave      bool
	outDir      string
	frameDir    string
	pngEvery    int
	pngScale    int
	svgPath     string
	metricsFile string
	sourceImage string
	radii       []int

	logger zerolog.Logger
)

// main registers the gravlens commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "gravlens",
		Short:         "gravitational lensing of orbiting bodies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = observability.InitLoggerTo(os.Stderr, "gravlens", level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlens", "data directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&noSave, "no-save", false, "do not store the run")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "render, lens and measure an orbit scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOrbit,
	}
	runCmd.Flags().StringVar(&frameDir, "png", "", "write lensed frames as PNG into this directory")
	runCmd.Flags().IntVar(&pngEvery, "png-every", 1, "write every n-th frame")
	runCmd.Flags().IntVar(&pngScale, "png-scale", 1, "PNG upscaling factor")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the light curve as SVG")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run an orbit scenario in the terminal view (q stops)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	radiusCmd := &cobra.Command{
		Use:   "sweep-radius [preset]",
		Short: "estimate the transit radius ratio for several planet radii",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRadius,
	}
	radiusCmd.Flags().IntSliceVar(&radii, "radii", nil, "pixel radii to try (overrides the scenario)")

	epsCmd := &cobra.Command{
		Use:   "sweep-eps [preset]",
		Short: "lensed brightness of a disk source against ellipticity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepEllipticity,
	}
	epsCmd.Flags().StringVar(&svgPath, "svg", "", "write the curve as SVG")

	clusterCmd := &cobra.Command{
		Use:   "cluster [preset]",
		Short: "lens a random galaxy cluster or a source image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lensCluster,
	}
	clusterCmd.Flags().StringVar(&outDir, "out", ".", "directory for source.png and lensed.png")
	clusterCmd.Flags().IntVar(&pngScale, "png-scale", 1, "PNG upscaling factor")
	clusterCmd.Flags().StringVar(&sourceImage, "source", "", "lens this image instead of a generated cluster")

	magCmd := &cobra.Command{
		Use:   "magmap [preset]",
		Short: "count how often the lens samples each source pixel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  magnificationMap,
	}
	magCmd.Flags().StringVar(&outDir, "out", ".", "directory for magnification.png")
	magCmd.Flags().IntVar(&pngScale, "png-scale", 1, "PNG upscaling factor")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the tables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-14s %s\n", name, cfg.Kind)
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save-preset [preset] [file]",
		Short: "write a built-in scenario to a yaml file for editing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			return config.Save(args[1], cfg)
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, radiusCmd, epsCmd, clusterCmd, magCmd, listCmd, plotCmd, exportCmd, presetsCmd, saveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// loadScenario resolves the scenario from --config or a preset name and
// checks that it has the wanted kind.
func loadScenario(args []string, fallback, kind string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	default:
		name := fallback
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if cfg.Kind != kind {
		return nil, fmt.Errorf("scenario %q is %s, this command needs %s", cfg.Name, cfg.Kind, kind)
	}
	return cfg, nil
}
