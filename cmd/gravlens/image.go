package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravlens/internal/config"
	"github.com/san-kum/gravlens/internal/export"
	"github.com/san-kum/gravlens/internal/galaxy"
	"github.com/san-kum/gravlens/internal/lens"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/raster"
	"github.com/san-kum/gravlens/internal/storage"
)

func lensCluster(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "cluster", config.KindCluster)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := cfg.LensParams()
	if err != nil {
		return err
	}

	var (
		src    *raster.Image
		tables []storage.Table
	)
	if sourceImage != "" {
		src, err = export.LoadImage(sourceImage)
		if err != nil {
			return err
		}
		logger.Info().Str("path", sourceImage).Int("rows", src.Rows).Int("cols", src.Cols).Msg("source loaded")
	} else {
		var gs []galaxy.Galaxy
		src, gs, err = galaxy.Generate(cfg.ClusterConfig())
		if err != nil {
			return err
		}
		tables = append(tables, storage.Galaxies(gs))
		logger.Info().Int("galaxies", len(gs)).Uint64("seed", cfg.Cluster.Seed).Msg("cluster generated")
	}

	lensed, err := lens.Transform(src, p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for name, img := range map[string]*raster.Image{"source.png": src, "lensed.png": lensed} {
		path := filepath.Join(outDir, name)
		if err := export.WritePNG(path, img, export.FrameOptions{Scale: pngScale}); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("written")
	}

	raw, out := photometry.Normalized(src), photometry.Normalized(lensed)
	obs := map[string]float64{"brightness_source": raw, "brightness_lensed": out}
	if raw != 0 {
		obs["magnification"] = out / raw
	}
	printObservables(obs)

	if noSave {
		return nil
	}
	return save(storage.RunMetadata{
		Scenario:    cfg.Name,
		Kind:        cfg.Kind,
		GridSize:    src.Rows,
		Lens:        p.String(),
		Frames:      1,
		Complete:    true,
		Observables: obs,
	}, tables...)
}

func magnificationMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args, "magnification", config.KindMagnification)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := cfg.LensParams()
	if err != nil {
		return err
	}

	m, err := lens.MagnificationMap(cfg.Grid.Size, p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(outDir, "magnification.png")
	label := fmt.Sprintf("max %d", m.Max())
	if err := export.WritePNG(path, m.Image(), export.FrameOptions{Scale: pngScale, Label: label}); err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("written")

	obs := map[string]float64{
		"max_count":     float64(m.Max()),
		"sampled_total": float64(m.Total()),
		"pixels":        float64(m.N * m.N),
	}
	printObservables(obs)

	if noSave {
		return nil
	}
	return save(storage.RunMetadata{
		Scenario:    cfg.Name,
		Kind:        cfg.Kind,
		GridSize:    cfg.Grid.Size,
		Lens:        p.String(),
		Frames:      1,
		Complete:    true,
		Observables: obs,
	})
}
