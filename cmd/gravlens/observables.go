package main

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/photometry"
	"github.com/san-kum/gravlens/internal/pipeline"
)

// orbitObservables derives the scalar results of an orbit run. Quantities
// the series cannot support are logged and left out.
func orbitObservables(res *pipeline.Result, minPeak float64, log zerolog.Logger) map[string]float64 {
	obs := make(map[string]float64)
	put := func(name string, v float64, err error) {
		if err != nil {
			if errors.Is(err, dynamo.ErrDegenerateSeries) {
				log.Debug().Str("observable", name).Err(err).Msg("skipped")
				return
			}
			log.Warn().Str("observable", name).Err(err).Msg("failed")
			return
		}
		obs[name] = v
	}

	v, err := photometry.TransitDepthRatio(res.Raw)
	put("depth_ratio_raw", v, err)
	v, err = photometry.TransitDepthRatio(res.Lensed)
	put("depth_ratio_lensed", v, err)

	for _, s := range []struct {
		name   string
		series []float64
	}{{"raw", res.Raw}, {"lensed", res.Lensed}} {
		peaks := photometry.FindPeaks(s.series, minPeak)
		obs["peaks_"+s.name] = float64(len(peaks))
		v, err := photometry.PeakMagnificationRatio(s.series, peaks)
		put("peak_ratio_"+s.name, v, err)
	}

	v, err = photometry.MeanMagnification(res.Lensed, res.Raw)
	put("mean_magnification", v, err)

	if res.Trajectory != nil {
		obs["energy_drift"] = res.Trajectory.EnergyDrift()
	}
	return obs
}
