// Package photometry turns rendered frames into brightness series and
// extracts transit and magnification observables from them.
package photometry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/raster"
)

// FullScale is the per-channel value of a fully lit 8-bit pixel.
const FullScale = 255.0

// TotalBrightness sums every channel of every pixel. Values above
// FullScale from additive composition are kept.
func TotalBrightness(img *raster.Image) float64 {
	return floats.Sum(img.Pix)
}

// Normalized is TotalBrightness in units of one full-scale channel.
func Normalized(img *raster.Image) float64 {
	return TotalBrightness(img) / FullScale
}

// TransitDepthRatio estimates the radius ratio of a transiting body from
// the fractional dip depth. series[0] must be the out-of-transit baseline.
func TransitDepthRatio(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, dynamo.Degeneratef("empty series")
	}
	base := series[0]
	if !(base > 0) {
		return 0, dynamo.Degeneratef("baseline must be positive, got %g", base)
	}
	depth := (base - floats.Min(series)) / base
	return math.Sqrt(depth), nil
}

// FindPeaks returns the indices of strict local maxima whose value is at
// least minHeight. A flat top counts once, at the middle of the plateau
// (rounded down). The first and last samples are never peaks.
func FindPeaks(series []float64, minHeight float64) []int {
	var peaks []int
	n := len(series)
	i := 1
	for i < n-1 {
		if series[i-1] >= series[i] {
			i++
			continue
		}
		// rising edge into i; walk the plateau
		j := i
		for j+1 < n-1 && series[j+1] == series[i] {
			j++
		}
		if j+1 < n && series[j+1] < series[i] && series[i] >= minHeight {
			peaks = append(peaks, (i+j)/2)
		}
		i = j + 1
	}
	return peaks
}

// PeakMagnificationRatio compares the excursions of the first two peaks
// above the baseline series[0].
func PeakMagnificationRatio(series []float64, peaks []int) (float64, error) {
	if len(peaks) < 2 {
		return 0, dynamo.Degeneratef("need two peaks, got %d", len(peaks))
	}
	for _, p := range peaks[:2] {
		if p < 0 || p >= len(series) {
			return 0, dynamo.Degeneratef("peak index %d outside series of length %d", p, len(series))
		}
	}
	base := series[0]
	den := series[peaks[1]] - base
	if den == 0 {
		return 0, dynamo.Degeneratef("second peak at index %d does not rise above baseline", peaks[1])
	}
	return (series[peaks[0]] - base) / den, nil
}

// FractionalChange returns (s - baseline)/baseline for every sample.
func FractionalChange(series []float64, baseline float64) ([]float64, error) {
	if baseline == 0 || math.IsNaN(baseline) {
		return nil, dynamo.Degeneratef("baseline must be non-zero, got %g", baseline)
	}
	out := make([]float64, len(series))
	copy(out, series)
	floats.AddConst(-baseline, out)
	floats.Scale(1/baseline, out)
	return out, nil
}

// MeanMagnification is the mean of lensed[k]/unlensed[k].
func MeanMagnification(lensed, unlensed []float64) (float64, error) {
	if len(lensed) == 0 {
		return 0, dynamo.Degeneratef("empty series")
	}
	if len(lensed) != len(unlensed) {
		return 0, dynamo.Configf("series lengths differ: %d vs %d", len(lensed), len(unlensed))
	}
	for k, u := range unlensed {
		if u == 0 {
			return 0, dynamo.Degeneratef("unlensed sample %d is zero", k)
		}
	}
	ratio := make([]float64, len(lensed))
	floats.DivTo(ratio, lensed, unlensed)
	return floats.Sum(ratio) / float64(len(ratio)), nil
}
