package freq

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// SpectralPeak estimates the dominant oscillation frequency from the FFT
// magnitude spectrum. It is a coarse, independent cross-check on the
// zero-crossing estimate; the pipeline compares the two and flags
// disagreement, but never substitutes this value into the physics.
type SpectralPeak struct{}

// NewSpectralPeak creates a spectral-peak estimator.
func NewSpectralPeak() *SpectralPeak {
	return &SpectralPeak{}
}

// Estimate returns the interpolated peak frequency in Hz, or NaN when the
// spectrum has no usable peak.
func (s *SpectralPeak) Estimate(signal []float64, sampleRate float64) float64 {
	if len(signal) < 4 || sampleRate <= 0 {
		return math.NaN()
	}

	spectrum := fft.FFTReal(signal)

	// Positive frequencies only, skipping the DC bin.
	half := len(spectrum) / 2
	mags := make([]float64, half)
	for i := 1; i < half; i++ {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	peakBin := 0
	peakMag := 0.0
	for i, m := range mags {
		if m > peakMag {
			peakMag = m
			peakBin = i
		}
	}
	if peakBin == 0 || peakMag == 0 {
		return math.NaN()
	}

	binWidth := sampleRate / float64(len(signal))

	// Parabolic interpolation around the peak bin for sub-bin accuracy.
	offset := 0.0
	if peakBin > 0 && peakBin < len(mags)-1 {
		left := mags[peakBin-1]
		right := mags[peakBin+1]
		denom := left - 2*peakMag + right
		if denom != 0 {
			offset = 0.5 * (left - right) / denom
		}
	}

	return (float64(peakBin) + offset) * binWidth
}
