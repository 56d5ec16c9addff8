package envelope

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/algorithms/common"
	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Stage name used in diagnostics
const Stage = "envelope"

// MinWindow is the floor on the smoothing window, in samples.
const MinWindow = 5

// Result is a smoothed amplitude-vs-time envelope of the conditioned
// signal, same length as the input and non-negative.
type Result struct {
	Envelope []float64 `json:"-"`
	Window   int       `json:"window"`
}

// Extractor rectifies a conditioned ring-down signal and smooths it with a
// moving average sized to roughly half an oscillation period, producing the
// amplitude decay curve that the exponential fit consumes.
type Extractor struct{}

// NewExtractor creates an envelope extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Compute builds the envelope. f0Guess is the nominal oscillation frequency
// used only to size the smoothing window.
func (e *Extractor) Compute(signal []float64, sampleRate, f0Guess float64) (*Result, diag.Report) {
	var report diag.Report

	if len(signal) == 0 {
		return &Result{Envelope: []float64{}, Window: MinWindow}, report
	}

	rectified := common.Abs(signal)

	if common.StandardDeviation(rectified) < 1e-3 {
		report = report.Add(Stage,
			"envelope magnitude is almost flat",
			"check conditioning; the capture may not contain a decay")
	}

	window := MinWindow
	if f0Guess > 0 && sampleRate > 0 {
		samplesPerPeriod := sampleRate / f0Guess
		if half := int(math.Floor(samplesPerPeriod / 2)); half > window {
			window = half
		} else if half < MinWindow {
			report = report.Add(Stage,
				"smoothing window is very small",
				"frequency guess may be too large or incorrect")
		}
	} else {
		report = report.Add(Stage,
			"no usable frequency guess to size the smoothing window",
			"pass a positive sample rate and nominal frequency")
	}

	if window > len(rectified)/4 {
		report = report.Add(Stage,
			"smoothing window too large, envelope may lose detail",
			"check the frequency guess or capture a longer decay")
	}

	return &Result{
		Envelope: movingAverageSame(rectified, window),
		Window:   window,
	}, report
}

// movingAverageSame applies a centered length-M box average with
// zero-padding at the edges, matching "same"-mode convolution: every output
// sample divides by M, so the first and last half-window of samples are
// biased toward zero. The fit guard interval skips that region.
func movingAverageSame(data []float64, window int) []float64 {
	n := len(data)
	if window > n {
		window = n
	}
	if window <= 1 {
		out := make([]float64, n)
		copy(out, data)
		return out
	}

	// Centered bounds for kernel length M: [i-lo, i+hi] with lo+hi+1 = M.
	lo := window / 2
	hi := window - 1 - lo

	out := make([]float64, n)
	for i := range out {
		sum := 0.0
		for j := i - lo; j <= i+hi; j++ {
			if j >= 0 && j < n {
				sum += data[j]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}
