package ringdown

import (
	"github.com/RyanBlaney/qcm-ringdown/algorithms/condition"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/decay"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/envelope"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/freq"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/metrics"
	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Result is everything one analysis run produced: stage outputs, the
// recombined quality factor, and the merged diagnostic report. The
// intermediate arrays are exposed for visualization sinks; the core has no
// dependency on whether or how they are rendered.
type Result struct {
	Segment     Segment
	Conditioned *condition.Result
	Envelope    *envelope.Result
	Decay       *decay.Estimate
	Frequency   *freq.Estimate

	// SpectralF0 is the FFT cross-check estimate, NaN when unavailable.
	// It is diagnostic only and never feeds the derived metrics.
	SpectralF0 float64

	// Q is the quality factor recombined as π·f0·τ from the measured
	// frequency, not the nominal guess behind Decay.QEnv.
	Q float64

	Damping *metrics.Damping
	Report  diag.Report
}

// FitOverlay returns the envelope fit window and the predicted exponential
// over it, aligned so overlay[i] corresponds to envelope index window.I0+i.
func (r *Result) FitOverlay() (decay.Window, []float64) {
	return r.Decay.Window, r.Decay.Predicted
}

// Zoom returns the initial span of the conditioned signal covered by the
// configured zoom window, for quick visual inspection of oscillation shape,
// noise and clipping.
func (r *Result) Zoom(config Config) []float64 {
	n := int(config.ZoomWindow.Seconds() * r.Segment.SampleRate)
	if n > len(r.Conditioned.Signal) {
		n = len(r.Conditioned.Signal)
	}
	if n < 0 {
		n = 0
	}
	return r.Conditioned.Signal[:n]
}

// LinewidthPair returns the two independently derived linewidth estimates
// for side-by-side comparison sinks.
func (r *Result) LinewidthPair() (dfTau, dfQ float64) {
	return r.Damping.LinewidthTau, r.Damping.LinewidthQ
}
