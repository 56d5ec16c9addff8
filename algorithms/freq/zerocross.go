package freq

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/algorithms/common"
	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Stage name used in diagnostics
const Stage = "freq"

// Plausible transducer band. Estimates outside it are reported but still
// returned; values this far out usually mean corrupted crossing detection.
const (
	BandLowHz  = 1e5
	BandHighHz = 5e7
)

// jitterFraction flags irregular crossing spacing: the standard deviation
// of inter-crossing intervals should stay under this fraction of their mean
// for a clean tone.
const jitterFraction = 0.1

// Params configures the zero-crossing estimator.
type Params struct {
	// MinCrossings is the minimum number of sign changes required before
	// a frequency is reported at all.
	MinCrossings int `json:"min_crossings"`
}

// DefaultParams returns the estimator defaults.
func DefaultParams() Params {
	return Params{MinCrossings: 6}
}

// Estimate is the measured oscillation frequency. F0 is NaN with CyclesUsed
// zero when too few clean crossings exist; that is this stage's terminal
// failure path.
type Estimate struct {
	F0         float64 `json:"f0_hz"`
	CyclesUsed int     `json:"cycles_used"`

	// CrossingTimes holds the interpolated crossing instants in seconds,
	// exposed for inspection sinks. Nil on the failure path.
	CrossingTimes []float64 `json:"-"`
}

// Valid reports whether the estimate carries a usable frequency.
func (e *Estimate) Valid() bool {
	return !math.IsNaN(e.F0)
}

// Estimator measures the oscillation frequency of a conditioned (not
// enveloped) ring-down signal from its zero-crossing timing. A decaying
// sine crosses zero every half-period, so the full period is twice the
// mean inter-crossing interval.
type Estimator struct {
	params Params
}

// NewEstimator creates an estimator with default parameters.
func NewEstimator() *Estimator {
	return &Estimator{params: DefaultParams()}
}

// NewEstimatorWithParams creates an estimator with custom parameters.
func NewEstimatorWithParams(params Params) *Estimator {
	return &Estimator{params: params}
}

// Estimate measures f0 from the signal.
func (e *Estimator) Estimate(signal []float64, sampleRate float64) (*Estimate, diag.Report) {
	var report diag.Report
	invalid := &Estimate{F0: math.NaN()}

	// Sign changes between consecutive samples, either direction.
	// Signbit-based, so a -0.0/+0.0 flip counts as a crossing.
	var crossings []int
	for k := 0; k+1 < len(signal); k++ {
		if math.Signbit(signal[k]) != math.Signbit(signal[k+1]) {
			crossings = append(crossings, k)
		}
	}

	if len(crossings) < e.params.MinCrossings {
		return invalid, report.Add(Stage,
			"not enough zero-crossings detected",
			"check conditioning or capture slicing; decay may be too short")
	}

	// Sub-sample crossing instants by linear interpolation between the
	// bracketing samples.
	times := make([]float64, len(crossings))
	for i, k := range crossings {
		x0, x1 := signal[k], signal[k+1]
		frac := x0 / (x0 - x1 + common.Eps)
		times[i] = (float64(k) + frac) / sampleRate
	}

	intervals := common.Diff(times)

	if mean := common.Mean(intervals); mean > 0 &&
		common.StandardDeviation(intervals) > jitterFraction*mean {
		report = report.Add(Stage,
			"zero-crossing intervals vary a lot",
			"inspect the waveform for noise or clipping and verify the frequency guess")
	}

	if len(intervals) < 2 {
		return invalid, report.Add(Stage,
			"too few intervals for a reliable frequency estimate",
			"ensure the decay contains multiple clean oscillations")
	}

	// Successive crossings are half-periods.
	period := 2.0 * common.Mean(intervals)
	f0 := 1.0 / period

	if f0 < BandLowHz || f0 > BandHighHz {
		report = report.Add(Stage,
			"estimated frequency outside the expected transducer band",
			"likely incorrect crossing detection; inspect the conditioned waveform")
	}

	return &Estimate{
		F0:            f0,
		CyclesUsed:    len(intervals) + 1,
		CrossingTimes: times,
	}, report
}
