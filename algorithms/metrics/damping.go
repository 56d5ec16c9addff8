package metrics

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Stage name used in diagnostics
const Stage = "metrics"

// Diagnostic thresholds for the derived quantities
const (
	// Linewidths below this mark an implausibly slow decay, above the
	// upper bound an implausibly fast one.
	minLinewidthHz = 0.1
	maxLinewidthHz = 1e5

	// Relative disagreement tolerance between the two independent
	// linewidth estimates.
	maxLinewidthMismatch = 0.30
)

// Damping holds the derived damping quantities. All fields are NaN when a
// precondition on τ, f0 or Q is violated.
type Damping struct {
	// Alpha is the damping factor 1/τ.
	Alpha float64 `json:"alpha"`

	// LinewidthTau is the resonance linewidth 1/(2πτ), derived from the
	// decay fit alone.
	LinewidthTau float64 `json:"df_tau"`

	// LinewidthQ is the resonance linewidth f0/Q, derived from the
	// measured frequency and the recombined quality factor.
	LinewidthQ float64 `json:"df_q"`
}

// Valid reports whether the metrics were computed.
func (d *Damping) Valid() bool {
	return !math.IsNaN(d.Alpha)
}

// Compute derives damping factor and the two linewidth estimates from the
// decay constant, the measured frequency, and the recombined quality factor
// Q = π·f0·τ. Each violated precondition yields its own diagnostic; on any
// violation all outputs are NaN and no further arithmetic runs.
//
// Q deliberately uses the frequency estimator's f0 rather than the fit's
// QEnv (which is built on the nominal guess): the τ-based and Q-based
// linewidths are then independent enough that their disagreement check can
// catch an upstream error in either the fit window or the crossing timing.
func Compute(tau, f0, q float64) (*Damping, diag.Report) {
	var report diag.Report
	invalid := &Damping{
		Alpha:        math.NaN(),
		LinewidthTau: math.NaN(),
		LinewidthQ:   math.NaN(),
	}

	if math.IsNaN(tau) || math.IsInf(tau, 0) || tau <= 0 {
		return invalid, report.Add(Stage,
			"decay constant is non-positive, cannot compute damping or linewidth",
			"check the exponential fit; the envelope may be corrupted")
	}
	if math.IsNaN(f0) || math.IsInf(f0, 0) || f0 <= 0 {
		return invalid, report.Add(Stage,
			"frequency is invalid, cannot compute linewidth",
			"check zero-crossing detection; the signal may be too noisy")
	}
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return invalid, report.Add(Stage,
			"quality factor is invalid, cannot compute Q-based linewidth",
			"check the decay fit and frequency estimate for consistency")
	}

	alpha := 1.0 / tau
	dfTau := 1.0 / (2 * math.Pi * tau)
	dfQ := f0 / q

	if dfTau < minLinewidthHz {
		report = report.Add(Stage,
			"tau-based linewidth extremely small (<0.1 Hz)",
			"decay too slow or envelope oversmoothed; check the smoothing window")
	}
	if dfTau > maxLinewidthHz {
		report = report.Add(Stage,
			"tau-based linewidth very large (>100 kHz)",
			"decay segment too short or noisy; check the capture slicing")
	}

	if mismatch := math.Abs(dfTau-dfQ) / math.Max(dfTau, dfQ); mismatch > maxLinewidthMismatch {
		report = report.Add(Stage,
			"tau-based and Q-based linewidths differ by more than 30%",
			"check the fit window and the measured frequency for consistency")
	}

	return &Damping{
		Alpha:        alpha,
		LinewidthTau: dfTau,
		LinewidthQ:   dfQ,
	}, report
}
