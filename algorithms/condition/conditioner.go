package condition

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/algorithms/common"
	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Stage name used in diagnostics
const Stage = "condition"

// Thresholds for the conditioning diagnostics
const (
	// DC offset larger than this fraction of the raw peak hints at a
	// hardware bias or a mis-sliced capture window.
	dcBiasFraction = 0.05

	// Peak amplitudes below this are too weak to carry a usable decay.
	weakPeak = 1e-4

	// Standard deviation below this means the block is essentially flat.
	flatStd = 1e-3
)

// Params configures signal conditioning.
type Params struct {
	// Normalize divides the DC-removed signal by its peak magnitude so the
	// envelope fit works in a unit amplitude scale.
	Normalize bool `json:"normalize"`
}

// DefaultParams returns the conditioning defaults.
func DefaultParams() Params {
	return Params{Normalize: true}
}

// Result is the conditioned signal with the measured corrections.
type Result struct {
	Signal     []float64 `json:"-"`
	DCOffset   float64   `json:"dc_offset"`
	Peak       float64   `json:"peak"`
	Normalized bool      `json:"normalized"`
}

// Conditioner removes the DC bias from a ring-down block and optionally
// normalizes its amplitude. Conditioning always succeeds on finite input;
// degenerate blocks come back flat with warnings attached.
type Conditioner struct {
	params Params
}

// NewConditioner creates a conditioner with default parameters.
func NewConditioner() *Conditioner {
	return &Conditioner{params: DefaultParams()}
}

// NewConditionerWithParams creates a conditioner with custom parameters.
func NewConditionerWithParams(params Params) *Conditioner {
	return &Conditioner{params: params}
}

// Process conditions one block of samples. The input is not modified.
func (c *Conditioner) Process(samples []float64) (*Result, diag.Report) {
	var report diag.Report

	if len(samples) == 0 {
		return &Result{Signal: []float64{}}, report
	}

	dc := common.Mean(samples)
	rawPeak := common.Peak(samples)

	if math.Abs(dc) > dcBiasFraction*rawPeak {
		report = report.Add(Stage,
			"DC offset is large relative to signal amplitude",
			"check hardware bias or the capture slicing indices")
	}

	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = v - dc
	}

	peak := common.Peak(out)
	normalized := false
	if c.params.Normalize && peak > 0 {
		for i := range out {
			out[i] /= peak
		}
		normalized = true
	}

	if peak < weakPeak {
		report = report.Add(Stage,
			"signal amplitude is extremely small",
			"capture window may be wrong or drive amplitude too low")
	}

	if common.StandardDeviation(out) < flatStd {
		report = report.Add(Stage,
			"signal looks almost flat, very low variation",
			"check that the capture contains the decay segment")
	}

	return &Result{
		Signal:     out,
		DCOffset:   dc,
		Peak:       peak,
		Normalized: normalized,
	}, report
}
