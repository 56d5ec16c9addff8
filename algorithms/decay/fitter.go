package decay

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/algorithms/common"
	"github.com/RyanBlaney/qcm-ringdown/diag"
)

// Stage name used in diagnostics
const Stage = "decay"

// Diagnostic thresholds for the exponential fit
const (
	// Fit windows shorter than this give an unreliable slope.
	minFitSamples = 20

	// RMSE above this (in normalized envelope units) marks a poor fit.
	maxRMSE = 0.05
)

// Params configures the fit-window selection.
type Params struct {
	// GuardPeriods is the number of oscillation periods skipped at the
	// start of the envelope, past the smoothing edge region.
	GuardPeriods int `json:"guard_periods"`

	// DropFrac stops the fit where the envelope has fallen to this
	// fraction of its value at the window start.
	DropFrac float64 `json:"drop_frac"`
}

// DefaultParams returns the fit defaults.
func DefaultParams() Params {
	return Params{GuardPeriods: 3, DropFrac: 0.1}
}

// Window delimits the envelope region [I0, I1) used for fitting.
type Window struct {
	I0 int `json:"i0"`
	I1 int `json:"i1"`
}

// Len returns the number of samples in the window.
func (w Window) Len() int {
	return w.I1 - w.I0
}

// Estimate holds the exponential-decay fit results.
//
// Tau is the decay time constant in seconds. QEnv is π·f0Guess·Tau, the
// quality factor derived from the nominal frequency guess; the pipeline
// recombines Q with the measured frequency before deriving linewidths.
// A non-positive Tau is a detected anomaly, not a hard failure: the values
// are still returned so callers can decide how to react.
type Estimate struct {
	Tau       float64   `json:"tau_s"`
	QEnv      float64   `json:"q_env"`
	RMSE      float64   `json:"fit_rmse"`
	Window    Window    `json:"window"`
	Intercept float64   `json:"intercept"`
	Slope     float64   `json:"slope"`
	Predicted []float64 `json:"-"`
}

// Fitter fits an amplitude envelope to A(t) = A0·exp(-t/τ) by log-linear
// least squares.
type Fitter struct {
	params Params
}

// NewFitter creates a fitter with default parameters.
func NewFitter() *Fitter {
	return &Fitter{params: DefaultParams()}
}

// NewFitterWithParams creates a fitter with custom parameters.
func NewFitterWithParams(params Params) *Fitter {
	return &Fitter{params: params}
}

// Fit estimates the decay constant from the envelope. f0Guess is the nominal
// oscillation frequency used for the guard interval and QEnv.
func (f *Fitter) Fit(env []float64, sampleRate, f0Guess float64) (*Estimate, diag.Report) {
	var report diag.Report

	if len(env) == 0 {
		return &Estimate{Tau: math.NaN(), QEnv: math.NaN(), RMSE: math.NaN()}, report.Add(Stage,
			"empty envelope, nothing to fit",
			"check the envelope stage input")
	}

	samplesPerPeriod := 0
	if f0Guess > 0 {
		samplesPerPeriod = int(sampleRate / f0Guess)
	}

	i0 := f.params.GuardPeriods * samplesPerPeriod
	if i0 >= len(env) {
		report = report.Add(Stage,
			"guard interval leaves no envelope to fit",
			"reduce guard periods (1-3) or verify the frequency guess")
		i0 = 0
	}

	// Scan for the drop-fraction cutoff past the guard interval.
	env0 := env[i0]
	i1 := len(env)
	for i := i0; i < len(env); i++ {
		if env[i] <= env0*f.params.DropFrac {
			i1 = i
			break
		}
	}
	window := Window{I0: i0, I1: i1}

	if window.Len() < minFitSamples {
		report = report.Add(Stage,
			"very short fitting region, fit may be inaccurate",
			"capture a longer decay or reduce the drop fraction")
	}

	// Linearize: ln(E(t)) = ln(A0) - t/τ, then straight-line fit.
	segment := env[i0:i1]
	t := make([]float64, len(segment))
	lnY := make([]float64, len(segment))
	for i, v := range segment {
		t[i] = float64(i0+i) / sampleRate
		lnY[i] = math.Log(v + common.Eps)
	}

	intercept, slope := common.LinearFit(t, lnY)

	tau := math.NaN()
	if slope != 0 {
		tau = -1.0 / slope
	}
	qEnv := math.Pi * f0Guess * tau

	// Fit error is measured in the linear domain against the envelope.
	predicted := make([]float64, len(segment))
	sumSq := 0.0
	for i := range segment {
		predicted[i] = math.Exp(intercept + slope*t[i])
		d := segment[i] - predicted[i]
		sumSq += d * d
	}
	rmse := math.NaN()
	if len(segment) > 0 {
		rmse = math.Sqrt(sumSq / float64(len(segment)))
	}

	if rmse > maxRMSE {
		report = report.Add(Stage,
			"RMSE indicates a poor exponential fit",
			"check envelope smoothing or the frequency guess")
	}
	if tau < 0 {
		report = report.Add(Stage,
			"negative decay constant detected, incorrect fit",
			"inspect the envelope for noise or an inverted signal")
	}

	return &Estimate{
		Tau:       tau,
		QEnv:      qEnv,
		RMSE:      rmse,
		Window:    window,
		Intercept: intercept,
		Slope:     slope,
		Predicted: predicted,
	}, report
}
