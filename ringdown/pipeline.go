package ringdown

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/algorithms/condition"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/decay"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/envelope"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/freq"
	"github.com/RyanBlaney/qcm-ringdown/algorithms/metrics"
	"github.com/RyanBlaney/qcm-ringdown/diag"
	"github.com/RyanBlaney/qcm-ringdown/logging"
)

// spectralMismatch is the relative disagreement between the zero-crossing
// and spectral-peak frequency estimates above which a diagnostic is raised.
const spectralMismatch = 0.05

// Pipeline runs the full ring-down analysis: conditioning, envelope
// extraction, exponential decay fit, zero-crossing frequency estimation,
// and derived damping metrics. Every stage is a pure transformation; the
// pipeline threads outputs between them in dependency order and merges
// their diagnostics into one report.
//
// A Pipeline is cheap to construct and not safe for concurrent Analyze
// calls; create one per goroutine if needed.
type Pipeline struct {
	config Config

	conditioner *condition.Conditioner
	extractor   *envelope.Extractor
	fitter      *decay.Fitter
	estimator   *freq.Estimator
	spectral    *freq.SpectralPeak

	logger logging.Logger
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		config: config,
		conditioner: condition.NewConditionerWithParams(condition.Params{
			Normalize: config.Normalize,
		}),
		extractor: envelope.NewExtractor(),
		fitter: decay.NewFitterWithParams(decay.Params{
			GuardPeriods: config.GuardPeriods,
			DropFrac:     config.DropFrac,
		}),
		estimator: freq.NewEstimatorWithParams(freq.Params{
			MinCrossings: config.MinCrossings,
		}),
		spectral: freq.NewSpectralPeak(),
		logger:   logging.GetGlobalLogger().WithFields(logging.Fields{"component": "ringdown"}),
	}, nil
}

// Analyze runs the pipeline over one segment. The only error is an invalid
// segment; malformed numeric content never fails the call and instead
// surfaces as sentinel values plus diagnostics in the result.
func (p *Pipeline) Analyze(seg Segment) (*Result, error) {
	if err := seg.Validate(); err != nil {
		return nil, err
	}

	var report diag.Report

	conditioned, condReport := p.conditioner.Process(seg.Samples)
	report = report.Merge(condReport)
	p.logger.Debug("signal conditioned", logging.Fields{
		"samples":    len(conditioned.Signal),
		"dc_offset":  conditioned.DCOffset,
		"peak":       conditioned.Peak,
		"normalized": conditioned.Normalized,
	})

	env, envReport := p.extractor.Compute(conditioned.Signal, seg.SampleRate, p.config.NominalFreq)
	report = report.Merge(envReport)
	p.logger.Debug("envelope extracted", logging.Fields{"window": env.Window})

	estimate, fitReport := p.fitter.Fit(env.Envelope, seg.SampleRate, p.config.NominalFreq)
	report = report.Merge(fitReport)
	p.logger.Debug("decay fitted", logging.Fields{
		"tau_s": estimate.Tau,
		"q_env": estimate.QEnv,
		"rmse":  estimate.RMSE,
	})

	// Frequency estimation runs on the conditioned signal, not the
	// envelope, and has no dependency on the fit.
	frequency, freqReport := p.estimator.Estimate(conditioned.Signal, seg.SampleRate)
	report = report.Merge(freqReport)
	p.logger.Debug("frequency estimated", logging.Fields{
		"f0_hz":  frequency.F0,
		"cycles": frequency.CyclesUsed,
	})

	// Independent spectral cross-check on the crossing-based estimate.
	spectralF0 := p.spectral.Estimate(conditioned.Signal, seg.SampleRate)
	if frequency.Valid() && !math.IsNaN(spectralF0) {
		if math.Abs(frequency.F0-spectralF0)/frequency.F0 > spectralMismatch {
			report = report.Add(freq.Stage,
				"zero-crossing and spectral-peak frequencies disagree",
				"inspect the waveform for noise, clipping or a secondary mode")
		}
	}

	// Q is deliberately recombined from the measured frequency and the
	// fitted decay constant; see metrics.Compute.
	q := math.Pi * frequency.F0 * estimate.Tau

	damping, metricsReport := metrics.Compute(estimate.Tau, frequency.F0, q)
	report = report.Merge(metricsReport)

	result := &Result{
		Segment:     seg,
		Conditioned: conditioned,
		Envelope:    env,
		Decay:       estimate,
		Frequency:   frequency,
		SpectralF0:  spectralF0,
		Q:           q,
		Damping:     damping,
		Report:      report,
	}

	p.logger.Debug("analysis complete", logging.Fields{
		"f0_hz":       frequency.F0,
		"tau_s":       estimate.Tau,
		"q":           q,
		"diagnostics": len(report),
	})

	return result, nil
}
