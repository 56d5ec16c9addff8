package ringdown

import (
	"fmt"
	"time"
)

// Config holds the caller-supplied analysis parameters. The pipeline owns
// no external configuration surface; drivers decide where these come from.
type Config struct {
	// Normalize scales the conditioned signal to unit peak amplitude.
	Normalize bool `json:"normalize"`

	// GuardPeriods is the number of oscillation periods skipped before
	// the exponential fit starts.
	GuardPeriods int `json:"guard_periods"`

	// DropFrac ends the fit where the envelope has fallen to this
	// fraction of its value at the fit start.
	DropFrac float64 `json:"drop_frac"`

	// MinCrossings is the minimum number of zero-crossings required for
	// a frequency estimate.
	MinCrossings int `json:"min_crossings"`

	// ZoomWindow is the initial span of the conditioned signal exported
	// for quick visual inspection.
	ZoomWindow time.Duration `json:"zoom_window"`

	// NominalFreq is the expected resonance frequency in Hz. It sizes the
	// envelope smoothing window and the fit guard interval; the measured
	// frequency always comes from the zero-crossing estimator.
	NominalFreq float64 `json:"nominal_freq_hz"`
}

// DefaultConfig returns the analysis defaults for a QCM-class transducer.
func DefaultConfig() Config {
	return Config{
		Normalize:    true,
		GuardPeriods: 3,
		DropFrac:     0.1,
		MinCrossings: 6,
		ZoomWindow:   200 * time.Microsecond,
		NominalFreq:  4.995e6,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.GuardPeriods < 0 {
		return fmt.Errorf("config: guard periods must be >= 0, got %d", c.GuardPeriods)
	}
	if c.DropFrac <= 0 || c.DropFrac >= 1 {
		return fmt.Errorf("config: drop fraction must be in (0,1), got %g", c.DropFrac)
	}
	if c.MinCrossings < 2 {
		return fmt.Errorf("config: min crossings must be >= 2, got %d", c.MinCrossings)
	}
	if c.NominalFreq <= 0 {
		return fmt.Errorf("config: nominal frequency must be positive, got %g", c.NominalFreq)
	}
	return nil
}
