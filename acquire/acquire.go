// Package acquire obtains ring-down segments for analysis: synthetic
// generation for validation runs, and two generations of raw capture file
// formats written by the acquisition hardware. The analysis core never
// branches on acquisition concerns; it only receives a sample rate and a
// decay-only sample block.
package acquire

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

// Mode selects how the segment is obtained.
type Mode string

const (
	// ModeSynthetic generates a burst plus exponential decay in memory.
	ModeSynthetic Mode = "synthetic"

	// ModeNewFormatFile loads a raw capture with the current metadata
	// layout (sample_rate_hz, capture_start_offset_rel, capture_bytes).
	ModeNewFormatFile Mode = "new-file"

	// ModeLegacyFile loads an older capture: raw file with either
	// writer_offset_bytes metadata or no metadata at all.
	ModeLegacyFile Mode = "legacy-file"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	switch m {
	case ModeSynthetic, ModeNewFormatFile, ModeLegacyFile:
		return true
	}
	return false
}

// Config holds the acquisition knobs.
type Config struct {
	Mode Mode `json:"mode" yaml:"mode"`

	// File paths for the file modes. MetaPath is optional in legacy mode.
	RawPath  string `json:"raw_path" yaml:"raw_path"`
	MetaPath string `json:"meta_path" yaml:"meta_path"`

	// SampleRate is the synthetic rate, and the legacy fallback when the
	// metadata carries no rate.
	SampleRate float64 `json:"sample_rate_hz" yaml:"sample_rate_hz"`

	// Synthetic waveform parameters.
	Frequency float64       `json:"frequency_hz" yaml:"frequency_hz"`
	BurstLen  time.Duration `json:"burst_len" yaml:"burst_len"`
	RelaxLen  time.Duration `json:"relax_len" yaml:"relax_len"`
	Tau       time.Duration `json:"tau" yaml:"tau"`
	Amplitude float64       `json:"amplitude" yaml:"amplitude"`
}

// DefaultConfig returns synthetic-mode defaults matching the validation
// waveform: 200 µs burst, 400 µs decay, f0 4.995 MHz, τ 100 µs at 125 MHz.
func DefaultConfig() Config {
	return Config{
		Mode:       ModeSynthetic,
		RawPath:    "ringdown_data.raw",
		MetaPath:   "ringdown_data.json",
		SampleRate: 125e6,
		Frequency:  4.995e6,
		BurstLen:   200 * time.Microsecond,
		RelaxLen:   400 * time.Microsecond,
		Tau:        100 * time.Microsecond,
		Amplitude:  1.0,
	}
}

// Load obtains a segment according to the configured mode. Missing files
// and malformed metadata are errors; the numeric pipeline never sees a
// partially loaded capture.
func Load(config Config) (ringdown.Segment, error) {
	switch config.Mode {
	case ModeSynthetic:
		return Synthesize(config), nil
	case ModeNewFormatFile:
		return loadNewFormat(config.RawPath, config.MetaPath)
	case ModeLegacyFile:
		return loadLegacy(config.RawPath, config.MetaPath, config.SampleRate)
	default:
		return ringdown.Segment{}, fmt.Errorf("acquire: unknown mode %q", config.Mode)
	}
}
