package ringdown

import (
	"fmt"
	"time"
)

// Segment is one captured free-decay block: the post-excitation relaxation
// of the transducer, as handed over by an acquisition source. It is treated
// as immutable once given to the pipeline.
type Segment struct {
	// SampleRate in Hz, must be positive.
	SampleRate float64 `json:"sample_rate_hz"`

	// Samples is the decay-only portion of the capture.
	Samples []float64 `json:"-"`
}

// Validate checks the segment invariants.
func (s Segment) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("segment: sample rate must be positive, got %g", s.SampleRate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("segment: no samples")
	}
	return nil
}

// Duration returns the segment length in time.
func (s Segment) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / s.SampleRate * float64(time.Second))
}
