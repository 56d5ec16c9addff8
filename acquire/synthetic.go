package acquire

import (
	"math"

	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

// Synthesize generates a driven burst followed by a free exponential decay
//
//	x(t) = A0 · exp(-t/τ) · sin(2π·f0·t)
//
// and returns only the decay portion, which is what the capture hardware
// hands the pipeline. The burst exists so the generator exercises the same
// slicing the file loaders perform.
func Synthesize(config Config) ringdown.Segment {
	fs := config.SampleRate
	burstN := int(config.BurstLen.Seconds() * fs)
	relaxN := int(config.RelaxLen.Seconds() * fs)
	tau := config.Tau.Seconds()

	total := make([]float64, burstN+relaxN)
	for i := 0; i < burstN; i++ {
		t := float64(i) / fs
		total[i] = math.Sin(2 * math.Pi * config.Frequency * t)
	}
	for i := 0; i < relaxN; i++ {
		t := float64(i) / fs
		total[burstN+i] = config.Amplitude * math.Exp(-t/tau) *
			math.Sin(2*math.Pi*config.Frequency*t)
	}

	return ringdown.Segment{
		SampleRate: fs,
		Samples:    total[burstN:],
	}
}
