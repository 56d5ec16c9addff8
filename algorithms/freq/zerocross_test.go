package freq

import (
	"math"
	"testing"
)

func sine(n int, freq, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func TestEstimateRecoversFrequency(t *testing.T) {
	const (
		rate = 125e6
		f0   = 4.995e6
	)
	e := NewEstimator()
	estimate, report := e.Estimate(sine(10000, f0, rate), rate)

	if !estimate.Valid() {
		t.Fatal("expected a valid estimate")
	}
	if math.Abs(estimate.F0-f0)/f0 > 0.005 {
		t.Errorf("f0 = %g, want %g within 0.5%%", estimate.F0, f0)
	}
	if estimate.CyclesUsed < 10 {
		t.Errorf("cycles used = %d, want plenty for 10000 samples", estimate.CyclesUsed)
	}
	if !report.Clean() {
		t.Errorf("clean sine produced diagnostics: %+v", report)
	}
}

func TestEstimateDecayingSine(t *testing.T) {
	const (
		rate = 125e6
		f0   = 4.995e6
		tau  = 100e-6
	)
	signal := make([]float64, 20000)
	for i := range signal {
		ts := float64(i) / rate
		signal[i] = math.Exp(-ts/tau) * math.Sin(2*math.Pi*f0*ts)
	}

	e := NewEstimator()
	estimate, _ := e.Estimate(signal, rate)

	if !estimate.Valid() {
		t.Fatal("expected a valid estimate")
	}
	if math.Abs(estimate.F0-f0)/f0 > 0.01 {
		t.Errorf("f0 = %g, want %g within 1%%", estimate.F0, f0)
	}
}

func TestEstimateTooFewCrossings(t *testing.T) {
	e := NewEstimator()

	// Under half a period: no crossings at all.
	estimate, report := e.Estimate(sine(10, 4.995e6, 125e6), 125e6)

	if estimate.Valid() {
		t.Errorf("f0 = %g, want NaN sentinel", estimate.F0)
	}
	if estimate.CyclesUsed != 0 {
		t.Errorf("cycles used = %d, want 0", estimate.CyclesUsed)
	}
	if report.Clean() {
		t.Error("expected a too-few-crossings diagnostic")
	}
}

func TestEstimateFlatSignal(t *testing.T) {
	e := NewEstimator()
	estimate, _ := e.Estimate(make([]float64, 1000), 125e6)

	if estimate.Valid() || estimate.CyclesUsed != 0 {
		t.Errorf("flat signal: f0 = %g cycles = %d, want sentinel and 0",
			estimate.F0, estimate.CyclesUsed)
	}
}

func TestEstimateOutOfBandWarning(t *testing.T) {
	// 1 kHz is far below the transducer band.
	e := NewEstimator()
	estimate, report := e.Estimate(sine(50000, 1e3, 1e6), 1e6)

	if !estimate.Valid() {
		t.Fatal("expected a numeric estimate despite the band warning")
	}
	found := false
	for _, d := range report {
		if d.Warning == "estimated frequency outside the expected transducer band" {
			found = true
		}
	}
	if !found {
		t.Error("expected an out-of-band diagnostic")
	}
}

func TestEstimateJitterWarning(t *testing.T) {
	const rate = 125e6
	// Alternate between two very different half-periods by frequency
	// modulating hard; spacing spread exceeds 10% of the mean.
	signal := make([]float64, 20000)
	for i := range signal {
		ts := float64(i) / rate
		signal[i] = math.Sin(2*math.Pi*4e6*ts + 2.5*math.Sin(2*math.Pi*0.4e6*ts))
	}

	e := NewEstimator()
	_, report := e.Estimate(signal, rate)

	found := false
	for _, d := range report {
		if d.Warning == "zero-crossing intervals vary a lot" {
			found = true
		}
	}
	if !found {
		t.Error("expected an irregular-spacing diagnostic")
	}
}
