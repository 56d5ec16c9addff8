package condition

import (
	"math"
	"testing"
)

func sine(n int, freq, rate, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

func TestProcessRemovesDC(t *testing.T) {
	c := NewConditioner()
	signal := sine(1000, 5e6, 125e6, 0.4)

	result, _ := c.Process(signal)

	mean := 0.0
	for _, v := range result.Signal {
		mean += v
	}
	mean /= float64(len(result.Signal))

	if math.Abs(mean) > 1e-9 {
		t.Errorf("residual DC = %g, want ~0", mean)
	}
	if len(result.Signal) != len(signal) {
		t.Errorf("length changed: %d -> %d", len(signal), len(result.Signal))
	}
	if !result.Normalized {
		t.Error("expected normalization to apply")
	}
}

func TestProcessNormalizesToUnitPeak(t *testing.T) {
	c := NewConditioner()
	result, _ := c.Process(sine(1000, 5e6, 125e6, 0))

	peak := 0.0
	for _, v := range result.Signal {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if math.Abs(peak-1) > 1e-9 {
		t.Errorf("peak after normalization = %g, want 1", peak)
	}
}

func TestProcessIdempotent(t *testing.T) {
	c := NewConditioner()
	first, _ := c.Process(sine(2000, 5e6, 125e6, 0.1))
	second, _ := c.Process(first.Signal)

	if math.Abs(second.DCOffset) > 1e-9 {
		t.Errorf("second-pass DC offset = %g, want ~0", second.DCOffset)
	}
	if math.Abs(second.Peak-1) > 1e-9 {
		t.Errorf("second-pass peak = %g, want ~1", second.Peak)
	}
	for i := range first.Signal {
		if math.Abs(first.Signal[i]-second.Signal[i]) > 1e-9 {
			t.Fatalf("sample %d changed on reconditioning: %g -> %g",
				i, first.Signal[i], second.Signal[i])
		}
	}
}

func TestProcessWithoutNormalization(t *testing.T) {
	c := NewConditionerWithParams(Params{Normalize: false})
	result, _ := c.Process(sine(1000, 5e6, 125e6, 0))

	if result.Normalized {
		t.Error("normalization applied despite Normalize=false")
	}
}

func TestProcessAllZeros(t *testing.T) {
	c := NewConditioner()
	result, report := c.Process(make([]float64, 500))

	if result.Normalized {
		t.Error("zero signal must not be normalized")
	}
	for _, v := range result.Signal {
		if v != 0 {
			t.Fatal("zero input should stay flat")
		}
	}

	// Weak amplitude and flat signal both warrant warnings.
	if len(report) < 2 {
		t.Errorf("expected at least 2 diagnostics for a zero block, got %d", len(report))
	}
}

func TestProcessLargeDCWarns(t *testing.T) {
	c := NewConditioner()
	// Offset dominates the oscillation: 2.0 vs amplitude 1.0.
	_, report := c.Process(sine(1000, 5e6, 125e6, 2.0))

	found := false
	for _, d := range report.ForStage(Stage) {
		if d.Warning == "DC offset is large relative to signal amplitude" {
			found = true
		}
	}
	if !found {
		t.Error("expected a DC bias diagnostic")
	}
}

func TestProcessEmptyInput(t *testing.T) {
	c := NewConditioner()
	result, report := c.Process(nil)

	if len(result.Signal) != 0 {
		t.Errorf("empty input produced %d samples", len(result.Signal))
	}
	if !report.Clean() {
		t.Errorf("empty input produced diagnostics: %+v", report)
	}
}
