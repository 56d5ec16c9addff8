package metrics

import (
	"math"
	"testing"
)

func TestComputeKnownValues(t *testing.T) {
	const (
		tau = 100e-6
		f0  = 5e6
	)
	q := math.Pi * f0 * tau // ≈ 1570.8

	damping, report := Compute(tau, f0, q)

	if !damping.Valid() {
		t.Fatal("expected valid metrics")
	}
	if math.Abs(damping.Alpha-1e4) > 1e-6 {
		t.Errorf("alpha = %g, want 1e4", damping.Alpha)
	}
	if math.Abs(damping.LinewidthTau-1591.549) > 0.01 {
		t.Errorf("df_tau = %g, want ~1591.549", damping.LinewidthTau)
	}
	if math.Abs(damping.LinewidthQ-3183.099) > 0.01 {
		t.Errorf("df_q = %g, want ~3183.099", damping.LinewidthQ)
	}

	// The two estimates disagree by ~50%, beyond the 30% tolerance.
	found := false
	for _, d := range report {
		if d.Warning == "tau-based and Q-based linewidths differ by more than 30%" {
			found = true
		}
	}
	if !found {
		t.Error("expected a linewidth-mismatch diagnostic")
	}
}

func TestComputeConsistentEstimatesNoMismatch(t *testing.T) {
	// Q = 2π·f0·τ makes f0/Q equal 1/(2πτ) exactly, so the two linewidth
	// estimates agree.
	const (
		tau = 100e-6
		f0  = 5e6
	)
	q := 2 * math.Pi * f0 * tau

	_, report := Compute(tau, f0, q)
	for _, d := range report {
		if d.Warning == "tau-based and Q-based linewidths differ by more than 30%" {
			t.Errorf("unexpected mismatch diagnostic: %+v", d)
		}
	}
}

func TestComputeNonPositiveTau(t *testing.T) {
	for _, tau := range []float64{0, -1e-4, math.NaN()} {
		damping, report := Compute(tau, 5e6, 1570.8)

		if damping.Valid() {
			t.Errorf("tau=%g: expected sentinel outputs", tau)
		}
		if !math.IsNaN(damping.LinewidthTau) || !math.IsNaN(damping.LinewidthQ) {
			t.Errorf("tau=%g: expected NaN linewidths", tau)
		}
		if len(report) != 1 {
			t.Errorf("tau=%g: got %d diagnostics, want exactly 1", tau, len(report))
		}
	}
}

func TestComputeInvalidFrequency(t *testing.T) {
	damping, report := Compute(100e-6, math.NaN(), 1570.8)

	if damping.Valid() {
		t.Error("expected sentinel outputs")
	}
	if len(report) != 1 || report[0].Warning != "frequency is invalid, cannot compute linewidth" {
		t.Errorf("unexpected diagnostics: %+v", report)
	}
}

func TestComputeInvalidQ(t *testing.T) {
	damping, report := Compute(100e-6, 5e6, -1)

	if damping.Valid() {
		t.Error("expected sentinel outputs")
	}
	if len(report) != 1 {
		t.Errorf("got %d diagnostics, want exactly 1", len(report))
	}
}

func TestComputeLinewidthBandWarnings(t *testing.T) {
	// τ = 10 s puts df_tau near 0.016 Hz, under the 0.1 Hz floor.
	_, report := Compute(10, 5e6, math.Pi*5e6*10)
	if report.ForStage(Stage).Clean() {
		t.Error("expected a small-linewidth diagnostic")
	}

	// τ = 1 µs puts df_tau near 159 kHz, over the 100 kHz ceiling.
	_, report = Compute(1e-6, 5e6, math.Pi*5e6*1e-6)
	found := false
	for _, d := range report {
		if d.Warning == "tau-based linewidth very large (>100 kHz)" {
			found = true
		}
	}
	if !found {
		t.Error("expected a large-linewidth diagnostic")
	}
}
