package common

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, got, want, tol float64, name string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g (tol %g)", name, got, want, tol)
	}
}

func TestMean(t *testing.T) {
	almostEqual(t, Mean([]float64{1, 2, 3, 4}), 2.5, 1e-12, "Mean")

	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %g, want 0", got)
	}
}

func TestStandardDeviation(t *testing.T) {
	// Sample std of {2, 4, 4, 4, 5, 5, 7, 9} is sqrt(32/7).
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	almostEqual(t, StandardDeviation(data), math.Sqrt(32.0/7.0), 1e-12, "StandardDeviation")

	if got := StandardDeviation([]float64{1}); got != 0 {
		t.Errorf("StandardDeviation single = %g, want 0", got)
	}
}

func TestPeakAndRMS(t *testing.T) {
	data := []float64{1, -3, 2}
	almostEqual(t, Peak(data), 3, 0, "Peak")
	almostEqual(t, RMS([]float64{1, -1, 1, -1}), 1, 1e-12, "RMS")
}

func TestAbs(t *testing.T) {
	got := Abs([]float64{-1, 0, 2.5})
	want := []float64{1, 0, 2.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Abs[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestDiff(t *testing.T) {
	got := Diff([]float64{1, 4, 9})
	if len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("Diff = %v, want [3 5]", got)
	}

	if got := Diff([]float64{1}); len(got) != 0 {
		t.Errorf("Diff single = %v, want empty", got)
	}
}

func TestLinearFit(t *testing.T) {
	// y = 2 + 3x exactly.
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 + 3*v
	}

	intercept, slope := LinearFit(x, y)
	almostEqual(t, intercept, 2, 1e-12, "intercept")
	almostEqual(t, slope, 3, 1e-12, "slope")
}

func TestLinearFitDegenerate(t *testing.T) {
	intercept, slope := LinearFit([]float64{1}, []float64{1})
	if intercept != 0 || slope != 0 {
		t.Errorf("degenerate fit = (%g, %g), want (0, 0)", intercept, slope)
	}
}
