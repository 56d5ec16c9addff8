package common

import (
	"gonum.org/v1/gonum/stat"
)

// LinearFit performs an ordinary least-squares fit y ≈ intercept + slope*x
// using gonum. Inputs must have equal length; fewer than two points yield a
// zero fit.
func LinearFit(x, y []float64) (intercept, slope float64) {
	if len(x) != len(y) || len(x) < 2 {
		return 0.0, 0.0
	}
	return stat.LinearRegression(x, y, nil, false)
}
