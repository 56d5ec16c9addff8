package ringdown

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// BaseColumns is the stable field order of a persistence record. Extras
// follow in sorted key order.
var BaseColumns = []string{
	"timestamp", "f0_hz", "tau_s", "q", "fit_rmse",
	"alpha", "df_tau", "df_q",
}

// Record is the flat per-run row handed to persistence sinks.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	F0Hz      float64   `json:"f0_hz"`
	TauS      float64   `json:"tau_s"`
	Q         float64   `json:"q"`
	FitRMSE   float64   `json:"fit_rmse"`
	Alpha     float64   `json:"alpha"`
	DfTau     float64   `json:"df_tau"`
	DfQ       float64   `json:"df_q"`

	// Extras is free-form run metadata (mode, rate, knob values).
	Extras map[string]string `json:"extras,omitempty"`
}

// ExtraKeys returns the extra column names in sorted order.
func (r *Record) ExtraKeys() []string {
	keys := make([]string, 0, len(r.Extras))
	for k := range r.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the base field values formatted in BaseColumns order,
// followed by the extras in sorted key order.
func (r *Record) Values() []string {
	out := []string{
		r.Timestamp.Format(time.RFC3339),
		formatFloat(r.F0Hz),
		formatFloat(r.TauS),
		formatFloat(r.Q),
		formatFloat(r.FitRMSE),
		formatFloat(r.Alpha),
		formatFloat(r.DfTau),
		formatFloat(r.DfQ),
	}
	for _, k := range r.ExtraKeys() {
		out = append(out, r.Extras[k])
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Record builds the persistence record for this run, stamped with the given
// time. It refuses to build one when any mandatory field (f0, τ, Q) is
// non-finite or non-positive, signaling the caller to skip persistence.
func (r *Result) Record(at time.Time, extras map[string]string) (*Record, error) {
	if !finitePositive(r.Frequency.F0) {
		return nil, fmt.Errorf("record: invalid frequency %g, refusing to persist", r.Frequency.F0)
	}
	if !finitePositive(r.Decay.Tau) {
		return nil, fmt.Errorf("record: invalid decay constant %g, refusing to persist", r.Decay.Tau)
	}
	if !finitePositive(r.Q) {
		return nil, fmt.Errorf("record: invalid quality factor %g, refusing to persist", r.Q)
	}

	return &Record{
		Timestamp: at,
		F0Hz:      r.Frequency.F0,
		TauS:      r.Decay.Tau,
		Q:         r.Q,
		FitRMSE:   r.Decay.RMSE,
		Alpha:     r.Damping.Alpha,
		DfTau:     r.Damping.LinewidthTau,
		DfQ:       r.Damping.LinewidthQ,
		Extras:    extras,
	}, nil
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
