package store

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary is the per-column spread over all runs in a results file.
type ColumnSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
}

// Summary holds cross-run statistics plus the most recent raw rows.
type Summary struct {
	Columns []ColumnSummary     `json:"columns"`
	Tail    []map[string]string `json:"tail"`
}

// summaryColumns maps the summarized quantity to the column spellings that
// have appeared in results files over time.
var summaryColumns = []struct {
	name string
	keys []string
}{
	{"f0_hz", []string{"f0_hz"}},
	{"tau_s", []string{"tau_s"}},
	{"q", []string{"q", "Q"}},
	{"fit_rmse", []string{"fit_rmse", "fft_rmse"}},
}

// Summarize reads a results CSV and computes n/min/mean/max per tracked
// column, ignoring blanks and unparseable values, plus the last tail rows.
func Summarize(path string, tail int) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: reading %s: %w", path, err)
	}
	if len(rows) < 2 {
		return &Summary{}, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}

	summary := &Summary{}
	for _, col := range summaryColumns {
		values := collectColumn(records, col.keys)
		if len(values) == 0 {
			continue
		}
		summary.Columns = append(summary.Columns, ColumnSummary{
			Name:  col.name,
			Count: len(values),
			Min:   floats.Min(values),
			Mean:  stat.Mean(values, nil),
			Max:   floats.Max(values),
		})
	}

	if tail > len(records) {
		tail = len(records)
	}
	if tail > 0 {
		summary.Tail = records[len(records)-tail:]
	}

	return summary, nil
}

// collectColumn gathers parseable finite values under the first key each
// row provides.
func collectColumn(records []map[string]string, keys []string) []float64 {
	var out []float64
	for _, rec := range records {
		for _, k := range keys {
			raw, ok := rec[k]
			if !ok || raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
				out = append(out, v)
			}
			break
		}
	}
	return out
}
