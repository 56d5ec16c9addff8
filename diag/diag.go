package diag

// Diagnostic is a single warning raised by a pipeline stage, paired with a
// suggested remedy. Stages accumulate diagnostics instead of printing or
// returning errors; an anomalous-but-computable result is still returned.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Warning string `json:"warning"`
	Fix     string `json:"fix"`
}

// Report is an ordered list of diagnostics from one run. An empty report
// signals a clean run.
type Report []Diagnostic

// New creates a single diagnostic.
func New(stage, warning, fix string) Diagnostic {
	return Diagnostic{Stage: stage, Warning: warning, Fix: fix}
}

// Add appends a diagnostic to the report and returns the updated report.
func (r Report) Add(stage, warning, fix string) Report {
	return append(r, New(stage, warning, fix))
}

// Merge appends all diagnostics from other, preserving order.
func (r Report) Merge(other Report) Report {
	return append(r, other...)
}

// Clean reports whether the run produced no diagnostics.
func (r Report) Clean() bool {
	return len(r) == 0
}

// ForStage returns the diagnostics raised by the named stage.
func (r Report) ForStage(stage string) Report {
	var out Report
	for _, d := range r {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}
