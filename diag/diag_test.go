package diag

import "testing"

func TestReportAddMerge(t *testing.T) {
	var r Report
	if !r.Clean() {
		t.Fatal("empty report should be clean")
	}

	r = r.Add("condition", "w1", "f1")
	r = r.Merge(Report{New("decay", "w2", "f2"), New("decay", "w3", "f3")})

	if len(r) != 3 {
		t.Fatalf("len = %d, want 3", len(r))
	}
	if r[0].Stage != "condition" || r[1].Warning != "w2" || r[2].Fix != "f3" {
		t.Errorf("unexpected order: %+v", r)
	}

	if got := r.ForStage("decay"); len(got) != 2 {
		t.Errorf("ForStage(decay) len = %d, want 2", len(got))
	}
	if r.Clean() {
		t.Error("non-empty report should not be clean")
	}
}
