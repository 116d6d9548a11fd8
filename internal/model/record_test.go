package model

import "testing"

func TestHeadersReturnsCopy(t *testing.T) {
	h := Headers()
	if len(h) != 20 {
		t.Fatalf("Headers() has %d columns, want 20", len(h))
	}
	h[0] = "mutated"
	if Headers()[0] != "internal_id" {
		t.Error("mutating the returned slice changed the canonical order")
	}
}

func TestRecord_Row(t *testing.T) {
	r := Record{
		InternalID:  "uuid-1",
		SourceID:    "42",
		JobSource:   SourceLoker,
		Title:       "Backend Engineer",
		SalaryMin:   4000000,
		SalaryMax:   6000000,
		CompanyName: "PT Maju",
	}

	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{
			name:    "subset in backend order",
			headers: []string{"source_id", "title", "salary_min"},
			want:    []string{"42", "Backend Engineer", "4000000"},
		},
		{
			name:    "header names are trimmed",
			headers: []string{" company_name ", "job_source"},
			want:    []string{"PT Maju", SourceLoker},
		},
		{
			name:    "unknown columns yield empty cells",
			headers: []string{"internal_id", "extra_col", "salary_max"},
			want:    []string{"uuid-1", "", "6000000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Row(tt.headers)
			if len(got) != len(tt.want) {
				t.Fatalf("Row() has %d values, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Row()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDedupKey(t *testing.T) {
	if DedupKey(SourceLoker, "123") == DedupKey(SourceGlints, "123") {
		t.Error("same native ID on different boards must not collide")
	}
	if DedupKey(SourceLoker, "123") != DedupKey(SourceLoker, "123") {
		t.Error("key is not deterministic")
	}
}
