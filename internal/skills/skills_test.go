package skills

import "testing"

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		expect []string
	}{
		{
			name:   "empty text",
			text:   "",
			expect: []string{},
		},
		{
			name:   "vocabulary order and case",
			text:   "Built dashboards in Tableau. Python and SQL daily. Docker, MongoDB.",
			expect: []string{"python", "sql", "mongodb", "docker", "tableau"},
		},
		{
			name:   "substring matches",
			text:   "Health Informatics research with EHR data",
			expect: []string{"ehr", "informatics", "health informatics", "research"},
		},
		{
			name:   "nothing known",
			text:   "Cooking and gardening",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(tt.text)
			if len(got) != len(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
			for i := range tt.expect {
				if got[i] != tt.expect[i] {
					t.Fatalf("expected %v, got %v", tt.expect, got)
				}
			}
		})
	}
}

func TestExtractNeverFallsBack(t *testing.T) {
	t.Parallel()

	if got := Extract("no skills here"); len(got) != 0 {
		t.Fatalf("expected no terms, got %v", got)
	}
	if len(Fallback) == 0 {
		t.Fatalf("expected a non-empty fallback profile")
	}
}
