package matcher

import (
	"testing"
)

func TestCalculateCoverage(t *testing.T) {
	tests := []struct {
		name        string
		description string
		resume      string
		wantScore   float64
		wantMissing []string
	}{
		{
			name:        "no description is neutral",
			description: "",
			resume:      "golang",
			wantScore:   0.5,
		},
		{
			name:        "full coverage",
			description: "Golang and Postgres",
			resume:      "Built services in golang backed by postgres",
			wantScore:   1.0,
			wantMissing: []string{},
		},
		{
			name:        "partial coverage ranks repeated keywords first",
			description: "Kubernetes, Golang. Kubernetes operators!",
			resume:      "golang developer",
			wantScore:   1.0 / 3.0,
			wantMissing: []string{"kubernetes", "operators"},
		},
		{
			name:        "empty resume misses everything",
			description: "Terraform",
			resume:      "",
			wantScore:   0,
			wantMissing: []string{"terraform"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCoverage(tt.description, tt.resume)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if tt.wantMissing == nil {
				return
			}
			if len(got.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			for i := range tt.wantMissing {
				if got.Missing[i] != tt.wantMissing[i] {
					t.Errorf("Missing[%d] = %s, want %s", i, got.Missing[i], tt.wantMissing[i])
				}
			}
		})
	}
}

func TestFocusAreas(t *testing.T) {
	c := Coverage{Matched: []string{"golang"}, Missing: []string{"kafka", "redis", "grpc"}}
	if got := c.FocusAreas(2); len(got) != 2 || got[0] != "kafka" {
		t.Errorf("FocusAreas = %v", got)
	}

	full := Coverage{Matched: []string{"golang", "sql"}}
	if got := full.FocusAreas(5); len(got) != 2 || got[0] != "golang" {
		t.Errorf("FocusAreas fallback = %v", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("the team will build (distributed) systems")
	want := []string{"build", "distributed", "systems"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
