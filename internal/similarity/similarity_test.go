package similarity

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "update the budget", "update the budget", 1.0},
		{"case insensitive", "Update The Budget", "update the budget", 1.0},
		{"trimmed", "  update the budget  ", "update the budget", 1.0},
		{"empty vs text", "", "update the budget", 0.0},
		{"both empty", "", "", 1.0},
		{"disjoint", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatio_NearDuplicateAboveThreshold(t *testing.T) {
	got := Ratio("Update BevMo creative concepts", "Update the BevMo creative concepts")
	if got < 0.85 {
		t.Errorf("Ratio() = %v, want >= 0.85", got)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"update the budget", "update budget"},
		{"Send production brief", "Send the brief around"},
		{"", "something"},
		{"overlay test", "overlay tests for packaging"},
	}

	for _, p := range pairs {
		ab := Ratio(p[0], p[1])
		ba := Ratio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Ratio not symmetric for %q/%q: %v vs %v", p[0], p[1], ab, ba)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
