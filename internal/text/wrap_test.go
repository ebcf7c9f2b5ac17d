package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// monospace measures every rune as one unit.
func monospace(s string) float64 { return float64(len([]rune(s))) }

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{"fits", "Masjid Al-Iman", 20, []string{"Masjid Al-Iman"}},
		{"wraps at spaces", "Masjid Al-Iman Jakarta Selatan", 15, []string{"Masjid Al-Iman", "Jakarta Selatan"}},
		{"long word alone", "a Pneumonoultramicroscopic b", 10, []string{"a", "Pneumonoultramicroscopic", "b"}},
		{"newlines break", "one\ntwo three", 20, []string{"one", "two three"}},
		{"collapses spaces", "  a   b  ", 20, []string{"a b"}},
		{"no width limit", "a b c", 0, []string{"a b c"}},
		{"empty", "", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.text, tt.maxWidth, monospace)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	w, h := Measure("Masjid Al-Iman Jakarta Selatan", 15, 2, monospace)
	if w != 15 || h != 4 {
		t.Errorf("Measure() = %v, %v; want 15, 4", w, h)
	}
	w, h = Measure("   ", 15, 2, monospace)
	if w != 0 || h != 0 {
		t.Errorf("Measure(blank) = %v, %v; want 0, 0", w, h)
	}
}

func TestTruncate(t *testing.T) {
	got := Truncate([]string{"a", "b", "c"}, 2)
	if diff := cmp.Diff([]string{"a", "b..."}, got); diff != "" {
		t.Errorf("Truncate() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, Truncate([]string{"a"}, 2)); diff != "" {
		t.Errorf("Truncate() short mismatch (-want +got):\n%s", diff)
	}
}
