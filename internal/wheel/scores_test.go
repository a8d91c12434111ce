package wheel

import "testing"

func TestParseScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want int
	}{
		{"7", 7},
		{"0", 0},
		{"10", 10},
		{"11", 10},
		{"250", 10},
		{"-1", 0},
		{"-99", 0},
		{"", 0},
		{"abc", 0},
		{" 6 ", 6},
		{"7.9", 7},
		{"8abc", 8},
		{"+3", 3},
		{"-", 0},
		{"99999999999999999999999", 10},
		{"-99999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			if got := ParseScore(tt.raw); got != tt.want {
				t.Errorf("ParseScore(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClampScore_Property(t *testing.T) {
	t.Parallel()

	for n := -50; n <= 50; n++ {
		got := ClampScore(n)
		want := n
		if n < 0 {
			want = 0
		}
		if n > 10 {
			want = 10
		}
		if got != want {
			t.Errorf("ClampScore(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestAverageScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		labels []string
		scores map[string]int
		want   float64
	}{
		{"mean of three", []string{"A", "B", "C"}, map[string]int{"A": 10, "B": 0, "C": 5}, 5.0},
		{"rounded to one decimal", StandardCategories(), func() map[string]int {
			m := NewScoreMap(StandardCategories(), 5)
			m["Saúde & Energia"] = 2
			return m
		}(), 4.6},
		{"thirds", []string{"A", "B", "C"}, map[string]int{"A": 1, "B": 1, "C": 2}, 1.3},
		{"empty set averages to zero", nil, map[string]int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AverageScore(tt.labels, tt.scores); got != tt.want {
				t.Errorf("AverageScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeScores(t *testing.T) {
	t.Parallel()

	got := NormalizeScores([]string{"A", "B"}, map[string]int{"A": 42, "Z": 3})
	if len(got) != 2 {
		t.Fatalf("Expected exactly 2 entries, got %v", got)
	}
	if got["A"] != 10 {
		t.Errorf("Expected A clamped to 10, got %d", got["A"])
	}
	if got["B"] != DefaultScore {
		t.Errorf("Expected missing B to default to %d, got %d", DefaultScore, got["B"])
	}
	if _, ok := got["Z"]; ok {
		t.Error("Expected unknown key Z to be dropped")
	}
}

func TestScoreBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Band
	}{
		{0, BandLow}, {3, BandLow}, {4, BandMedium}, {6, BandMedium},
		{7, BandGood}, {8, BandGood}, {9, BandExcellent}, {10, BandExcellent},
	}
	for _, tt := range tests {
		if got := ScoreBand(tt.score); got != tt.want {
			t.Errorf("ScoreBand(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
