package wheel

import (
	"errors"
	"reflect"
	"testing"
)

func TestDedupeNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "repeats numbered in order of appearance",
			input: []string{"A", "A", "B", "A"},
			want:  []string{"A", "A 2", "B", "A 3"},
		},
		{
			name:  "unique names untouched",
			input: []string{"Saúde", "Carreira", "Lazer", "Família"},
			want:  []string{"Saúde", "Carreira", "Lazer", "Família"},
		},
		{
			name:  "independent counters per name",
			input: []string{"X", "Y", "X", "Y"},
			want:  []string{"X", "Y", "X 2", "Y 2"},
		},
		{
			name:  "number taken by a typed name is skipped",
			input: []string{"A", "A", "A 2", "B"},
			want:  []string{"A", "A 3", "A 2", "B"},
		},
		{
			name:  "typed numbered name repeated",
			input: []string{"A 2", "A", "A", "A 2"},
			want:  []string{"A 2", "A", "A 3", "A 2 2"},
		},
		{
			name:  "blank names are numbered too",
			input: []string{"", "", "C", "D"},
			want:  []string{"", " 2", "C", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DedupeNames(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeNames(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDedupeNames_AlwaysUnique(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{"A", "A", "A 2", "B"},
		{"A", "A 2", "A", "A", "A 3"},
		{"x", "x", "x 2", "x 2", "x 3", "x"},
	}
	for _, in := range inputs {
		got := DedupeNames(in)
		seen := make(map[string]bool, len(got))
		for _, l := range got {
			if seen[l] {
				t.Errorf("DedupeNames(%v) = %v repeats %q", in, got, l)
			}
			seen[l] = true
		}
		// Reloading a finished set must not rename anything
		if reloaded := SetFromLabels(got).Labels(); !reflect.DeepEqual(reloaded, got) {
			t.Errorf("SetFromLabels(%v) = %v", got, reloaded)
		}
	}
}

func TestSetFromLabels_RenumbersCorruptRepeats(t *testing.T) {
	t.Parallel()

	got := SetFromLabels([]string{"A", "B", "A", "C"}).Labels()
	want := []string{"A", "B", "A 2", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SetFromLabels = %v, want %v", got, want)
	}
}

func TestNewCustomSet_CountBounds(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 3, 21, 40} {
		names := make([]string, n)
		if _, err := NewCustomSet(names); !errors.Is(err, ErrCountOutOfRange) {
			t.Errorf("Expected ErrCountOutOfRange for %d names, got %v", n, err)
		}
	}
	for _, n := range []int{4, 12, 20} {
		names := make([]string, n)
		set, err := NewCustomSet(names)
		if err != nil {
			t.Errorf("Expected %d names to be accepted, got %v", n, err)
			continue
		}
		if set.Len() != n {
			t.Errorf("Expected set of %d, got %d", n, set.Len())
		}
	}
}

func TestStandardSet(t *testing.T) {
	t.Parallel()

	set := StandardSet()
	if set.Len() != 8 {
		t.Fatalf("Expected 8 standard categories, got %d", set.Len())
	}
	if !set.Contains("Saúde & Energia") {
		t.Error("Expected standard set to contain 'Saúde & Energia'")
	}
	if set.Contains("Área 1") {
		t.Error("Expected standard set not to contain 'Área 1'")
	}

	labels := set.Labels()
	labels[0] = "mutated"
	if StandardCategories()[0] != "Saúde & Energia" {
		t.Error("Expected standard categories to be immutable")
	}
}
