// Package wheel holds the life-area scoring model: category sets, score maps,
// the custom category setup flow and the session manager that keeps the
// standard and custom drafts in sync with persistence.
package wheel

import "fmt"

const (
	// MinCustomCategories is the smallest custom wheel that can be built
	MinCustomCategories = 4
	// MaxCustomCategories is the largest custom wheel that can be built
	MaxCustomCategories = 20
)

// ErrCountOutOfRange is returned when a custom wheel size is outside [4,20]
var ErrCountOutOfRange = fmt.Errorf("custom category count must be between %d and %d", MinCustomCategories, MaxCustomCategories)

var standardCategories = []string{
	"Saúde & Energia",
	"Carreira & Propósito",
	"Finanças & Segurança",
	"Relacionamento Amoroso",
	"Família & Amigos",
	"Crescimento & Espiritualidade",
	"Lazer & Diversão",
	"Contribuição & Legado",
}

// StandardCategories returns the built-in life areas in display order
func StandardCategories() []string {
	return append([]string(nil), standardCategories...)
}

// CategorySet is an ordered, duplicate-free list of life-area labels
type CategorySet struct {
	labels []string
}

// StandardSet returns the built-in category set
func StandardSet() CategorySet {
	return CategorySet{labels: StandardCategories()}
}

// NewCustomSet builds a custom category set from user supplied names.
// Repeated names are numbered so that every label is unique.
func NewCustomSet(names []string) (CategorySet, error) {
	if len(names) < MinCustomCategories || len(names) > MaxCustomCategories {
		return CategorySet{}, ErrCountOutOfRange
	}
	return CategorySet{labels: DedupeNames(names)}, nil
}

// SetFromLabels wraps the categories stored alongside a persisted session
// or record. Unique labels are kept exactly as stored; only a corrupted list
// with repeats is renumbered.
func SetFromLabels(labels []string) CategorySet {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return CategorySet{labels: DedupeNames(labels)}
		}
		seen[l] = struct{}{}
	}
	return CategorySet{labels: append([]string(nil), labels...)}
}

// Labels returns a copy of the labels
func (c CategorySet) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Len returns the number of categories
func (c CategorySet) Len() int {
	return len(c.labels)
}

// Contains reports whether label is part of the set
func (c CategorySet) Contains(label string) bool {
	for _, l := range c.labels {
		if l == label {
			return true
		}
	}
	return false
}

// DedupeNames numbers repeated names in order of appearance: the first
// occurrence is kept as is, the second becomes "name 2", the third "name 3".
// A number already taken by a typed name, or by an earlier renumbering, is
// skipped, so the result is always unique.
func DedupeNames(names []string) []string {
	used := make(map[string]bool, len(names))
	for _, name := range names {
		used[name] = true
	}
	kept := make(map[string]bool, len(names))
	next := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !kept[name] {
			kept[name] = true
			out[i] = name
			continue
		}
		k := next[name]
		if k == 0 {
			k = 2
		}
		label := fmt.Sprintf("%s %d", name, k)
		for used[label] {
			k++
			label = fmt.Sprintf("%s %d", name, k)
		}
		used[label] = true
		next[name] = k + 1
		out[i] = label
	}
	return out
}
