package wheel

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinScore     = 0
	MaxScore     = 10
	DefaultScore = 5
)

// Band groups scores the way the wheel colours them
type Band string

const (
	BandLow       Band = "low"
	BandMedium    Band = "medium"
	BandGood      Band = "good"
	BandExcellent Band = "excellent"
)

// ClampScore limits n to [0,10]
func ClampScore(n int) int {
	if n < MinScore {
		return MinScore
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}

// ParseScore reads the leading integer of raw, the way a number input does,
// and clamps it. Anything that does not start with an integer scores 0.
func ParseScore(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow gets here; the sign decides which bound applies.
		if s[0] == '-' {
			return MinScore
		}
		return MaxScore
	}
	return ClampScore(n)
}

// ScoreBand classifies a score
func ScoreBand(score int) Band {
	switch {
	case score <= 3:
		return BandLow
	case score <= 6:
		return BandMedium
	case score <= 8:
		return BandGood
	default:
		return BandExcellent
	}
}

// NewScoreMap returns a score map with every category set to value
func NewScoreMap(labels []string, value int) map[string]int {
	scores := make(map[string]int, len(labels))
	for _, l := range labels {
		scores[l] = ClampScore(value)
	}
	return scores
}

// NormalizeScores returns a map with exactly one clamped entry per label.
// Missing labels get DefaultScore; keys outside labels are dropped.
func NormalizeScores(labels []string, scores map[string]int) map[string]int {
	out := make(map[string]int, len(labels))
	for _, l := range labels {
		v, ok := scores[l]
		if !ok {
			v = DefaultScore
		}
		out[l] = ClampScore(v)
	}
	return out
}

// AverageScore is the mean of the scores of labels rounded to one decimal.
// An empty label list averages to 0.
func AverageScore(labels []string, scores map[string]int) float64 {
	if len(labels) == 0 {
		return 0
	}
	sum := 0
	for _, l := range labels {
		sum += scores[l]
	}
	avg := float64(sum) / float64(len(labels))
	return math.Round(avg*10) / 10
}
