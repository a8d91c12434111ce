package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/benvon/roda-da-vida/internal/models"
)

// stripFences removes markdown code fences a model may wrap JSON in
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseSmartGoals reads the model's JSON array. A single object or an object
// wrapping the array under any key is accepted too. Malformed JSON gets one
// repair attempt.
func ParseSmartGoals(raw string) ([]models.SmartGoal, error) {
	clean := stripFences(raw)
	if clean == "" {
		clean = "[]"
	}
	goals, err := decodeGoals(clean)
	if err == nil {
		return goals, nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(clean)
	if repairErr != nil {
		return nil, fmt.Errorf("parse smart goals: %w", err)
	}
	goals, err = decodeGoals(repaired)
	if err != nil {
		return nil, fmt.Errorf("parse repaired smart goals: %w", err)
	}
	return goals, nil
}

func decodeGoals(s string) ([]models.SmartGoal, error) {
	var goals []models.SmartGoal
	if err := json.Unmarshal([]byte(s), &goals); err == nil {
		return nonEmpty(goals), nil
	}

	var single models.SmartGoal
	if err := json.Unmarshal([]byte(s), &single); err == nil && single.Area != "" {
		return []models.SmartGoal{single}, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &wrapper); err != nil {
		return nil, err
	}
	for _, v := range wrapper {
		if err := json.Unmarshal(v, &goals); err == nil {
			return nonEmpty(goals), nil
		}
	}
	return nil, fmt.Errorf("no goal array in response")
}

func nonEmpty(goals []models.SmartGoal) []models.SmartGoal {
	out := make([]models.SmartGoal, 0, len(goals))
	for _, g := range goals {
		if strings.TrimSpace(g.Goal) == "" {
			continue
		}
		out = append(out, g)
	}
	return out
}
