package models

import "time"

// SmartGoal is one actionable suggestion for a single area
type SmartGoal struct {
	Area string `json:"area"`
	Goal string `json:"goal"`
}

// AnalysisRecord is a frozen snapshot of a session plus the AI narrative.
// Only SmartGoals may change after creation.
type AnalysisRecord struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	FormattedDate string         `json:"formattedDate"`
	Scores        map[string]int `json:"scores"`
	UserNotes     string         `json:"userNotes"`
	AIResponse    string         `json:"aiResponse"`
	AverageScore  float64        `json:"averageScore"`
	SmartGoals    []SmartGoal    `json:"smartGoals,omitempty"`
	Mode          Mode           `json:"mode,omitempty"`
	Categories    []string       `json:"categories,omitempty"`
}

// Clone returns a deep copy of the record
func (r AnalysisRecord) Clone() AnalysisRecord {
	out := r
	out.Scores = make(map[string]int, len(r.Scores))
	for k, v := range r.Scores {
		out.Scores[k] = v
	}
	if r.SmartGoals != nil {
		out.SmartGoals = append([]SmartGoal(nil), r.SmartGoals...)
	}
	if r.Categories != nil {
		out.Categories = append([]string(nil), r.Categories...)
	}
	return out
}

// RecordPatch carries the fields that may be attached to an existing record.
// A nil SmartGoals leaves the record's goals untouched.
type RecordPatch struct {
	SmartGoals []SmartGoal `json:"smartGoals,omitempty"`
}
