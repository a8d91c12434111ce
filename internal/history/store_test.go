package history

import (
	"fmt"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

type recordingPersister struct {
	saves [][]models.AnalysisRecord
}

func (p *recordingPersister) SaveHistory(records []models.AnalysisRecord) {
	p.saves = append(p.saves, records)
}

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	ts := time.Date(2025, 12, 9, 17, 37, 0, 0, time.UTC)
	n := 0
	s := NewStore(nil, p, WithLocation(loc), WithClock(func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}))
	s.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return s
}

func standardDraft(overrides map[string]int, ai string) Draft {
	labels := wheel.StandardCategories()
	scores := wheel.NewScoreMap(labels, wheel.DefaultScore)
	for k, v := range overrides {
		scores[k] = v
	}
	return Draft{Mode: models.ModeStandard, Categories: labels, Scores: scores, Notes: "n", AIResponse: ai}
}

func TestStore_AppendPrependsAndFreezes(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	s := newTestStore(t, p)

	d := standardDraft(map[string]int{"Saúde & Energia": 2}, "OK")
	first := s.Append(d)
	second := s.Append(standardDraft(nil, "again"))

	if first.AverageScore != 4.6 {
		t.Errorf("Expected average 4.6, got %v", first.AverageScore)
	}
	if first.FormattedDate != "09/12/2025 às 14:38" {
		t.Errorf("Unexpected formatted date %q", first.FormattedDate)
	}
	if first.AIResponse != "OK" || first.UserNotes != "n" {
		t.Errorf("Unexpected record contents: %+v", first)
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("Expected newest first, got %v", list)
	}
	if len(p.saves) != 2 || len(p.saves[1]) != 2 {
		t.Errorf("Expected a full-list write per append, got %d writes", len(p.saves))
	}

	d.Scores["Saúde & Energia"] = 9
	first.Scores["Saúde & Energia"] = 9
	got, _ := s.Get(first.ID)
	if got.Scores["Saúde & Energia"] != 2 {
		t.Error("Expected record scores to be frozen copies")
	}
}

func TestStore_PatchIsStructural(t *testing.T) {
	t.Parallel()

	p := &recordingPersister{}
	s := newTestStore(t, p)
	rec := s.Append(standardDraft(nil, "OK"))

	goals := []models.SmartGoal{{Area: "Saúde & Energia", Goal: "Caminhar 20 min"}}
	if !s.Patch(rec.ID, models.RecordPatch{SmartGoals: goals}) {
		t.Fatal("Expected patch to find the record")
	}
	if len(rec.SmartGoals) != 0 {
		t.Error("Expected earlier value to remain unchanged")
	}
	got, _ := s.Get(rec.ID)
	if !reflect.DeepEqual(got.SmartGoals, goals) {
		t.Errorf("Expected goals %v, got %v", goals, got.SmartGoals)
	}
	if got.AIResponse != rec.AIResponse || got.AverageScore != rec.AverageScore {
		t.Error("Expected other fields to be preserved")
	}

	writes := len(p.saves)
	if s.Patch("missing", models.RecordPatch{SmartGoals: goals}) {
		t.Error("Expected unknown id to report false")
	}
	if len(p.saves) != writes {
		t.Error("Expected no write for unknown id")
	}
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, &recordingPersister{})
	a := s.Append(standardDraft(nil, "a"))
	b := s.Append(standardDraft(nil, "b"))
	c := s.Append(standardDraft(nil, "c"))

	if !s.Remove(b.ID) {
		t.Fatal("Expected remove to succeed")
	}
	if s.Remove(b.ID) {
		t.Error("Expected second remove to report false")
	}
	ids := []string{}
	for _, r := range s.List() {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{c.ID, a.ID}) {
		t.Errorf("Unexpected ids after remove: %v", ids)
	}
}

func TestRestore(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	custom := models.AnalysisRecord{
		ID:         "x",
		Timestamp:  ts,
		Scores:     map[string]int{"A": 1, "B": 2, "C": 3, "D": 4},
		UserNotes:  "notes",
		Mode:       models.ModeCustom,
		Categories: []string{"D", "C", "B", "A"},
	}
	mode, session := Restore(custom)
	if mode != models.ModeCustom {
		t.Errorf("Expected custom mode, got %s", mode)
	}
	if !reflect.DeepEqual(session.Categories, custom.Categories) {
		t.Errorf("Expected categories preserved, got %v", session.Categories)
	}
	if session.Notes != "notes" || !session.LastUpdated.Equal(ts) {
		t.Errorf("Unexpected restored session %+v", session)
	}
	session.Scores["A"] = 10
	if custom.Scores["A"] != 1 {
		t.Error("Expected restore to leave the record untouched")
	}

	labels := wheel.StandardCategories()
	legacy := models.AnalysisRecord{Scores: wheel.NewScoreMap(labels, 7)}
	mode, session = Restore(legacy)
	if mode != models.ModeStandard || session.Categories != nil {
		t.Errorf("Expected legacy standard record to restore as standard, got %s %v", mode, session.Categories)
	}

	legacyCustom := models.AnalysisRecord{Scores: map[string]int{"Z": 1, "Y": 2, "X": 3, "W": 4}}
	mode, session = Restore(legacyCustom)
	if mode != models.ModeCustom {
		t.Errorf("Expected custom mode for non-standard keys, got %s", mode)
	}
	if !reflect.DeepEqual(session.Categories, []string{"W", "X", "Y", "Z"}) {
		t.Errorf("Expected sorted fallback categories, got %v", session.Categories)
	}
}
