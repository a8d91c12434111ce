// Package history keeps the newest-first list of completed analyses.
package history

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/benvon/roda-da-vida/internal/models"
	"github.com/benvon/roda-da-vida/internal/wheel"
)

// DisplayLayout is the pt-BR date shown for a record
const DisplayLayout = "02/01/2006 às 15:04"

// Persister receives the full list after every change
type Persister interface {
	SaveHistory(records []models.AnalysisRecord)
}

// Draft is what a completed analysis contributes to a new record
type Draft struct {
	Mode       models.Mode
	Categories []string
	Scores     map[string]int
	Notes      string
	AIResponse string
}

// Store is the analysis history. It is not safe for concurrent use.
type Store struct {
	records []models.AnalysisRecord
	store   Persister
	loc     *time.Location
	now     func() time.Time
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone used for FormattedDate
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewStore wraps previously persisted records, newest first
func NewStore(records []models.AnalysisRecord, store Persister, opts ...Option) *Store {
	s := &Store{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.records = make([]models.AnalysisRecord, 0, len(records))
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return s
}

// Append freezes draft into a new record and puts it first
func (s *Store) Append(d Draft) models.AnalysisRecord {
	ts := s.now()
	labels := append([]string(nil), d.Categories...)
	scores := make(map[string]int, len(d.Scores))
	for k, v := range d.Scores {
		scores[k] = v
	}

	rec := models.AnalysisRecord{
		ID:            s.newID(),
		Timestamp:     ts.UTC(),
		FormattedDate: ts.In(s.loc).Format(DisplayLayout),
		Scores:        scores,
		UserNotes:     d.Notes,
		AIResponse:    d.AIResponse,
		AverageScore:  wheel.AverageScore(labels, scores),
		Mode:          d.Mode,
		Categories:    labels,
	}

	s.records = append([]models.AnalysisRecord{rec}, s.records...)
	s.persist()
	return rec.Clone()
}

// Patch replaces the record with id by a copy carrying the patched fields.
// It reports false for an unknown id.
func (s *Store) Patch(id string, p models.RecordPatch) bool {
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		next := s.records[i].Clone()
		if p.SmartGoals != nil {
			next.SmartGoals = append([]models.SmartGoal(nil), p.SmartGoals...)
		}
		s.records[i] = next
		s.persist()
		return true
	}
	return false
}

// Remove deletes the record with id. It reports false when nothing matched.
func (s *Store) Remove(id string) bool {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			s.persist()
			return true
		}
	}
	return false
}

// Get returns a copy of the record with id
func (s *Store) Get(id string) (models.AnalysisRecord, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return models.AnalysisRecord{}, false
}

// Latest returns the newest record
func (s *Store) Latest() (models.AnalysisRecord, bool) {
	if len(s.records) == 0 {
		return models.AnalysisRecord{}, false
	}
	return s.records[0].Clone(), true
}

// List returns copies of every record, newest first
func (s *Store) List() []models.AnalysisRecord {
	out := make([]models.AnalysisRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Len is the number of records
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) persist() {
	if s.store != nil {
		s.store.SaveHistory(s.List())
	}
}

// Restore turns a record back into an editable session without touching
// history. Records written before categories were stored fall back to their
// score keys. A record without a mode is standard unless its categories
// differ from the standard list.
func Restore(r models.AnalysisRecord) (models.Mode, *models.Session) {
	labels := append([]string(nil), r.Categories...)
	if len(labels) == 0 {
		labels = standardOrder(r.Scores)
	}

	mode := r.Mode
	if !mode.Valid() {
		mode = models.ModeStandard
		if !isStandard(labels) {
			mode = models.ModeCustom
		}
	}

	session := &models.Session{
		Scores:      wheel.NormalizeScores(labels, r.Scores),
		Notes:       r.UserNotes,
		LastUpdated: r.Timestamp,
	}
	if mode == models.ModeCustom {
		session.Categories = labels
	}
	return mode, session
}

// standardOrder lists score keys in the standard order when they are all
// standard areas, otherwise sorted
func standardOrder(scores map[string]int) []string {
	std := wheel.StandardSet()
	labels := make([]string, 0, len(scores))
	all := true
	for k := range scores {
		if !std.Contains(k) {
			all = false
		}
		labels = append(labels, k)
	}
	if all && len(labels) == std.Len() {
		return std.Labels()
	}
	sort.Strings(labels)
	return labels
}

func isStandard(labels []string) bool {
	std := wheel.StandardCategories()
	if len(labels) != len(std) {
		return false
	}
	for i := range std {
		if labels[i] != std[i] {
			return false
		}
	}
	return true
}
