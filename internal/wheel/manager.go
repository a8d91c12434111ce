package wheel

import (
	"errors"
	"time"

	"github.com/benvon/roda-da-vida/internal/models"
)

// ErrNoCustomSession is returned when an action needs a finalized custom wheel
var ErrNoCustomSession = errors.New("no custom wheel has been set up")

// Persister mirrors session changes to durable storage.
// Implementations must not block and never report failures.
type Persister interface {
	SaveSession(mode models.Mode, session *models.Session)
	SaveMode(mode models.Mode)
}

// Snapshot is a point-in-time copy of the active wheel
type Snapshot struct {
	Mode       models.Mode
	Categories []string
	Scores     map[string]int
	Notes      string
}

// View describes what the wheel currently shows. When SettingUp is true the
// custom wheel is hidden behind the setup wizard and Categories is empty.
type View struct {
	Mode        models.Mode
	Categories  []string
	Scores      map[string]int
	Notes       string
	LastUpdated time.Time
	SettingUp   bool
	Setup       SetupState
	HasCustom   bool
}

// State is what a Manager is built from
type State struct {
	Mode     models.Mode
	Standard *models.Session
	Custom   *models.Session
}

// Manager owns the standard and custom drafts and the setup wizard.
// It is not safe for concurrent use; callers serialise access.
type Manager struct {
	mode     models.Mode
	standard *models.Session
	custom   *models.Session
	setup    *Setup
	store    Persister
	now      func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a manager from previously persisted state.
// A missing standard session starts with every area at DefaultScore.
func NewManager(state State, store Persister, opts ...Option) *Manager {
	m := &Manager{
		mode:  models.ModeStandard,
		setup: NewSetup(),
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	labels := StandardCategories()
	if state.Standard != nil {
		m.standard = &models.Session{
			Scores:      NormalizeScores(labels, state.Standard.Scores),
			Notes:       state.Standard.Notes,
			LastUpdated: state.Standard.LastUpdated,
		}
	} else {
		m.standard = &models.Session{
			Scores:      NewScoreMap(labels, DefaultScore),
			LastUpdated: m.now(),
		}
	}

	if state.Custom != nil && len(state.Custom.Categories) > 0 {
		m.custom = normalizeCustom(state.Custom)
	}

	if state.Mode == models.ModeCustom {
		m.mode = models.ModeCustom
		if m.custom == nil {
			m.setup.Begin(DefaultCustomCount)
		}
	}
	return m
}

func normalizeCustom(s *models.Session) *models.Session {
	labels := SetFromLabels(s.Categories).Labels()
	return &models.Session{
		Categories:  labels,
		Scores:      NormalizeScores(labels, s.Scores),
		Notes:       s.Notes,
		LastUpdated: s.LastUpdated,
	}
}

// Mode returns the active mode
func (m *Manager) Mode() models.Mode {
	return m.mode
}

// SetupState exposes the wizard state
func (m *Manager) SetupState() SetupState {
	return m.setup.State()
}

// active returns the session being edited, or nil while the custom wheel is
// hidden behind setup
func (m *Manager) active() *models.Session {
	if m.mode == models.ModeStandard {
		return m.standard
	}
	if m.setup.InProgress() {
		return nil
	}
	return m.custom
}

func (m *Manager) activeLabels() []string {
	if m.mode == models.ModeStandard {
		return StandardCategories()
	}
	if m.custom == nil {
		return nil
	}
	return append([]string(nil), m.custom.Categories...)
}

// View returns a copy of what the wheel shows
func (m *Manager) View() View {
	v := View{
		Mode:      m.mode,
		Setup:     m.setup.State(),
		SettingUp: m.mode == models.ModeCustom && m.setup.InProgress(),
		HasCustom: m.custom != nil,
	}
	if s := m.active(); s != nil {
		v.Categories = m.activeLabels()
		v.Scores = s.Clone().Scores
		v.Notes = s.Notes
		v.LastUpdated = s.LastUpdated
	}
	return v
}

// Snapshot copies the active wheel. ok is false while no wheel is visible.
func (m *Manager) Snapshot() (Snapshot, bool) {
	s := m.active()
	if s == nil {
		return Snapshot{}, false
	}
	return Snapshot{
		Mode:       m.mode,
		Categories: m.activeLabels(),
		Scores:     s.Clone().Scores,
		Notes:      s.Notes,
	}, true
}

// Session returns a copy of the stored session for mode, or nil
func (m *Manager) Session(mode models.Mode) *models.Session {
	if mode == models.ModeCustom {
		return m.custom.Clone()
	}
	return m.standard.Clone()
}

// SetScore parses raw, clamps it and stores it for category.
// It reports false and changes nothing when category is not on the active wheel.
func (m *Manager) SetScore(category, raw string) bool {
	s := m.active()
	if s == nil {
		return false
	}
	if _, ok := s.Scores[category]; !ok {
		return false
	}
	s.Scores[category] = ParseScore(raw)
	m.touch(s)
	return true
}

// SetNotes replaces the notes of the active wheel verbatim
func (m *Manager) SetNotes(text string) bool {
	s := m.active()
	if s == nil {
		return false
	}
	s.Notes = text
	m.touch(s)
	return true
}

func (m *Manager) touch(s *models.Session) {
	s.LastUpdated = m.now()
	m.store.SaveSession(m.mode, s.Clone())
}

// SwitchMode activates target. Entering custom mode without a custom wheel
// starts the setup wizard; neither wheel is ever discarded by a switch.
func (m *Manager) SwitchMode(target models.Mode) {
	if !target.Valid() {
		return
	}
	switch target {
	case models.ModeCustom:
		if m.custom == nil && !m.setup.InProgress() {
			m.setup.Begin(DefaultCustomCount)
		}
	case models.ModeStandard:
		m.setup.Cancel()
	}
	if m.mode != target {
		m.mode = target
		m.store.SaveMode(target)
	}
}

// EditCustomAreas reopens the wizard for an existing custom wheel.
// Finishing it replaces the wheel and resets every score.
func (m *Manager) EditCustomAreas() error {
	if m.mode != models.ModeCustom {
		return ErrInvalidTransition
	}
	count := DefaultCustomCount
	if m.custom != nil {
		count = len(m.custom.Categories)
	}
	m.setup.Begin(count)
	return nil
}

// SetSetupCount forwards to the wizard
func (m *Manager) SetSetupCount(count int) error {
	return m.setup.SetCount(count)
}

// ContinueSetup forwards to the wizard
func (m *Manager) ContinueSetup() error {
	return m.setup.Continue()
}

// SetSetupName forwards to the wizard
func (m *Manager) SetSetupName(index int, name string) error {
	return m.setup.SetName(index, name)
}

// SetSetupNames forwards to the wizard
func (m *Manager) SetSetupNames(names []string) error {
	return m.setup.SetNames(names)
}

// BackSetup forwards to the wizard
func (m *Manager) BackSetup() error {
	return m.setup.Back()
}

// CancelSetup closes the wizard. Without a custom wheel to fall back on the
// wheel returns to standard mode.
func (m *Manager) CancelSetup() {
	m.setup.Cancel()
	if m.custom == nil && m.mode == models.ModeCustom {
		m.mode = models.ModeStandard
		m.store.SaveMode(m.mode)
	}
}

// FinishSetup builds the custom wheel from the wizard, replacing any previous
// custom wheel wholesale: every area starts at DefaultScore with empty notes.
func (m *Manager) FinishSetup() (CategorySet, error) {
	set, err := m.setup.Finish()
	if err != nil {
		return CategorySet{}, err
	}
	labels := set.Labels()
	m.custom = &models.Session{
		Categories:  labels,
		Scores:      NewScoreMap(labels, DefaultScore),
		LastUpdated: m.now(),
	}
	m.mode = models.ModeCustom
	m.store.SaveSession(models.ModeCustom, m.custom.Clone())
	m.store.SaveMode(m.mode)
	return set, nil
}

// Apply makes session the active wheel for mode, as when a history record is
// opened for editing. A custom session needs its categories.
func (m *Manager) Apply(mode models.Mode, session *models.Session) error {
	if session == nil || !mode.Valid() {
		return ErrInvalidTransition
	}
	m.setup.Cancel()
	switch mode {
	case models.ModeCustom:
		if len(session.Categories) == 0 {
			return ErrNoCustomSession
		}
		m.custom = normalizeCustom(session)
		m.store.SaveSession(models.ModeCustom, m.custom.Clone())
	default:
		labels := StandardCategories()
		m.standard = &models.Session{
			Scores:      NormalizeScores(labels, session.Scores),
			Notes:       session.Notes,
			LastUpdated: session.LastUpdated,
		}
		m.store.SaveSession(models.ModeStandard, m.standard.Clone())
	}
	m.mode = mode
	m.store.SaveMode(mode)
	return nil
}
