package wheel

import (
	"errors"
	"fmt"
)

// DefaultCustomCount is the wheel size offered when setup starts
const DefaultCustomCount = MinCustomCategories

var (
	// ErrInvalidTransition is returned when a setup step is not allowed in the current state
	ErrInvalidTransition = errors.New("invalid setup transition")
	// ErrNameIndex is returned when a name index is outside the entry list
	ErrNameIndex = errors.New("name index out of range")
)

// SetupState is one of SetupInactive, SetupCountSelection, SetupNameEntry or SetupFinalized
type SetupState interface {
	// Name is the wire name of the state
	Name() string
	setupState()
}

// SetupInactive means no custom setup is in progress
type SetupInactive struct{}

// SetupCountSelection holds the requested wheel size, which may be out of range
type SetupCountSelection struct {
	Count int
}

// SetupNameEntry holds one editable name per area
type SetupNameEntry struct {
	Names []string
}

// SetupFinalized holds the category set produced by the last finished setup
type SetupFinalized struct {
	Categories CategorySet
}

func (SetupInactive) Name() string       { return "inactive" }
func (SetupCountSelection) Name() string { return "count_selection" }
func (SetupNameEntry) Name() string      { return "name_entry" }
func (SetupFinalized) Name() string      { return "finalized" }

func (SetupInactive) setupState()       {}
func (SetupCountSelection) setupState() {}
func (SetupNameEntry) setupState()      {}
func (SetupFinalized) setupState()      {}

// Setup drives the custom category wizard
type Setup struct {
	state SetupState
}

// NewSetup returns an inactive setup
func NewSetup() *Setup {
	return &Setup{state: SetupInactive{}}
}

// State returns the current state. NameEntry names are copied.
func (s *Setup) State() SetupState {
	if ne, ok := s.state.(SetupNameEntry); ok {
		return SetupNameEntry{Names: append([]string(nil), ne.Names...)}
	}
	return s.state
}

// InProgress reports whether the wizard is collecting input
func (s *Setup) InProgress() bool {
	switch s.state.(type) {
	case SetupCountSelection, SetupNameEntry:
		return true
	}
	return false
}

// Begin (re)starts the wizard at count selection. Any previous progress is discarded.
func (s *Setup) Begin(count int) {
	s.state = SetupCountSelection{Count: count}
}

// SetCount records the requested size. Range is only enforced by Continue.
func (s *Setup) SetCount(count int) error {
	if _, ok := s.state.(SetupCountSelection); !ok {
		return fmt.Errorf("set count in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	s.state = SetupCountSelection{Count: count}
	return nil
}

// Continue moves to name entry with placeholder names "Área 1".."Área N"
func (s *Setup) Continue() error {
	cs, ok := s.state.(SetupCountSelection)
	if !ok {
		return fmt.Errorf("continue in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	if cs.Count < MinCustomCategories || cs.Count > MaxCustomCategories {
		return ErrCountOutOfRange
	}
	names := make([]string, cs.Count)
	for i := range names {
		names[i] = fmt.Sprintf("Área %d", i+1)
	}
	s.state = SetupNameEntry{Names: names}
	return nil
}

// SetName replaces the name at index. Blank and duplicate names are accepted.
func (s *Setup) SetName(index int, name string) error {
	ne, ok := s.state.(SetupNameEntry)
	if !ok {
		return fmt.Errorf("set name in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	if index < 0 || index >= len(ne.Names) {
		return ErrNameIndex
	}
	names := append([]string(nil), ne.Names...)
	names[index] = name
	s.state = SetupNameEntry{Names: names}
	return nil
}

// SetNames replaces all names at once; the count must match
func (s *Setup) SetNames(names []string) error {
	ne, ok := s.state.(SetupNameEntry)
	if !ok {
		return fmt.Errorf("set names in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	if len(names) != len(ne.Names) {
		return ErrNameIndex
	}
	s.state = SetupNameEntry{Names: append([]string(nil), names...)}
	return nil
}

// Back returns to count selection, dropping the names
func (s *Setup) Back() error {
	ne, ok := s.state.(SetupNameEntry)
	if !ok {
		return fmt.Errorf("back in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	s.state = SetupCountSelection{Count: len(ne.Names)}
	return nil
}

// Finish dedupes the names and returns the new category set
func (s *Setup) Finish() (CategorySet, error) {
	ne, ok := s.state.(SetupNameEntry)
	if !ok {
		return CategorySet{}, fmt.Errorf("finish in %s: %w", s.state.Name(), ErrInvalidTransition)
	}
	set, err := NewCustomSet(ne.Names)
	if err != nil {
		return CategorySet{}, err
	}
	s.state = SetupFinalized{Categories: set}
	return set, nil
}

// Cancel leaves the wizard without building anything
func (s *Setup) Cancel() {
	s.state = SetupInactive{}
}
