package wheel

import (
	"errors"
	"reflect"
	"testing"
)

func TestSetup_CountOutOfRangeCannotAdvance(t *testing.T) {
	t.Parallel()

	for _, n := range []int{-1, 0, 3, 21, 100} {
		s := NewSetup()
		s.Begin(DefaultCustomCount)
		if err := s.SetCount(n); err != nil {
			t.Fatalf("SetCount(%d) returned %v", n, err)
		}
		if err := s.Continue(); !errors.Is(err, ErrCountOutOfRange) {
			t.Errorf("Continue with count %d: expected ErrCountOutOfRange, got %v", n, err)
		}
		cs, ok := s.State().(SetupCountSelection)
		if !ok {
			t.Fatalf("Expected to stay in count selection, got %s", s.State().Name())
		}
		if cs.Count != n {
			t.Errorf("Expected count %d to be kept, got %d", n, cs.Count)
		}
	}
}

func TestSetup_FullFlow(t *testing.T) {
	t.Parallel()

	s := NewSetup()
	if s.InProgress() {
		t.Fatal("Expected new setup to be inactive")
	}
	s.Begin(DefaultCustomCount)
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue failed: %v", err)
	}
	ne, ok := s.State().(SetupNameEntry)
	if !ok {
		t.Fatalf("Expected name entry, got %s", s.State().Name())
	}
	want := []string{"Área 1", "Área 2", "Área 3", "Área 4"}
	if !reflect.DeepEqual(ne.Names, want) {
		t.Errorf("Expected placeholders %v, got %v", want, ne.Names)
	}

	for i, name := range []string{"A", "A", "B", "A"} {
		if err := s.SetName(i, name); err != nil {
			t.Fatalf("SetName(%d) failed: %v", i, err)
		}
	}
	if err := s.SetName(4, "x"); !errors.Is(err, ErrNameIndex) {
		t.Errorf("Expected ErrNameIndex, got %v", err)
	}

	set, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if got := set.Labels(); !reflect.DeepEqual(got, []string{"A", "A 2", "B", "A 3"}) {
		t.Errorf("Unexpected finalized labels %v", got)
	}
	if _, ok := s.State().(SetupFinalized); !ok {
		t.Errorf("Expected finalized state, got %s", s.State().Name())
	}
	if s.InProgress() {
		t.Error("Expected finalized setup not to be in progress")
	}
}

func TestSetup_BackDiscardsNames(t *testing.T) {
	t.Parallel()

	s := NewSetup()
	s.Begin(5)
	if err := s.Continue(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetName(0, "Corpo"); err != nil {
		t.Fatal(err)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	cs, ok := s.State().(SetupCountSelection)
	if !ok || cs.Count != 5 {
		t.Fatalf("Expected count selection with 5, got %#v", s.State())
	}
	if err := s.Continue(); err != nil {
		t.Fatal(err)
	}
	ne := s.State().(SetupNameEntry)
	if ne.Names[0] != "Área 1" {
		t.Errorf("Expected names to be reseeded, got %q", ne.Names[0])
	}
}

func TestSetup_InvalidTransitions(t *testing.T) {
	t.Parallel()

	s := NewSetup()
	if err := s.Continue(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Continue from inactive: expected ErrInvalidTransition, got %v", err)
	}
	if err := s.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Back from inactive: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := s.Finish(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finish from inactive: expected ErrInvalidTransition, got %v", err)
	}
	s.Begin(4)
	if err := s.SetName(0, "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SetName in count selection: expected ErrInvalidTransition, got %v", err)
	}
}

func TestSetup_StateIsCopied(t *testing.T) {
	t.Parallel()

	s := NewSetup()
	s.Begin(4)
	if err := s.Continue(); err != nil {
		t.Fatal(err)
	}
	ne := s.State().(SetupNameEntry)
	ne.Names[0] = "mutated"
	if s.State().(SetupNameEntry).Names[0] != "Área 1" {
		t.Error("Expected State() to return a copy of the names")
	}
}
