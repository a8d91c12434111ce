package models

import "time"

// Mode identifies which wheel a session or record belongs to
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeCustom   Mode = "custom"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeCustom
}

// Label returns the pt-BR label used in reports
func (m Mode) Label() string {
	if m == ModeCustom {
		return "Customizada"
	}
	return "Padrão"
}

// Session is the editable draft of one wheel.
// Categories is only persisted for the custom wheel; the standard wheel
// always uses the built-in list.
type Session struct {
	Categories  []string       `json:"categories,omitempty"`
	Scores      map[string]int `json:"scores"`
	Notes       string         `json:"notes"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		Notes:       s.Notes,
		LastUpdated: s.LastUpdated,
		Scores:      make(map[string]int, len(s.Scores)),
	}
	if s.Categories != nil {
		out.Categories = append([]string(nil), s.Categories...)
	}
	for k, v := range s.Scores {
		out.Scores[k] = v
	}
	return out
}
