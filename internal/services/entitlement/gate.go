// Package entitlement decides which features a client may use.
package entitlement

import (
	"errors"
	"strings"

	"github.com/benvon/roda-da-vida/internal/validation"
)

// InvalidEmailText is shown when an email is rejected
const InvalidEmailText = "Por favor, insira um email válido."

// ErrInvalidEmail is returned by CaptureEmail for malformed input
var ErrInvalidEmail = errors.New("invalid email")

// Store persists the gate's flags. Writes never fail from the caller's side.
type Store interface {
	SaveEmail(email string)
	SavePremium()
}

// Gate holds the email and premium flags of one client. It is not safe for
// concurrent use.
type Gate struct {
	email   string
	premium bool
	store   Store
}

// NewGate starts from previously persisted flags
func NewGate(email string, premium bool, store Store) *Gate {
	return &Gate{
		email:   email,
		premium: premium,
		store:   store,
	}
}

// NeedsEmail reports whether an email must still be captured before analysing
func (g *Gate) NeedsEmail() bool {
	return g.email == ""
}

// Email returns the captured email, or ""
func (g *Gate) Email() string {
	return g.email
}

// CaptureEmail validates and stores email. Capturing again overwrites.
func (g *Gate) CaptureEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Validate.Var(email, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	g.email = email
	g.store.SaveEmail(email)
	return nil
}

// IsPremium reports whether SMART goals and PDF export are unlocked
func (g *Gate) IsPremium() bool {
	return g.premium
}

// GrantPremium unlocks premium features. There is no way back.
func (g *Gate) GrantPremium() {
	if g.premium {
		return
	}
	g.premium = true
	g.store.SavePremium()
}
