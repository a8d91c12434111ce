// Package payment creates and confirms the one-off premium purchase.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/benvon/roda-da-vida/internal/models"
)

// Premium price defaults: R$ 7,99
const (
	DefaultAmount   int64 = 799
	DefaultCurrency       = "brl"
)

// Product tags every intent this service creates
const Product = "roda_da_vida_premium"

// ErrUnknownIntent is returned when confirming an intent the processor never
// issued for this charge: another client, price or product
var ErrUnknownIntent = errors.New("unknown payment intent")

// Charge is one client's premium purchase
type Charge struct {
	ClientID string
	Amount   int64
	Currency string
}

func (c Charge) matches(clientID string, amount int64, currency string) bool {
	return c.ClientID != "" && c.ClientID == clientID &&
		c.Amount == amount && strings.EqualFold(c.Currency, currency)
}

// Provider is a payment processor
type Provider interface {
	CreateIntent(ctx context.Context, charge Charge) (*models.PaymentIntent, error)
	// Confirm reports whether intentID was issued for charge and has been paid
	Confirm(ctx context.Context, charge Charge, intentID string) (bool, error)
}

// Mock accepts every payment. Intents only live in memory.
type Mock struct {
	mu      sync.Mutex
	intents map[string]Charge
}

// NewMock returns an empty mock processor
func NewMock() *Mock {
	return &Mock{intents: make(map[string]Charge)}
}

func (m *Mock) CreateIntent(ctx context.Context, charge Charge) (*models.PaymentIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if charge.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", charge.Amount)
	}
	if charge.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	id := "pi_mock_" + uuid.NewString()
	m.mu.Lock()
	m.intents[id] = charge
	m.mu.Unlock()
	return &models.PaymentIntent{ID: id, ClientSecret: id + "_secret", Amount: charge.Amount, Currency: charge.Currency}, nil
}

func (m *Mock) Confirm(ctx context.Context, charge Charge, intentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	issued, ok := m.intents[intentID]
	if !ok || !issued.matches(charge.ClientID, charge.Amount, charge.Currency) {
		return false, ErrUnknownIntent
	}
	return true, nil
}

// New returns the provider named by name: mock or stripe
func New(name, secretKey string) (Provider, error) {
	switch name {
	case "", "mock":
		return NewMock(), nil
	case "stripe":
		if secretKey == "" {
			return nil, fmt.Errorf("stripe secret key is required")
		}
		return NewStripe(secretKey, nil), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", name)
	}
}
