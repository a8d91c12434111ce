package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/benvon/roda-da-vida/internal/models"
)

// Stripe creates PaymentIntents with automatic payment methods. Each intent
// carries the product and the buying client id in its metadata.
type Stripe struct {
	api *client.API
}

// NewStripe builds a Stripe processor. backends may be nil.
func NewStripe(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(secretKey, backends)}
}

func (s *Stripe) CreateIntent(ctx context.Context, charge Charge) (*models.PaymentIntent, error) {
	if charge.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(charge.Amount),
		Currency: stripe.String(charge.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("product", Product)
	params.AddMetadata("client_id", charge.ClientID)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (s *Stripe) Confirm(ctx context.Context, charge Charge, intentID string) (bool, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return false, ErrUnknownIntent
		}
		return false, fmt.Errorf("get payment intent: %w", err)
	}
	if pi.Metadata["product"] != Product || !charge.matches(pi.Metadata["client_id"], pi.Amount, string(pi.Currency)) {
		return false, ErrUnknownIntent
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
