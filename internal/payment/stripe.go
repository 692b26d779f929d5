// Package payment wraps the Stripe API behind the narrow surface the
// booking flow needs: create an intent, read an intent's status.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

// Gate is the payment oracle. Money is charged upstream by the client;
// the server only creates intents and verifies their status before
// committing capacity.
type Gate struct {
	api *client.API
}

func New(secretKey string) *Gate {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gate{api: api}
}

// CreateIntent creates a payment intent for the given minor-unit amount.
// Metadata travels back on webhooks and dashboard views, so callers pass
// the booking coordinates there.
func (g *Gate) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	const op = "payment.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

// GetStatus retrieves the current status of an intent by id.
func (g *Gate) GetStatus(ctx context.Context, id string) (string, error) {
	const op = "payment.GetStatus"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return string(pi.Status), nil
}
