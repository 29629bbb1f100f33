package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeProvider struct {
	client *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{client: sc}
}

func (s *StripeProvider) Name() string {
	return "stripe"
}

func (s *StripeProvider) CreateIntent(ctx context.Context, request *IntentRequest) (*IntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(request.Amount * 100)), // cents
		Currency:    stripe.String(strings.ToLower(request.Currency)),
		Description: stripe.String(request.Description),
	}
	params.AddMetadata("booking_id", request.BookingID)
	params.AddMetadata("customer_id", request.CustomerID)
	for key, value := range request.Metadata {
		params.AddMetadata(key, value)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &IntentResponse{
		IntentID:  pi.ID,
		Status:    string(pi.Status),
		Amount:    float64(pi.Amount) / 100,
		Currency:  strings.ToUpper(string(pi.Currency)),
		CreatedAt: pi.Created,
	}, nil
}
