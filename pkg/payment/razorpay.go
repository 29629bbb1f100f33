package payment

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (r *RazorpayProvider) Name() string {
	return "razorpay"
}

func (r *RazorpayProvider) CreateIntent(ctx context.Context, request *IntentRequest) (*IntentResponse, error) {
	notes := map[string]interface{}{
		"booking_id":  request.BookingID,
		"customer_id": request.CustomerID,
	}
	for key, value := range request.Metadata {
		notes[key] = value
	}

	orderData := map[string]interface{}{
		"amount":   int(request.Amount * 100), // smallest currency unit
		"currency": request.Currency,
		"receipt":  request.BookingID,
		"notes":    notes,
	}

	// Razorpay authorizes on the frontend; the order is the intent.
	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	id, _ := order["id"].(string)
	resp := &IntentResponse{
		IntentID: id,
		Status:   "created",
		Amount:   request.Amount,
		Currency: request.Currency,
	}
	if created, ok := order["created_at"].(int); ok {
		resp.CreatedAt = int64(created)
	}
	return resp, nil
}
