package payment

import "context"

// Provider opens a payment with an external gateway. The booking flow only
// needs an intent it can hand the customer off to; capture, webhooks and
// refunds belong to the back-office payment screens.
type Provider interface {
	// Name identifies the gateway on stored payment records.
	Name() string
	CreateIntent(ctx context.Context, request *IntentRequest) (*IntentResponse, error)
}

type IntentRequest struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	BookingID   string            `json:"booking_id"`
	CustomerID  string            `json:"customer_id"`
	Metadata    map[string]string `json:"metadata"`
}

type IntentResponse struct {
	IntentID  string  `json:"intent_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}
