package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records the handoff from a signed booking into the payment
// gateway. The gateway conversation itself lives behind pkg/payment.
type Payment struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID     primitive.ObjectID `json:"booking_id" bson:"booking_id" validate:"required"`
	CustomerID    primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	VehicleID     primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	Amount        float64            `json:"amount" bson:"amount" validate:"required"`
	Currency      string             `json:"currency" bson:"currency" default:"EUR"`
	PaymentMethod PaymentMethod      `json:"payment_method" bson:"payment_method"`
	Status        PaymentStatus      `json:"status" bson:"status" default:"pending"`
	Provider      string             `json:"provider" bson:"provider"`
	ExternalID    string             `json:"external_id" bson:"external_id"`
	FailureReason string             `json:"failure_reason" bson:"failure_reason"`
	ProcessedAt   *time.Time         `json:"processed_at" bson:"processed_at"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
