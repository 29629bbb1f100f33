package interfaces

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
}
