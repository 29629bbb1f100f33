package interfaces

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingFilter struct {
	CustomerID *primitive.ObjectID
	VehicleID  *primitive.ObjectID
	Status     models.BookingStatus
	Limit      int64
	Offset     int64
}

type BookingRepository interface {
	// Create inserts the booking as a single document; the booking id and
	// contract id land atomically or not at all.
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByContractID(ctx context.Context, contractID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, filter *BookingFilter) ([]*models.Booking, error)
	// ListOverlapping returns bookings whose [check_in, check_out] range
	// touches the given window. Feeds the availability index.
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*models.Booking, error)
	Count(ctx context.Context, filter *BookingFilter) (int64, error)
}
