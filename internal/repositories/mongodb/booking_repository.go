package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
)

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetByContractID(ctx context.Context, contractID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"contract_id": contractID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by contract: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	updates := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}

	switch status {
	case models.BookingStatusSigned:
		updates["signed_at"] = time.Now()
	case models.BookingStatusPaid:
		updates["paid_at"] = time.Now()
	case models.BookingStatusCancelled:
		updates["cancelled_at"] = time.Now()
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter *interfaces.BookingFilter) ([]*models.Booking, error) {
	query := buildBookingQuery(filter)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter != nil && filter.Limit > 0 {
		opts.SetLimit(filter.Limit).SetSkip(filter.Offset)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	// A booking touches the window when it starts before the window ends
	// and ends after the window starts. Cancelled bookings do not occupy
	// calendar days.
	query := bson.M{
		"check_in":  bson.M{"$lte": to},
		"check_out": bson.M{"$gte": from},
		"status":    bson.M{"$ne": models.BookingStatusCancelled},
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter *interfaces.BookingFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildBookingQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func buildBookingQuery(filter *interfaces.BookingFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}

	if filter.CustomerID != nil {
		query["customer_id"] = *filter.CustomerID
	}
	if filter.VehicleID != nil {
		query["vehicle_id"] = *filter.VehicleID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	return query
}
