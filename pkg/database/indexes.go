package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking and calendar queries rely
// on. Safe to call on every startup; Mongo treats an existing identical
// index as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contract_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "vehicle_id", Value: 1}, {Key: "check_in", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	if _, err := db.Collection("bookings").Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	vehicleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "license_plate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	if _, err := db.Collection("vehicles").Indexes().CreateMany(ctx, vehicleIndexes); err != nil {
		return fmt.Errorf("failed to create vehicle indexes: %w", err)
	}

	paymentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
		},
	}

	if _, err := db.Collection("payments").Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}

	return nil
}
