package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
)

const vehicleCacheTTL = 10 * time.Minute

// CacheService is the slice of the Redis cache the repositories use.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type vehicleRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewVehicleRepository(db *mongo.Database, cache CacheService) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection("vehicles"),
		cache:      cache,
	}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()
	vehicle.LicensePlate = strings.ToUpper(vehicle.LicensePlate)

	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	r.cacheVehicle(ctx, vehicle)
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	if vehicle := r.vehicleFromCache(ctx, id.Hex()); vehicle != nil {
		return vehicle, nil
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	r.cacheVehicle(ctx, &vehicle)
	return &vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if plate, exists := updates["license_plate"]; exists {
		if plateStr, ok := plate.(string); ok {
			updates["license_plate"] = strings.ToUpper(plateStr)
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrVehicleNotFound
	}

	r.invalidateVehicle(ctx, id.Hex())
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return interfaces.ErrVehicleNotFound
	}

	r.invalidateVehicle(ctx, id.Hex())
	return nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) SetMaintenance(ctx context.Context, id primitive.ObjectID, inMaintenance bool) error {
	return r.Update(ctx, id, map[string]interface{}{"in_maintenance": inMaintenance})
}

func (r *vehicleRepository) cacheVehicle(ctx context.Context, vehicle *models.Vehicle) {
	if r.cache == nil {
		return
	}
	// Cache failures are invisible to callers; Mongo stays authoritative.
	_ = r.cache.Set(ctx, vehicleCacheKey(vehicle.ID.Hex()), vehicle, vehicleCacheTTL)
}

func (r *vehicleRepository) vehicleFromCache(ctx context.Context, id string) *models.Vehicle {
	if r.cache == nil {
		return nil
	}

	var vehicle models.Vehicle
	if err := r.cache.Get(ctx, vehicleCacheKey(id), &vehicle); err != nil {
		return nil
	}
	return &vehicle
}

func (r *vehicleRepository) invalidateVehicle(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, vehicleCacheKey(id))
}

func vehicleCacheKey(id string) string {
	return "vehicle:" + id
}
