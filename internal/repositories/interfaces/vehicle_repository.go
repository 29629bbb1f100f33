package interfaces

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]*models.Vehicle, error)
	SetMaintenance(ctx context.Context, id primitive.ObjectID, inMaintenance bool) error
}
