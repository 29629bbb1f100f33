package interfaces

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
}
