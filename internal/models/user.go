package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string
type UserType string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"

	UserTypeCustomer UserType = "customer"
	UserTypeStaff    UserType = "staff"
	UserTypeAdmin    UserType = "admin"
)

type User struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName     string             `json:"first_name" bson:"first_name" validate:"required"`
	LastName      string             `json:"last_name" bson:"last_name" validate:"required"`
	Email         string             `json:"email" bson:"email" validate:"required,email"`
	Phone         string             `json:"phone" bson:"phone"`
	UserType      UserType           `json:"user_type" bson:"user_type" default:"customer"`
	Status        UserStatus         `json:"status" bson:"status" default:"active"`
	LicenseNumber string             `json:"license_number" bson:"license_number"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
