package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string
type InsuranceTier string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"

	InsuranceTierBasic      InsuranceTier = "basic"
	InsuranceTierComfort    InsuranceTier = "comfort"
	InsuranceTierPremium    InsuranceTier = "premium"
	InsuranceTierSupertotal InsuranceTier = "supertotal"
)

// InsuranceTiers lists the coverage levels in ascending order.
var InsuranceTiers = []InsuranceTier{
	InsuranceTierBasic,
	InsuranceTierComfort,
	InsuranceTierPremium,
	InsuranceTierSupertotal,
}

func (t InsuranceTier) IsValid() bool {
	switch t {
	case InsuranceTierBasic, InsuranceTierComfort, InsuranceTierPremium, InsuranceTierSupertotal:
		return true
	}
	return false
}

type Vehicle struct {
	ID             primitive.ObjectID        `json:"id" bson:"_id,omitempty"`
	Make           string                    `json:"make" bson:"make" validate:"required"`
	Model          string                    `json:"model" bson:"model" validate:"required"`
	Year           int                       `json:"year" bson:"year"`
	Color          string                    `json:"color" bson:"color"`
	LicensePlate   string                    `json:"license_plate" bson:"license_plate" validate:"required"`
	DailyRate      float64                   `json:"daily_rate" bson:"daily_rate" validate:"required"`
	InsuranceRates map[InsuranceTier]float64 `json:"insurance_rates" bson:"insurance_rates"`
	Deductible     float64                   `json:"deductible" bson:"deductible"`
	Status         VehicleStatus             `json:"status" bson:"status" default:"active"`
	InMaintenance  bool                      `json:"in_maintenance" bson:"in_maintenance" default:"false"`
	Photos         []string                  `json:"photos" bson:"photos"`
	Seats          int                       `json:"seats" bson:"seats"`
	CreatedAt      time.Time                 `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at" bson:"updated_at"`
}

// InsuranceRate returns the per-day add-on for the tier. An unknown or
// unpriced tier costs nothing rather than failing the quote.
func (v *Vehicle) InsuranceRate(tier InsuranceTier) float64 {
	if v.InsuranceRates == nil {
		return 0
	}
	return v.InsuranceRates[tier]
}

// Unavailable reports whether the vehicle is withdrawn from rental
// regardless of bookings.
func (v *Vehicle) Unavailable() bool {
	return v.InMaintenance || v.Status == VehicleStatusMaintenance
}

func (v *Vehicle) DisplayName() string {
	if v.Make == "" {
		return v.Model
	}
	return v.Make + " " + v.Model
}
