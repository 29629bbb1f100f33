package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentMethod string

const (
	BookingStatusPendingSignature BookingStatus = "pending_signature"
	BookingStatusSigned           BookingStatus = "signed"
	BookingStatusPaid             BookingStatus = "paid"
	BookingStatusCancelled        BookingStatus = "cancelled"

	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"
)

// OptionSelection is the set of add-ons the customer picked. It affects
// price only, never availability.
type OptionSelection struct {
	InsuranceTier   InsuranceTier `json:"insurance_tier" bson:"insurance_tier"`
	AirportDelivery bool          `json:"airport_delivery" bson:"airport_delivery"`
	BabySeat        bool          `json:"baby_seat" bson:"baby_seat"`
	SnowChains      bool          `json:"snow_chains" bson:"snow_chains"`
}

// Booking is the central rental record. Pricing fields are a snapshot taken
// at confirmation time; later changes to the vehicle's rate card never
// alter a stored booking.
type Booking struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ContractID      string             `json:"contract_id" bson:"contract_id" validate:"required"`
	CustomerID      primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	VehicleID       primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id" validate:"required"`
	CheckIn         time.Time          `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut        time.Time          `json:"check_out" bson:"check_out" validate:"required"`
	Days            int                `json:"days" bson:"days"`
	DailyRate       float64            `json:"daily_rate" bson:"daily_rate"`
	BaseTotal       float64            `json:"base_total" bson:"base_total"`
	InsuranceTier   InsuranceTier      `json:"insurance_tier" bson:"insurance_tier"`
	InsuranceAddOn  float64            `json:"insurance_add_on" bson:"insurance_add_on"`
	AirportDelivery bool               `json:"airport_delivery" bson:"airport_delivery"`
	BabySeat        bool               `json:"baby_seat" bson:"baby_seat"`
	SnowChains      bool               `json:"snow_chains" bson:"snow_chains"`
	ExtrasTotal     float64            `json:"extras_total" bson:"extras_total"`
	TotalDue        float64            `json:"total_due" bson:"total_due"`
	Deductible      float64            `json:"deductible" bson:"deductible"`
	Status          BookingStatus      `json:"status" bson:"status" default:"pending_signature"`
	PaymentMethod   PaymentMethod      `json:"payment_method" bson:"payment_method"`
	Mileage         int                `json:"mileage" bson:"mileage"`
	DamageNotes     string             `json:"damage_notes" bson:"damage_notes"`
	CustomerNotes   string             `json:"customer_notes" bson:"customer_notes"`
	SignedAt        *time.Time         `json:"signed_at" bson:"signed_at"`
	PaidAt          *time.Time         `json:"paid_at" bson:"paid_at"`
	CancelledAt     *time.Time         `json:"cancelled_at" bson:"cancelled_at"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// Options reconstructs the selection the pricing snapshot was built from.
func (b *Booking) Options() OptionSelection {
	return OptionSelection{
		InsuranceTier:   b.InsuranceTier,
		AirportDelivery: b.AirportDelivery,
		BabySeat:        b.BabySeat,
		SnowChains:      b.SnowChains,
	}
}

// CoreTermsFrozen reports whether dates, price and vehicle may no longer
// change. Once the contract is signed only operational fields (mileage,
// damage notes) and payment state move.
func (b *Booking) CoreTermsFrozen() bool {
	switch b.Status {
	case BookingStatusSigned, BookingStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo enforces the booking lifecycle:
// pending_signature -> signed -> paid, with cancellation reachable from
// any state before payment.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusPendingSignature:
		return next == BookingStatusSigned || next == BookingStatusCancelled
	case BookingStatusSigned:
		return next == BookingStatusPaid || next == BookingStatusCancelled
	}
	return false
}
