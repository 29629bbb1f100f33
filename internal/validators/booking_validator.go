package validators

import (
	"time"

	"gorent/internal/utils"
)

type StartFlowRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,object_id"`
}

type SelectDatesRequest struct {
	CheckIn  time.Time `json:"check_in" validate:"required"`
	CheckOut time.Time `json:"check_out" validate:"required"`
}

type SelectInsuranceRequest struct {
	InsuranceTier string `json:"insurance_tier" validate:"required,insurance_tier"`
}

type SelectDeliveryRequest struct {
	AirportDelivery bool `json:"airport_delivery"`
}

type SelectExtrasRequest struct {
	BabySeat   bool `json:"baby_seat"`
	SnowChains bool `json:"snow_chains"`
}

type ConfirmSummaryRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,payment_method"`
	CustomerNotes string `json:"customer_notes" validate:"omitempty,max=500"`
}

type SignContractRequest struct {
	// Signature is the customer's signature as a base64-encoded PNG.
	Signature string `json:"signature" validate:"required,base64"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=signed paid cancelled"`
}

func ValidateSelectDates(req *SelectDatesRequest) ValidationErrors {
	errors := ValidateStruct(req)

	// An inverted or same-day range is normalized to one day downstream,
	// but a rental longer than the cap is rejected here.
	days := utils.CalendarDaysBetween(req.CheckIn, req.CheckOut)
	if days > utils.MaxRentalDays {
		errors = append(errors, ValidationError{
			Field:   "check_out",
			Tag:     "max",
			Message: "rental period exceeds the maximum length",
		})
	}

	return errors
}
