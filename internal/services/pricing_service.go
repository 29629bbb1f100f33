package services

import (
	"time"

	"gorent/internal/models"
	"gorent/internal/utils"
)

// Quote is the price breakdown for a rental. All amounts are euros.
type Quote struct {
	Days           int                  `json:"days"`
	DailyRate      float64              `json:"daily_rate"`
	BaseTotal      float64              `json:"base_total"`
	InsuranceTier  models.InsuranceTier `json:"insurance_tier"`
	InsuranceAddOn float64              `json:"insurance_add_on"`
	ExtrasTotal    float64              `json:"extras_total"`
	TotalDue       float64              `json:"total_due"`
	Deductible     float64              `json:"deductible"`
}

// PricingService computes quotes. Pure and deterministic: no I/O, so the
// summary step can re-run it on every option change.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// Quote prices a rental of the vehicle over [checkIn, checkOut] with the
// selected options. A same-day or inverted range counts as one day; an
// insurance tier the vehicle has no rate for adds nothing rather than
// failing the quote.
func (s *PricingService) Quote(vehicle *models.Vehicle, checkIn, checkOut time.Time, options models.OptionSelection) *Quote {
	days := utils.CalendarDaysBetween(checkIn, checkOut)
	if days < utils.MinRentalDays {
		days = utils.MinRentalDays
	}

	baseTotal := vehicle.DailyRate * float64(days)
	insuranceAddOn := vehicle.InsuranceRate(options.InsuranceTier) * float64(days)

	var extrasTotal float64
	if options.AirportDelivery {
		extrasTotal += utils.FlatAirportFee
	}
	if options.BabySeat {
		extrasTotal += utils.PerDayBabySeatFee * float64(days)
	}
	if options.SnowChains {
		extrasTotal += utils.PerDaySnowChainsFee * float64(days)
	}

	return &Quote{
		Days:           days,
		DailyRate:      vehicle.DailyRate,
		BaseTotal:      baseTotal,
		InsuranceTier:  options.InsuranceTier,
		InsuranceAddOn: insuranceAddOn,
		ExtrasTotal:    extrasTotal,
		TotalDue:       baseTotal + insuranceAddOn + extrasTotal,
		Deductible:     vehicle.Deductible,
	}
}
