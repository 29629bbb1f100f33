package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gorent/internal/models"
)

func testVehicle() *models.Vehicle {
	return &models.Vehicle{
		Make:         "Fiat",
		Model:        "Panda",
		LicensePlate: "AB123CD",
		DailyRate:    50,
		Deductible:   500,
		InsuranceRates: map[models.InsuranceTier]float64{
			models.InsuranceTierBasic:      0,
			models.InsuranceTierComfort:    10,
			models.InsuranceTierPremium:    18,
			models.InsuranceTierSupertotal: 25,
		},
		Status: models.VehicleStatusActive,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuoteThreeDayComfort(t *testing.T) {
	pricing := NewPricingService()

	quote := pricing.Quote(testVehicle(), day(2025, 6, 1), day(2025, 6, 4), models.OptionSelection{
		InsuranceTier: models.InsuranceTierComfort,
	})

	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 150.0, quote.BaseTotal)
	assert.Equal(t, 30.0, quote.InsuranceAddOn)
	assert.Equal(t, 0.0, quote.ExtrasTotal)
	assert.Equal(t, 180.0, quote.TotalDue)
	assert.Equal(t, 500.0, quote.Deductible)
}

func TestQuoteWithExtras(t *testing.T) {
	pricing := NewPricingService()

	quote := pricing.Quote(testVehicle(), day(2025, 6, 1), day(2025, 6, 4), models.OptionSelection{
		InsuranceTier:   models.InsuranceTierComfort,
		AirportDelivery: true,
		BabySeat:        true,
	})

	// 180 base+insurance, 20 flat airport, 8/day baby seat over 3 days.
	assert.Equal(t, 224.0, quote.TotalDue)
	assert.Equal(t, 44.0, quote.ExtrasTotal)
}

func TestQuoteSameDayCountsAsOneDay(t *testing.T) {
	pricing := NewPricingService()
	d := day(2025, 6, 1)

	quote := pricing.Quote(testVehicle(), d, d, models.OptionSelection{
		InsuranceTier: models.InsuranceTierBasic,
	})

	assert.Equal(t, 1, quote.Days)
	assert.Equal(t, 50.0, quote.TotalDue)
}

func TestQuoteInvertedRangeCountsAsOneDay(t *testing.T) {
	pricing := NewPricingService()

	quote := pricing.Quote(testVehicle(), day(2025, 6, 10), day(2025, 6, 5), models.OptionSelection{})

	assert.Equal(t, 1, quote.Days)
	assert.Equal(t, 50.0, quote.TotalDue)
}

func TestQuoteIgnoresTimeOfDay(t *testing.T) {
	pricing := NewPricingService()

	late := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	early := time.Date(2025, 6, 3, 0, 15, 0, 0, time.UTC)

	quote := pricing.Quote(testVehicle(), late, early, models.OptionSelection{})
	assert.Equal(t, 2, quote.Days)
}

func TestQuoteAcrossClockChange(t *testing.T) {
	pricing := NewPricingService()

	// The spring clock change shortens the span to 71 hours; the rental
	// is still three calendar days.
	checkIn := time.Date(2025, 3, 28, 0, 0, 0, 0, time.FixedZone("CET", 1*60*60))
	checkOut := time.Date(2025, 3, 31, 0, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	quote := pricing.Quote(testVehicle(), checkIn, checkOut, models.OptionSelection{
		InsuranceTier: models.InsuranceTierComfort,
	})

	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, 180.0, quote.TotalDue)
}

func TestQuoteUnknownTierAddsNothing(t *testing.T) {
	pricing := NewPricingService()

	quote := pricing.Quote(testVehicle(), day(2025, 6, 1), day(2025, 6, 4), models.OptionSelection{
		InsuranceTier: models.InsuranceTier("platinum"),
	})

	assert.Equal(t, 0.0, quote.InsuranceAddOn)
	assert.Equal(t, 150.0, quote.TotalDue)
}

func TestQuoteNilRateCard(t *testing.T) {
	pricing := NewPricingService()
	vehicle := testVehicle()
	vehicle.InsuranceRates = nil

	quote := pricing.Quote(vehicle, day(2025, 6, 1), day(2025, 6, 2), models.OptionSelection{
		InsuranceTier: models.InsuranceTierSupertotal,
	})

	assert.Equal(t, 0.0, quote.InsuranceAddOn)
}

// Total never decreases as the tier goes up, given a monotone rate card.
func TestQuoteTierMonotonicity(t *testing.T) {
	pricing := NewPricingService()
	vehicle := testVehicle()

	prev := -1.0
	for _, tier := range models.InsuranceTiers {
		quote := pricing.Quote(vehicle, day(2025, 6, 1), day(2025, 6, 6), models.OptionSelection{InsuranceTier: tier})
		assert.GreaterOrEqual(t, quote.TotalDue, prev, "tier %s", tier)
		prev = quote.TotalDue
	}
}

// Total never decreases as the rental gets longer, for a fixed option
// set. The sweep crosses the spring clock change on purpose.
func TestQuoteLengthMonotonicity(t *testing.T) {
	pricing := NewPricingService()
	vehicle := testVehicle()
	options := models.OptionSelection{
		InsuranceTier:   models.InsuranceTierComfort,
		AirportDelivery: true,
		BabySeat:        true,
	}

	checkIn := time.Date(2025, 3, 25, 0, 0, 0, 0, time.FixedZone("CET", 1*60*60))
	prev := 0.0
	for length := 0; length <= 10; length++ {
		offset := 1 * 60 * 60
		if 25+length >= 30 {
			offset = 2 * 60 * 60
		}
		checkOut := time.Date(2025, 3, 25+length, 0, 0, 0, 0, time.FixedZone("", offset))

		quote := pricing.Quote(vehicle, checkIn, checkOut, options)
		assert.GreaterOrEqual(t, quote.TotalDue, prev, "length %d", length)
		prev = quote.TotalDue
	}
}

// Each enabled extra only ever adds to the total.
func TestQuoteExtrasAreAdditive(t *testing.T) {
	pricing := NewPricingService()
	vehicle := testVehicle()
	checkIn, checkOut := day(2025, 6, 1), day(2025, 6, 8)

	base := pricing.Quote(vehicle, checkIn, checkOut, models.OptionSelection{}).TotalDue

	withAirport := pricing.Quote(vehicle, checkIn, checkOut, models.OptionSelection{AirportDelivery: true}).TotalDue
	assert.Equal(t, base+20, withAirport)

	withSeat := pricing.Quote(vehicle, checkIn, checkOut, models.OptionSelection{BabySeat: true}).TotalDue
	assert.Equal(t, base+8*7, withSeat)

	withChains := pricing.Quote(vehicle, checkIn, checkOut, models.OptionSelection{SnowChains: true}).TotalDue
	assert.Equal(t, base+5*7, withChains)
}
