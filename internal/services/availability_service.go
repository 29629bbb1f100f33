package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
)

type CellStatus string

const (
	CellFree        CellStatus = "free"
	CellSingle      CellStatus = "single"
	CellMulti       CellStatus = "multi"
	CellMaintenance CellStatus = "maintenance"
)

// AvailabilityIndex maps vehicle id -> date key -> bookings occupying that
// day. Derived from the booking set on demand, never persisted.
type AvailabilityIndex map[primitive.ObjectID]map[string][]*models.Booking

// AvailabilityService builds the per-vehicle/per-day occupancy view used
// by the staff calendar. The index is advisory: it flags conflicts for
// staff but does not gate booking creation, so two customers can still
// book the same vehicle for overlapping dates. A production-hardened
// deployment should add a conditional insert that rejects overlapping
// ranges before Create; Conflicts is the query to build that on.
type AvailabilityService struct {
	bookingRepo interfaces.BookingRepository
}

func NewAvailabilityService(bookingRepo interfaces.BookingRepository) *AvailabilityService {
	return &AvailabilityService{bookingRepo: bookingRepo}
}

// BuildIndex buckets each booking under every calendar day it covers.
// Both endpoints are inclusive: a checkout day still shows as occupied so
// staff can see same-day turnarounds instead of having them auto-approved.
// Inverted ranges are swapped, never dropped.
func (s *AvailabilityService) BuildIndex(bookings []*models.Booking) AvailabilityIndex {
	index := make(AvailabilityIndex)

	for _, booking := range bookings {
		if booking.CheckIn.IsZero() || booking.CheckOut.IsZero() {
			continue
		}

		days := index[booking.VehicleID]
		if days == nil {
			days = make(map[string][]*models.Booking)
			index[booking.VehicleID] = days
		}

		for _, day := range utils.EnumerateDays(booking.CheckIn, booking.CheckOut) {
			key := utils.DateKey(day)
			days[key] = append(days[key], booking)
		}
	}

	return index
}

// CellStatus resolves one calendar cell. A vehicle under maintenance is
// unavailable regardless of bookings; otherwise two or more bookings on
// the same day signal an overbooking conflict.
func (s *AvailabilityService) CellStatus(vehicle *models.Vehicle, index AvailabilityIndex, dateKey string) CellStatus {
	if vehicle.Unavailable() {
		return CellMaintenance
	}

	switch n := len(index[vehicle.ID][dateKey]); {
	case n >= 2:
		return CellMulti
	case n == 1:
		return CellSingle
	default:
		return CellFree
	}
}

// BookingsAt returns the bookings behind a calendar cell.
func (s *AvailabilityService) BookingsAt(index AvailabilityIndex, vehicleID primitive.ObjectID, dateKey string) []*models.Booking {
	return index[vehicleID][dateKey]
}

// MonthIndex loads every booking touching the given month and builds the
// index for it.
func (s *AvailabilityService) MonthIndex(ctx context.Context, month time.Time) (AvailabilityIndex, error) {
	from := utils.StartOfMonth(month)
	to := utils.EndOfMonth(month)

	bookings, err := s.bookingRepo.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for calendar: %w", err)
	}

	return s.BuildIndex(bookings), nil
}

// Conflicts returns non-cancelled bookings of the vehicle overlapping
// [checkIn, checkOut]. Exposed as the hook for a server-side reservation
// check; the booking flow itself does not call it (see the service doc).
func (s *AvailabilityService) Conflicts(ctx context.Context, vehicleID primitive.ObjectID, checkIn, checkOut time.Time) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.ListOverlapping(ctx, utils.StartOfDay(checkIn), utils.StartOfDay(checkOut))
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}

	var conflicts []*models.Booking
	for _, booking := range bookings {
		if booking.VehicleID == vehicleID {
			conflicts = append(conflicts, booking)
		}
	}
	return conflicts, nil
}
