package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
)

// ErrInvalidTransition rejects status updates the booking lifecycle does
// not allow.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// BookingService is the back-office view on bookings: listing, lookup by
// either id, manual status updates and contract retrieval. Creation goes
// through the flow service only.
type BookingService struct {
	bookingRepo interfaces.BookingRepository
	contracts   *ContractService
	logger      *logger.Logger
}

func NewBookingService(bookingRepo interfaces.BookingRepository, contracts *ContractService, log *logger.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		contracts:   contracts,
		logger:      log,
	}
}

func (s *BookingService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *BookingService) GetByContractID(ctx context.Context, contractID string) (*models.Booking, error) {
	return s.bookingRepo.GetByContractID(ctx, contractID)
}

func (s *BookingService) List(ctx context.Context, filter *interfaces.BookingFilter) ([]*models.Booking, int64, error) {
	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// UpdateStatus applies a staff-side status change after validating it
// against the lifecycle. Signing is excluded here: signed is only reached
// through the signature pipeline, which archives the contract first.
func (s *BookingService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.BookingStatusSigned {
		return nil, fmt.Errorf("%w: %s is set by the signature pipeline", ErrInvalidTransition, status)
	}
	if !booking.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(id, "status_updated", map[string]interface{}{
		"from": booking.Status,
		"to":   status,
	})

	booking.Status = status
	return booking, nil
}

// UpdateOperationalFields changes mileage and damage notes. These stay
// editable after signing; the priced terms do not.
func (s *BookingService) UpdateOperationalFields(ctx context.Context, id primitive.ObjectID, mileage int, damageNotes string) error {
	return s.bookingRepo.Update(ctx, id, map[string]interface{}{
		"mileage":      mileage,
		"damage_notes": damageNotes,
	})
}

// DownloadContract fetches the archived signed document for a booking.
func (s *BookingService) DownloadContract(ctx context.Context, id primitive.ObjectID) ([]byte, string, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	document, err := s.contracts.Download(ctx, booking.ContractID)
	if err != nil {
		return nil, "", err
	}

	return document, booking.ContractID, nil
}
