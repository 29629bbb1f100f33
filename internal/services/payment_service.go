package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
)

// PaymentService receives the handoff payload from the booking flow. It
// records the payment locally and, when a gateway is configured, opens an
// intent with it. Settlement itself happens outside this system.
type PaymentService struct {
	paymentRepo interfaces.PaymentRepository
	provider    payment.Provider
	currency    string
	logger      *logger.Logger
}

func NewPaymentService(paymentRepo interfaces.PaymentRepository, provider payment.Provider, currency string, log *logger.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		provider:    provider,
		currency:    currency,
		logger:      log,
	}
}

// RecordHandoff creates the pending payment record for a signed booking.
// The record is written first; a gateway failure after that leaves a
// pending payment with no external id, which staff can re-trigger.
func (s *PaymentService) RecordHandoff(ctx context.Context, payload *HandoffPayload) (*models.Payment, error) {
	record := &models.Payment{
		BookingID:     payload.BookingID,
		CustomerID:    payload.CustomerID,
		VehicleID:     payload.VehicleID,
		Amount:        payload.TotalDue,
		Currency:      s.currency,
		PaymentMethod: payload.PaymentMethod,
		Status:        models.PaymentStatusPending,
	}
	if s.provider != nil && payload.PaymentMethod == models.PaymentMethodCard {
		record.Provider = s.provider.Name()
	}

	if err := s.paymentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record payment handoff: %w", err)
	}

	if s.provider != nil && payload.PaymentMethod == models.PaymentMethodCard {
		intent, err := s.provider.CreateIntent(ctx, &payment.IntentRequest{
			Amount:      payload.TotalDue,
			Currency:    s.currency,
			Description: fmt.Sprintf("Vehicle rental booking %s", payload.BookingID.Hex()),
			BookingID:   payload.BookingID.Hex(),
			CustomerID:  payload.CustomerID.Hex(),
		})
		if err != nil {
			s.logger.WithError(err).WithBookingID(payload.BookingID).Error("payment intent creation failed")
			return record, nil
		}
		record.ExternalID = intent.IntentID
	}

	s.logger.LogBookingEvent(payload.BookingID, "payment_handoff", map[string]interface{}{
		"amount": payload.TotalDue,
		"method": payload.PaymentMethod,
	})
	return record, nil
}

// ForBooking looks up the payment record created at handoff.
func (s *PaymentService) ForBooking(ctx context.Context, bookingID primitive.ObjectID) (*models.Payment, error) {
	return s.paymentRepo.GetByBookingID(ctx, bookingID)
}

// MarkCompleted settles a payment record after the gateway confirms it.
func (s *PaymentService) MarkCompleted(ctx context.Context, paymentID primitive.ObjectID) error {
	return s.paymentRepo.UpdateStatus(ctx, paymentID, models.PaymentStatusCompleted)
}
