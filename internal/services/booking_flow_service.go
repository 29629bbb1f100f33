package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
)

type FlowStep string

const (
	StepSelectDates      FlowStep = "select_dates"
	StepSelectInsurance  FlowStep = "select_insurance"
	StepSelectDelivery   FlowStep = "select_delivery"
	StepSelectExtras     FlowStep = "select_extras"
	StepReviewSummary    FlowStep = "review_summary"
	StepContractPreview  FlowStep = "contract_preview"
	StepSignature        FlowStep = "signature"
	StepHandoffToPayment FlowStep = "handoff_to_payment"
)

var stepOrder = map[FlowStep]int{
	StepSelectDates:      1,
	StepSelectInsurance:  2,
	StepSelectDelivery:   3,
	StepSelectExtras:     4,
	StepReviewSummary:    5,
	StepContractPreview:  6,
	StepSignature:        7,
	StepHandoffToPayment: 8,
}

var (
	ErrFlowNotFound = errors.New("booking flow not found")
	ErrWrongStep    = errors.New("operation not allowed in the current step")
	ErrNoDateRange  = errors.New("a date range must be selected first")
)

// Session carries the authenticated customer into the flow explicitly,
// instead of reading it from ambient state. Tests inject fake sessions.
type Session struct {
	CustomerID primitive.ObjectID `json:"customer_id"`
}

// BookingFlow is one customer's walk through the booking steps. The
// vehicle is resolved once at start; the booking record exists only after
// the summary is confirmed.
type BookingFlow struct {
	ID            string                 `json:"id"`
	Session       Session                `json:"session"`
	Vehicle       *models.Vehicle        `json:"vehicle"`
	CheckIn       time.Time              `json:"check_in"`
	CheckOut      time.Time              `json:"check_out"`
	Options       models.OptionSelection `json:"options"`
	PaymentMethod models.PaymentMethod   `json:"payment_method"`
	CustomerNotes string                 `json:"customer_notes"`
	Step          FlowStep               `json:"step"`
	Booking       *models.Booking        `json:"booking,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// HandoffPayload is what the terminal step passes to the payment
// collaborator.
type HandoffPayload struct {
	BookingID     primitive.ObjectID   `json:"booking_id"`
	TotalDue      float64              `json:"total_due"`
	VehicleID     primitive.ObjectID   `json:"vehicle_id"`
	CustomerID    primitive.ObjectID   `json:"customer_id"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
}

// BookingFlowService drives the checkout steps: dates, insurance,
// delivery, extras, summary, contract preview, signature, payment
// handoff. Flows live in memory; abandoning one mid-way
// leaves at most an orphaned pending_signature booking for staff to clean
// up.
//
// Note that confirming a summary does NOT check the availability index, so
// overlapping bookings for the same vehicle can be created; the calendar
// surfaces them to staff as conflicts. See AvailabilityService.
type BookingFlowService struct {
	mu    sync.Mutex
	flows map[string]*BookingFlow

	vehicleRepo interfaces.VehicleRepository
	bookingRepo interfaces.BookingRepository
	pricing     *PricingService
	contracts   *ContractService
	logger      *logger.Logger
}

func NewBookingFlowService(
	vehicleRepo interfaces.VehicleRepository,
	bookingRepo interfaces.BookingRepository,
	pricing *PricingService,
	contracts *ContractService,
	log *logger.Logger,
) *BookingFlowService {
	return &BookingFlowService{
		flows:       make(map[string]*BookingFlow),
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
		pricing:     pricing,
		contracts:   contracts,
		logger:      log,
	}
}

// Start opens a new flow for the session. The vehicle must resolve; a
// missing vehicle is terminal for the flow, not retried.
func (s *BookingFlowService) Start(ctx context.Context, session Session, vehicleID primitive.ObjectID) (*BookingFlow, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	flow := &BookingFlow{
		ID:        uuid.NewString(),
		Session:   session,
		Vehicle:   vehicle,
		Options:   models.OptionSelection{InsuranceTier: models.InsuranceTierBasic},
		Step:      StepSelectDates,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.flows[flow.ID] = flow
	s.mu.Unlock()

	s.logger.WithVehicleID(vehicleID).Infof("booking flow %s started", flow.ID)
	return flow, nil
}

func (s *BookingFlowService) Get(flowID string) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flowLocked(flowID)
}

func (s *BookingFlowService) flowLocked(flowID string) (*BookingFlow, error) {
	flow, ok := s.flows[flowID]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return flow, nil
}

// SelectDates records the rental period. Allowed until the booking is
// created; the customer can step back and adjust before confirming.
func (s *BookingFlowService) SelectDates(flowID string, checkIn, checkOut time.Time) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.Booking != nil {
		return nil, fmt.Errorf("%w: booking already confirmed", ErrWrongStep)
	}

	flow.CheckIn = checkIn
	flow.CheckOut = checkOut
	flow.advanceTo(StepSelectInsurance)
	return flow, nil
}

// SelectInsurance requires a date range to exist.
func (s *BookingFlowService) SelectInsurance(flowID string, tier models.InsuranceTier) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.mutableFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.Options.InsuranceTier = tier
	flow.advanceTo(StepSelectDelivery)
	return flow, nil
}

func (s *BookingFlowService) SelectDelivery(flowID string, airportDelivery bool) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.mutableFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.Options.AirportDelivery = airportDelivery
	flow.advanceTo(StepSelectExtras)
	return flow, nil
}

func (s *BookingFlowService) SelectExtras(flowID string, babySeat, snowChains bool) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.mutableFlow(flowID)
	if err != nil {
		return nil, err
	}

	flow.Options.BabySeat = babySeat
	flow.Options.SnowChains = snowChains
	flow.advanceTo(StepReviewSummary)
	return flow, nil
}

// mutableFlow guards the option-mutation steps: the date range must exist
// and the booking must not be confirmed yet.
func (s *BookingFlowService) mutableFlow(flowID string) (*BookingFlow, error) {
	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.Booking != nil {
		return nil, fmt.Errorf("%w: booking already confirmed", ErrWrongStep)
	}
	if flow.CheckIn.IsZero() || flow.CheckOut.IsZero() {
		return nil, ErrNoDateRange
	}
	return flow, nil
}

// Quote recomputes the live price for the flow's current selections.
func (s *BookingFlowService) Quote(flowID string) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.CheckIn.IsZero() || flow.CheckOut.IsZero() {
		return nil, ErrNoDateRange
	}

	return s.pricing.Quote(flow.Vehicle, flow.CheckIn, flow.CheckOut, flow.Options), nil
}

// ConfirmSummary performs the create-booking side effect. A fresh booking
// id and contract id are generated independently and stored in the same
// insert. On failure the flow stays in ReviewSummary and the customer
// retries; no partial booking survives a failed insert.
func (s *BookingFlowService) ConfirmSummary(ctx context.Context, flowID string, method models.PaymentMethod, notes string) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != StepReviewSummary || flow.Booking != nil {
		return nil, fmt.Errorf("%w: expected %s, at %s", ErrWrongStep, StepReviewSummary, flow.Step)
	}

	quote := s.pricing.Quote(flow.Vehicle, flow.CheckIn, flow.CheckOut, flow.Options)

	booking := &models.Booking{
		ID:              primitive.NewObjectID(),
		ContractID:      uuid.NewString(),
		CustomerID:      flow.Session.CustomerID,
		VehicleID:       flow.Vehicle.ID,
		CheckIn:         flow.CheckIn,
		CheckOut:        flow.CheckOut,
		Days:            quote.Days,
		DailyRate:       quote.DailyRate,
		BaseTotal:       quote.BaseTotal,
		InsuranceTier:   flow.Options.InsuranceTier,
		InsuranceAddOn:  quote.InsuranceAddOn,
		AirportDelivery: flow.Options.AirportDelivery,
		BabySeat:        flow.Options.BabySeat,
		SnowChains:      flow.Options.SnowChains,
		ExtrasTotal:     quote.ExtrasTotal,
		TotalDue:        quote.TotalDue,
		Deductible:      flow.Vehicle.Deductible,
		Status:          models.BookingStatusPendingSignature,
		PaymentMethod:   method,
		CustomerNotes:   notes,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// Stay in ReviewSummary; the error is retryable by the user.
		return nil, err
	}

	flow.Booking = booking
	flow.PaymentMethod = method
	flow.CustomerNotes = notes
	flow.advanceTo(StepContractPreview)

	s.logger.LogBookingEvent(booking.ID, "created", map[string]interface{}{
		"contract_id": booking.ContractID,
		"total_due":   booking.TotalDue,
	})
	return flow, nil
}

// AdvanceToSignature is the explicit "I reviewed the terms" action that
// separates reading the contract from signing it.
func (s *BookingFlowService) AdvanceToSignature(flowID string) (*BookingFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != StepContractPreview {
		return nil, fmt.Errorf("%w: expected %s, at %s", ErrWrongStep, StepContractPreview, flow.Step)
	}

	flow.advanceTo(StepSignature)
	return flow, nil
}

// SignContract runs the sign pipeline: render the agreement, archive it,
// then flip the booking to signed, in that order. The document is
// persisted before the status changes so a signed booking always has a
// retrievable contract. Any failure aborts the transition and leaves the
// booking in pending_signature for a manual retry.
func (s *BookingFlowService) SignContract(ctx context.Context, flowID string, signaturePNG []byte) (*HandoffPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := s.flowLocked(flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != StepSignature || flow.Booking == nil {
		return nil, fmt.Errorf("%w: expected %s, at %s", ErrWrongStep, StepSignature, flow.Step)
	}
	if len(signaturePNG) == 0 {
		return nil, ErrEmptySignature
	}

	booking := flow.Booking

	document, err := s.contracts.Render(booking, flow.Vehicle, signaturePNG)
	if err != nil {
		return nil, err
	}

	if err := s.contracts.Upload(ctx, booking.ContractID, document); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingStatusSigned); err != nil {
		// The document is archived but the status flip failed; retrying
		// the signature re-uploads (overwrite) and tries the flip again.
		return nil, err
	}

	booking.Status = models.BookingStatusSigned
	now := time.Now()
	booking.SignedAt = &now
	flow.advanceTo(StepHandoffToPayment)

	s.logger.LogBookingEvent(booking.ID, "signed", map[string]interface{}{
		"contract_id": booking.ContractID,
	})

	return &HandoffPayload{
		BookingID:     booking.ID,
		TotalDue:      booking.TotalDue,
		VehicleID:     booking.VehicleID,
		CustomerID:    booking.CustomerID,
		PaymentMethod: flow.PaymentMethod,
	}, nil
}

// Abandon drops the in-memory flow. A booking already created stays in
// pending_signature server-side; there is no automatic expiry.
func (s *BookingFlowService) Abandon(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, flowID)
}

// advanceTo moves the flow forward, never backward: re-running an earlier
// selection updates the data without resetting progress.
func (f *BookingFlow) advanceTo(step FlowStep) {
	if stepOrder[step] > stepOrder[f.Step] {
		f.Step = step
	}
	f.UpdatedAt = time.Now()
}
