package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
	"gorent/pkg/storage"
)

type fakeVehicleRepo struct {
	interfaces.VehicleRepository
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func (f *fakeVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, ok := f.vehicles[id]
	if !ok {
		return nil, interfaces.ErrVehicleNotFound
	}
	return vehicle, nil
}

type fakeBookingRepo struct {
	interfaces.BookingRepository
	created         []*models.Booking
	createErr       error
	statuses        map[primitive.ObjectID]models.BookingStatus
	updateStatusErr error
	overlapping     []*models.Booking
	overlapFrom     time.Time
	overlapTo       time.Time
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	f.created = append(f.created, booking)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	for _, booking := range f.created {
		if booking.ID == id {
			return booking, nil
		}
	}
	return nil, interfaces.ErrBookingNotFound
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	if f.statuses == nil {
		f.statuses = make(map[primitive.ObjectID]models.BookingStatus)
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeBookingRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	f.overlapFrom = from
	f.overlapTo = to
	return f.overlapping, nil
}

// failingArchive wraps a provider and fails uploads on demand.
type failingArchive struct {
	storage.Provider
	failUpload bool
}

func (f *failingArchive) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	if f.failUpload {
		return nil, errors.New("archive unavailable")
	}
	return f.Provider.Upload(ctx, request)
}

type flowEnv struct {
	service     *BookingFlowService
	vehicleRepo *fakeVehicleRepo
	bookingRepo *fakeBookingRepo
	archive     *failingArchive
	contracts   *ContractService
	vehicle     *models.Vehicle
	session     Session
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	archive := &failingArchive{Provider: local}

	vehicle := testVehicle()
	vehicle.ID = primitive.NewObjectID()

	vehicleRepo := &fakeVehicleRepo{vehicles: map[primitive.ObjectID]*models.Vehicle{vehicle.ID: vehicle}}
	bookingRepo := &fakeBookingRepo{}
	contracts := NewContractService(archive, logger.Discard())

	return &flowEnv{
		service:     NewBookingFlowService(vehicleRepo, bookingRepo, NewPricingService(), contracts, logger.Discard()),
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
		archive:     archive,
		contracts:   contracts,
		vehicle:     vehicle,
		session:     Session{CustomerID: primitive.NewObjectID()},
	}
}

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

// walks a flow up to review_summary with the scenario selections.
func (e *flowEnv) toSummary(t *testing.T) *BookingFlow {
	t.Helper()
	ctx := context.Background()

	flow, err := e.service.Start(ctx, e.session, e.vehicle.ID)
	require.NoError(t, err)

	_, err = e.service.SelectDates(flow.ID, day(2025, 6, 1), day(2025, 6, 4))
	require.NoError(t, err)
	_, err = e.service.SelectInsurance(flow.ID, models.InsuranceTierComfort)
	require.NoError(t, err)
	_, err = e.service.SelectDelivery(flow.ID, true)
	require.NoError(t, err)
	flow, err = e.service.SelectExtras(flow.ID, true, false)
	require.NoError(t, err)

	require.Equal(t, StepReviewSummary, flow.Step)
	return flow
}

func (e *flowEnv) toSignature(t *testing.T) *BookingFlow {
	t.Helper()
	flow := e.toSummary(t)

	flow, err := e.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "")
	require.NoError(t, err)
	flow, err = e.service.AdvanceToSignature(flow.ID)
	require.NoError(t, err)

	return flow
}

func TestStartUnknownVehicle(t *testing.T) {
	env := newFlowEnv(t)

	_, err := env.service.Start(context.Background(), env.session, primitive.NewObjectID())
	assert.ErrorIs(t, err, interfaces.ErrVehicleNotFound)
}

func TestStartDefaultsToBasicTier(t *testing.T) {
	env := newFlowEnv(t)

	flow, err := env.service.Start(context.Background(), env.session, env.vehicle.ID)
	require.NoError(t, err)

	assert.Equal(t, StepSelectDates, flow.Step)
	assert.Equal(t, models.InsuranceTierBasic, flow.Options.InsuranceTier)
}

func TestOptionStepsRequireDates(t *testing.T) {
	env := newFlowEnv(t)
	flow, err := env.service.Start(context.Background(), env.session, env.vehicle.ID)
	require.NoError(t, err)

	_, err = env.service.SelectInsurance(flow.ID, models.InsuranceTierComfort)
	assert.ErrorIs(t, err, ErrNoDateRange)
	_, err = env.service.Quote(flow.ID)
	assert.ErrorIs(t, err, ErrNoDateRange)
}

func TestUnknownFlowID(t *testing.T) {
	env := newFlowEnv(t)

	_, err := env.service.Get("nope")
	assert.ErrorIs(t, err, ErrFlowNotFound)
	_, err = env.service.SelectDates("nope", day(2025, 6, 1), day(2025, 6, 2))
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestQuoteFollowsOptionChanges(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSummary(t)

	quote, err := env.service.Quote(flow.ID)
	require.NoError(t, err)
	assert.Equal(t, 224.0, quote.TotalDue)

	// Dropping the baby seat re-prices without resetting the step.
	_, err = env.service.SelectExtras(flow.ID, false, false)
	require.NoError(t, err)

	quote, err = env.service.Quote(flow.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.TotalDue)

	flow, err = env.service.Get(flow.ID)
	require.NoError(t, err)
	assert.Equal(t, StepReviewSummary, flow.Step)
}

func TestConfirmSummaryCreatesBooking(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSummary(t)

	flow, err := env.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "arrivo alle 10")
	require.NoError(t, err)

	require.NotNil(t, flow.Booking)
	booking := flow.Booking
	assert.False(t, booking.ID.IsZero())
	assert.NotEmpty(t, booking.ContractID)
	assert.NotEqual(t, booking.ID.Hex(), booking.ContractID)
	assert.Equal(t, env.session.CustomerID, booking.CustomerID)
	assert.Equal(t, models.BookingStatusPendingSignature, booking.Status)
	assert.Equal(t, 3, booking.Days)
	assert.Equal(t, 224.0, booking.TotalDue)
	assert.Equal(t, 500.0, booking.Deductible)
	assert.Equal(t, "arrivo alle 10", booking.CustomerNotes)
	assert.Equal(t, StepContractPreview, flow.Step)

	require.Len(t, env.bookingRepo.created, 1)
	assert.Equal(t, booking, env.bookingRepo.created[0])
}

func TestConfirmSummaryWrongStep(t *testing.T) {
	env := newFlowEnv(t)
	flow, err := env.service.Start(context.Background(), env.session, env.vehicle.ID)
	require.NoError(t, err)

	_, err = env.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestConfirmSummaryRepoFailureIsRetryable(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSummary(t)
	env.bookingRepo.createErr = errors.New("connection reset")

	_, err := env.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "")
	require.Error(t, err)

	flow, getErr := env.service.Get(flow.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StepReviewSummary, flow.Step)
	assert.Nil(t, flow.Booking)

	// Retry after the collaborator recovers.
	env.bookingRepo.createErr = nil
	flow, err = env.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "")
	require.NoError(t, err)
	assert.Equal(t, StepContractPreview, flow.Step)
}

func TestOptionsFrozenAfterConfirm(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSummary(t)

	_, err := env.service.ConfirmSummary(context.Background(), flow.ID, models.PaymentMethodCard, "")
	require.NoError(t, err)

	_, err = env.service.SelectDates(flow.ID, day(2025, 7, 1), day(2025, 7, 5))
	assert.ErrorIs(t, err, ErrWrongStep)
	_, err = env.service.SelectExtras(flow.ID, false, false)
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSignContractRequiresSignatureStep(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSummary(t)

	_, err := env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSignContractRejectsEmptySignature(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSignature(t)

	_, err := env.service.SignContract(context.Background(), flow.ID, nil)
	assert.ErrorIs(t, err, ErrEmptySignature)

	flow, getErr := env.service.Get(flow.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StepSignature, flow.Step)
	assert.Empty(t, env.bookingRepo.statuses)
}

func TestSignContractHappyPath(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSignature(t)
	booking := flow.Booking

	payload, err := env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	require.NoError(t, err)

	assert.Equal(t, booking.ID, payload.BookingID)
	assert.Equal(t, booking.VehicleID, payload.VehicleID)
	assert.Equal(t, env.session.CustomerID, payload.CustomerID)
	assert.Equal(t, 224.0, payload.TotalDue)
	assert.Equal(t, models.PaymentMethodCard, payload.PaymentMethod)

	assert.Equal(t, models.BookingStatusSigned, env.bookingRepo.statuses[booking.ID])
	assert.NotNil(t, booking.SignedAt)

	flow, err = env.service.Get(flow.ID)
	require.NoError(t, err)
	assert.Equal(t, StepHandoffToPayment, flow.Step)

	// A signed booking always has a retrievable document.
	exists, err := env.contracts.Exists(context.Background(), booking.ContractID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSignContractArchiveFailure(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSignature(t)
	booking := flow.Booking
	env.archive.failUpload = true

	_, err := env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	require.Error(t, err)

	// No status flip and no document: the booking is still pending and the
	// customer can retry the signature.
	assert.Empty(t, env.bookingRepo.statuses)
	assert.Equal(t, models.BookingStatusPendingSignature, booking.Status)
	exists, existsErr := env.contracts.Exists(context.Background(), booking.ContractID)
	require.NoError(t, existsErr)
	assert.False(t, exists)

	flow, getErr := env.service.Get(flow.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StepSignature, flow.Step)

	env.archive.failUpload = false
	payload, err := env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	require.NoError(t, err)
	assert.Equal(t, booking.ID, payload.BookingID)
}

func TestSignContractStatusFlipFailure(t *testing.T) {
	env := newFlowEnv(t)
	flow := env.toSignature(t)
	booking := flow.Booking
	env.bookingRepo.updateStatusErr = errors.New("write concern timeout")

	_, err := env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	require.Error(t, err)
	assert.Equal(t, models.BookingStatusPendingSignature, booking.Status)

	// The document was archived; re-signing overwrites it and completes
	// the transition.
	exists, existsErr := env.contracts.Exists(context.Background(), booking.ContractID)
	require.NoError(t, existsErr)
	assert.True(t, exists)

	env.bookingRepo.updateStatusErr = nil
	_, err = env.service.SignContract(context.Background(), flow.ID, signaturePNG(t))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusSigned, env.bookingRepo.statuses[booking.ID])
}

func TestAbandonDropsFlow(t *testing.T) {
	env := newFlowEnv(t)
	flow, err := env.service.Start(context.Background(), env.session, env.vehicle.ID)
	require.NoError(t, err)

	env.service.Abandon(flow.ID)

	_, err = env.service.Get(flow.ID)
	assert.ErrorIs(t, err, ErrFlowNotFound)
}
