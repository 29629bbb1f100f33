package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/storage"
	"gorent/routes"
)

const testJWTSecret = "test-secret"

type stubVehicleRepo struct {
	interfaces.VehicleRepository
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func (s *stubVehicleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, interfaces.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (s *stubVehicleRepo) List(ctx context.Context) ([]*models.Vehicle, error) {
	var out []*models.Vehicle
	for _, vehicle := range s.vehicles {
		out = append(out, vehicle)
	}
	return out, nil
}

type stubBookingRepo struct {
	interfaces.BookingRepository
	bookings map[primitive.ObjectID]*models.Booking
}

func (s *stubBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	booking.CreatedAt = time.Now()
	s.bookings[booking.ID] = booking
	return nil
}

func (s *stubBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, interfaces.ErrBookingNotFound
	}
	return booking, nil
}

func (s *stubBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	booking, ok := s.bookings[id]
	if !ok {
		return interfaces.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (s *stubBookingRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, booking := range s.bookings {
		out = append(out, booking)
	}
	return out, nil
}

type stubPaymentRepo struct {
	interfaces.PaymentRepository
}

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = primitive.NewObjectID()
	return nil
}

type stubUserRepo struct {
	interfaces.UserRepository
}

func (s *stubUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	return map[primitive.ObjectID]*models.User{}, nil
}

type apiTestEnv struct {
	router      *gin.Engine
	vehicle     *models.Vehicle
	bookingRepo *stubBookingRepo
	customerID  primitive.ObjectID
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	vehicle := &models.Vehicle{
		ID:           primitive.NewObjectID(),
		Make:         "Fiat",
		Model:        "500",
		LicensePlate: "XY987ZW",
		DailyRate:    50,
		Deductible:   500,
		InsuranceRates: map[models.InsuranceTier]float64{
			models.InsuranceTierComfort: 10,
		},
		Status: models.VehicleStatusActive,
	}

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log := logger.Discard()
	vehicleRepo := &stubVehicleRepo{vehicles: map[primitive.ObjectID]*models.Vehicle{vehicle.ID: vehicle}}
	bookingRepo := &stubBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}

	contractService := services.NewContractService(local, log)
	flowService := services.NewBookingFlowService(vehicleRepo, bookingRepo, services.NewPricingService(), contractService, log)
	bookingService := services.NewBookingService(bookingRepo, contractService, log)
	paymentService := services.NewPaymentService(&stubPaymentRepo{}, nil, "EUR", log)
	availabilityService := services.NewAvailabilityService(bookingRepo)

	router := gin.New()
	api := router.Group("/api/v1")
	routes.SetupBookingRoutes(api, handlers.NewBookingFlowHandler(flowService, paymentService, log), handlers.NewBookingHandler(bookingService, log), testJWTSecret)
	routes.SetupCalendarRoutes(api, handlers.NewCalendarHandler(availabilityService, vehicleRepo, &stubUserRepo{}, log), testJWTSecret)

	return &apiTestEnv{
		router:      router,
		vehicle:     vehicle,
		bookingRepo: bookingRepo,
		customerID:  primitive.NewObjectID(),
	}
}

func signToken(t *testing.T, userID primitive.ObjectID, userType string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &middleware.JWTClaims{
		UserID:   userID.Hex(),
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (e *apiTestEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	}
	return rec, envelope
}

func flowID(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object")
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestStartFlowRequiresAuth(t *testing.T) {
	env := newAPITestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/bookings/flow", "", gin.H{"vehicle_id": env.vehicle.ID.Hex()})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	env := newAPITestEnv(t)
	token := signToken(t, env.customerID, "customer")
	staff := signToken(t, primitive.NewObjectID(), "staff")

	rec, envelope := env.do(t, http.MethodPost, "/api/v1/bookings/flow", token, gin.H{"vehicle_id": env.vehicle.ID.Hex()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := flowID(t, envelope)
	base := "/api/v1/bookings/flow/" + id

	rec, _ = env.do(t, http.MethodPut, base+"/dates", token, gin.H{
		"check_in":  "2025-06-01T00:00:00Z",
		"check_out": "2025-06-04T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = env.do(t, http.MethodPut, base+"/insurance", token, gin.H{"insurance_tier": "comfort"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodPut, base+"/delivery", token, gin.H{"airport_delivery": true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodPut, base+"/extras", token, gin.H{"baby_seat": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = env.do(t, http.MethodGet, base+"/quote", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quote := envelope["data"].(map[string]interface{})
	assert.Equal(t, 224.0, quote["total_due"])

	rec, envelope = env.do(t, http.MethodPost, base+"/confirm", token, gin.H{"payment_method": "card"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := envelope["data"].(map[string]interface{})["booking"].(map[string]interface{})
	bookingID := booking["id"].(string)
	assert.Equal(t, "pending_signature", booking["status"])

	// Signing before the preview acknowledgement is a step violation.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	signature := base64.StdEncoding.EncodeToString(buf.Bytes())

	rec, _ = env.do(t, http.MethodPost, base+"/sign", token, gin.H{"signature": signature})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.do(t, http.MethodPost, base+"/advance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope = env.do(t, http.MethodPost, base+"/sign", token, gin.H{"signature": signature})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	handoff := envelope["data"].(map[string]interface{})["handoff"].(map[string]interface{})
	assert.Equal(t, 224.0, handoff["total_due"])

	// The archived contract is now retrievable by staff.
	contractPath := fmt.Sprintf("/api/v1/bookings/%s/contract", bookingID)
	req := httptest.NewRequest(http.MethodGet, contractPath, nil)
	req.Header.Set("Authorization", "Bearer "+staff)
	contractRec := httptest.NewRecorder()
	env.router.ServeHTTP(contractRec, req)
	require.Equal(t, http.StatusOK, contractRec.Code)
	assert.Equal(t, utils.ContractContentType, contractRec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", contractRec.Body.String()[:4])
}

func TestContractDownloadBeforeSigning(t *testing.T) {
	env := newAPITestEnv(t)
	staff := signToken(t, primitive.NewObjectID(), "staff")

	booking := &models.Booking{
		ID:         primitive.NewObjectID(),
		ContractID: "unsigned-contract",
		Status:     models.BookingStatusPendingSignature,
	}
	env.bookingRepo.bookings[booking.ID] = booking

	rec, envelope := env.do(t, http.MethodGet, "/api/v1/bookings/"+booking.ID.Hex()+"/contract", staff, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errObj := envelope["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestCalendarRequiresStaff(t *testing.T) {
	env := newAPITestEnv(t)
	customer := signToken(t, env.customerID, "customer")

	rec, _ := env.do(t, http.MethodGet, "/api/v1/calendar?month=2025-06", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	staff := signToken(t, primitive.NewObjectID(), "staff")
	rec, envelope := env.do(t, http.MethodGet, "/api/v1/calendar?month=2025-06", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "2025-06", data["month"])
}
