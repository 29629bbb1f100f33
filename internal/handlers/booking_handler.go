package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

// BookingHandler is the back-office surface: listing bookings, manual
// status updates and contract retrieval.
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService *services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         log,
	}
}

// ListBookings returns bookings filtered by status, customer or vehicle.
// GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := &interfaces.BookingFilter{
		Status: models.BookingStatus(c.Query("status")),
		Limit:  int64(utils.DefaultPageSize),
	}

	if limit, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && limit > 0 {
		if limit > utils.MaxPageSize {
			limit = utils.MaxPageSize
		}
		filter.Limit = limit
	}
	if offset, err := strconv.ParseInt(c.Query("offset"), 10, 64); err == nil && offset > 0 {
		filter.Offset = offset
	}
	if customerID, err := primitive.ObjectIDFromHex(c.Query("customer_id")); err == nil {
		filter.CustomerID = &customerID
	}
	if vehicleID, err := primitive.ObjectIDFromHex(c.Query("vehicle_id")); err == nil {
		filter.VehicleID = &vehicleID
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list bookings")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{
		Total: total,
		Count: len(bookings),
	})
}

// GetBooking looks a booking up by id, or by contract id when the path
// segment is not a valid object id.
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	param := c.Param("id")

	var booking *models.Booking
	var err error
	if id, idErr := primitive.ObjectIDFromHex(param); idErr == nil {
		booking, err = h.bookingService.GetByID(c.Request.Context(), id)
	} else {
		booking, err = h.bookingService.GetByContractID(c.Request.Context(), param)
	}
	if err != nil {
		h.bookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved", booking)
}

// UpdateBookingStatus applies a manual lifecycle change (paid, cancelled).
// PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	var req validators.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), id, models.BookingStatus(req.Status))
	if err != nil {
		h.bookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking status updated", booking)
}

// UpdateBookingDetails edits the operational fields that stay mutable
// after signing.
// PATCH /api/v1/bookings/:id/details
func (h *BookingHandler) UpdateBookingDetails(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	var req struct {
		Mileage     int    `json:"mileage"`
		DamageNotes string `json:"damage_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.bookingService.UpdateOperationalFields(c.Request.Context(), id, req.Mileage, req.DamageNotes); err != nil {
		h.bookingError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking details updated", nil)
}

// DownloadContract streams the archived signed agreement.
// GET /api/v1/bookings/:id/contract
func (h *BookingHandler) DownloadContract(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	document, contractID, err := h.bookingService.DownloadContract(c.Request.Context(), id)
	if err != nil {
		h.bookingError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", utils.ContractFileName))
	c.Header("X-Contract-ID", contractID)
	c.Data(http.StatusOK, utils.ContractContentType, document)
}

func (h *BookingHandler) bookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrBookingNotFound):
		utils.NotFoundResponse(c, "Booking")
	case errors.Is(err, services.ErrContractNotFound):
		utils.NotFoundResponse(c, "Contract document")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, err.Error())
	default:
		h.logger.WithError(err).Error("booking operation failed")
		utils.InternalServerErrorResponse(c)
	}
}
