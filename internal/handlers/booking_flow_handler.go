package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

// BookingFlowHandler exposes the checkout steps over HTTP. Each step is
// its own endpoint; the flow id ties them together.
type BookingFlowHandler struct {
	flowService    *services.BookingFlowService
	paymentService *services.PaymentService
	logger         *logger.Logger
}

func NewBookingFlowHandler(flowService *services.BookingFlowService, paymentService *services.PaymentService, log *logger.Logger) *BookingFlowHandler {
	return &BookingFlowHandler{
		flowService:    flowService,
		paymentService: paymentService,
		logger:         log,
	}
}

// StartFlow opens a new flow for the authenticated customer.
// POST /api/v1/bookings/flow
func (h *BookingFlowHandler) StartFlow(c *gin.Context) {
	var req validators.StartFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	customerID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	vehicleID, _ := primitive.ObjectIDFromHex(req.VehicleID)
	flow, err := h.flowService.Start(c.Request.Context(), services.Session{CustomerID: customerID}, vehicleID)
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking flow started", flow)
}

// GetFlow returns the flow's current step and selections.
// GET /api/v1/bookings/flow/:flowId
func (h *BookingFlowHandler) GetFlow(c *gin.Context) {
	flow, err := h.flowService.Get(c.Param("flowId"))
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking flow retrieved", flow)
}

// SelectDates records the rental period.
// PUT /api/v1/bookings/flow/:flowId/dates
func (h *BookingFlowHandler) SelectDates(c *gin.Context) {
	var req validators.SelectDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateSelectDates(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	flow, err := h.flowService.SelectDates(c.Param("flowId"), req.CheckIn, req.CheckOut)
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Dates selected", flow)
}

// SelectInsurance picks the coverage tier.
// PUT /api/v1/bookings/flow/:flowId/insurance
func (h *BookingFlowHandler) SelectInsurance(c *gin.Context) {
	var req validators.SelectInsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	flow, err := h.flowService.SelectInsurance(c.Param("flowId"), models.InsuranceTier(req.InsuranceTier))
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Insurance selected", flow)
}

// SelectDelivery toggles airport delivery.
// PUT /api/v1/bookings/flow/:flowId/delivery
func (h *BookingFlowHandler) SelectDelivery(c *gin.Context) {
	var req validators.SelectDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	flow, err := h.flowService.SelectDelivery(c.Param("flowId"), req.AirportDelivery)
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Delivery option selected", flow)
}

// SelectExtras toggles the per-day extras.
// PUT /api/v1/bookings/flow/:flowId/extras
func (h *BookingFlowHandler) SelectExtras(c *gin.Context) {
	var req validators.SelectExtrasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	flow, err := h.flowService.SelectExtras(c.Param("flowId"), req.BabySeat, req.SnowChains)
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Extras selected", flow)
}

// GetQuote returns the live price for the current selections.
// GET /api/v1/bookings/flow/:flowId/quote
func (h *BookingFlowHandler) GetQuote(c *gin.Context) {
	quote, err := h.flowService.Quote(c.Param("flowId"))
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Quote computed", quote)
}

// ConfirmSummary creates the booking with the frozen pricing snapshot.
// POST /api/v1/bookings/flow/:flowId/confirm
func (h *BookingFlowHandler) ConfirmSummary(c *gin.Context) {
	var req validators.ConfirmSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = models.PaymentMethodCard
	}

	flow, err := h.flowService.ConfirmSummary(c.Request.Context(), c.Param("flowId"), method, req.CustomerNotes)
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created", flow)
}

// AdvanceToSignature acknowledges the contract preview.
// POST /api/v1/bookings/flow/:flowId/advance
func (h *BookingFlowHandler) AdvanceToSignature(c *gin.Context) {
	flow, err := h.flowService.AdvanceToSignature(c.Param("flowId"))
	if err != nil {
		h.flowError(c, err)
		return
	}

	utils.SuccessResponse(c, "Ready for signature", flow)
}

// SignContract runs the signing pipeline and hands the signed booking off
// to payment.
// POST /api/v1/bookings/flow/:flowId/sign
func (h *BookingFlowHandler) SignContract(c *gin.Context) {
	var req validators.SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		utils.BadRequestResponse(c, "Signature must be base64-encoded PNG data")
		return
	}
	if len(signature) > utils.MaxSignatureSize {
		utils.BadRequestResponse(c, "Signature image too large")
		return
	}

	payload, err := h.flowService.SignContract(c.Request.Context(), c.Param("flowId"), signature)
	if err != nil {
		h.flowError(c, err)
		return
	}

	record, err := h.paymentService.RecordHandoff(c.Request.Context(), payload)
	if err != nil {
		// The booking is signed and archived; only the payment record is
		// missing. Report success with the handoff so the client can
		// retry payment separately.
		h.logger.WithError(err).WithBookingID(payload.BookingID).Error("payment handoff failed")
		utils.SuccessResponse(c, "Contract signed, payment pending", gin.H{"handoff": payload})
		return
	}

	utils.SuccessResponse(c, "Contract signed", gin.H{
		"handoff": payload,
		"payment": record,
	})
}

// AbandonFlow drops an in-progress flow.
// DELETE /api/v1/bookings/flow/:flowId
func (h *BookingFlowHandler) AbandonFlow(c *gin.Context) {
	h.flowService.Abandon(c.Param("flowId"))
	utils.SuccessResponse(c, "Booking flow abandoned", nil)
}

func (h *BookingFlowHandler) flowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFlowNotFound):
		utils.NotFoundResponse(c, "Booking flow")
	case errors.Is(err, interfaces.ErrVehicleNotFound):
		utils.NotFoundResponse(c, "Vehicle")
	case errors.Is(err, services.ErrWrongStep):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrNoDateRange):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrEmptySignature):
		utils.BadRequestResponse(c, err.Error())
	default:
		h.logger.WithError(err).Error("booking flow collaborator failure")
		utils.ErrorResponse(c, http.StatusBadGateway, "COLLABORATOR_ERROR", "A dependent service failed, please retry")
	}
}
