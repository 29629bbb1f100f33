package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/logger"
)

// VehicleHandler manages the fleet. Customers browse it; admins edit it.
type VehicleHandler struct {
	vehicleRepo interfaces.VehicleRepository
	logger      *logger.Logger
}

func NewVehicleHandler(vehicleRepo interfaces.VehicleRepository, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleRepo: vehicleRepo,
		logger:      log,
	}
}

// ListVehicles returns the whole fleet.
// GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list vehicles")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Vehicles retrieved", vehicles, &utils.Meta{Count: len(vehicles)})
}

// GetVehicle returns one vehicle with its rate card.
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.vehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved", vehicle)
}

// CreateVehicle adds a vehicle to the fleet.
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if errs := validators.ValidateStruct(&vehicle); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	if err := h.vehicleRepo.Create(c.Request.Context(), &vehicle); err != nil {
		h.logger.WithError(err).Error("failed to create vehicle")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, "Vehicle created", vehicle)
}

// UpdateVehicle edits rate card and descriptive fields.
// PUT /api/v1/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	delete(updates, "_id")

	if err := h.vehicleRepo.Update(c.Request.Context(), id, updates); err != nil {
		h.vehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated", nil)
}

// DeleteVehicle removes a vehicle from the fleet. Existing bookings keep
// their snapshot of its terms.
// DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleRepo.Delete(c.Request.Context(), id); err != nil {
		h.vehicleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted", nil)
}

func (h *VehicleHandler) vehicleError(c *gin.Context, err error) {
	if errors.Is(err, interfaces.ErrVehicleNotFound) {
		utils.NotFoundResponse(c, "Vehicle")
		return
	}
	h.logger.WithError(err).Error("vehicle operation failed")
	utils.InternalServerErrorResponse(c)
}
