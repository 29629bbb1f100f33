package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/logger"
)

// CalendarHandler renders the staff occupancy calendar: one row per
// vehicle, one cell per day of the requested month.
type CalendarHandler struct {
	availability *services.AvailabilityService
	vehicleRepo  interfaces.VehicleRepository
	userRepo     interfaces.UserRepository
	logger       *logger.Logger
}

func NewCalendarHandler(availability *services.AvailabilityService, vehicleRepo interfaces.VehicleRepository, userRepo interfaces.UserRepository, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		availability: availability,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		logger:       log,
	}
}

type calendarBooking struct {
	BookingID    string               `json:"booking_id"`
	ContractID   string               `json:"contract_id"`
	CustomerName string               `json:"customer_name"`
	Status       models.BookingStatus `json:"status"`
	CheckIn      string               `json:"check_in"`
	CheckOut     string               `json:"check_out"`
}

type calendarCell struct {
	Date     string              `json:"date"`
	Status   services.CellStatus `json:"status"`
	Bookings []calendarBooking   `json:"bookings,omitempty"`
}

type vehicleRow struct {
	VehicleID    string         `json:"vehicle_id"`
	Name         string         `json:"name"`
	LicensePlate string         `json:"license_plate"`
	Cells        []calendarCell `json:"cells"`
}

// GetMonth builds the calendar grid for ?month=YYYY-MM, defaulting to the
// current month.
// GET /api/v1/calendar
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse(utils.MonthLayout, raw)
		if err != nil {
			utils.BadRequestResponse(c, "Month must be in YYYY-MM format")
			return
		}
		month = parsed
	}

	ctx := c.Request.Context()

	vehicles, err := h.vehicleRepo.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("failed to load vehicles for calendar")
		utils.InternalServerErrorResponse(c)
		return
	}

	index, err := h.availability.MonthIndex(ctx, month)
	if err != nil {
		h.logger.WithError(err).Error("failed to build availability index")
		utils.InternalServerErrorResponse(c)
		return
	}

	customers, err := h.userRepo.GetByIDs(ctx, customerIDs(index))
	if err != nil {
		// Names are cosmetic on the calendar; render without them.
		h.logger.WithError(err).Warn("failed to resolve customer names")
		customers = map[primitive.ObjectID]*models.User{}
	}

	days := utils.EnumerateDays(utils.StartOfMonth(month), utils.EndOfMonth(month))

	rows := make([]vehicleRow, 0, len(vehicles))
	for _, vehicle := range vehicles {
		row := vehicleRow{
			VehicleID:    vehicle.ID.Hex(),
			Name:         vehicle.DisplayName(),
			LicensePlate: vehicle.LicensePlate,
			Cells:        make([]calendarCell, 0, len(days)),
		}

		for _, d := range days {
			key := utils.DateKey(d)
			cell := calendarCell{
				Date:   key,
				Status: h.availability.CellStatus(vehicle, index, key),
			}

			for _, booking := range h.availability.BookingsAt(index, vehicle.ID, key) {
				name := ""
				if customer := customers[booking.CustomerID]; customer != nil {
					name = customer.FullName()
				}
				cell.Bookings = append(cell.Bookings, calendarBooking{
					BookingID:    booking.ID.Hex(),
					ContractID:   booking.ContractID,
					CustomerName: name,
					Status:       booking.Status,
					CheckIn:      utils.DateKey(booking.CheckIn),
					CheckOut:     utils.DateKey(booking.CheckOut),
				})
			}

			row.Cells = append(row.Cells, cell)
		}

		rows = append(rows, row)
	}

	utils.SuccessResponse(c, "Calendar retrieved", gin.H{
		"month":    month.Format(utils.MonthLayout),
		"vehicles": rows,
	})
}

// SetMaintenance flags a vehicle as unavailable regardless of bookings.
// PUT /api/v1/calendar/vehicles/:id/maintenance
func (h *CalendarHandler) SetMaintenance(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	var req struct {
		InMaintenance bool `json:"in_maintenance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.vehicleRepo.SetMaintenance(c.Request.Context(), id, req.InMaintenance); err != nil {
		if errors.Is(err, interfaces.ErrVehicleNotFound) {
			utils.NotFoundResponse(c, "Vehicle")
			return
		}
		h.logger.WithError(err).Error("failed to update maintenance flag")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Maintenance flag updated", nil)
}

func customerIDs(index services.AvailabilityIndex) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, days := range index {
		for _, bookings := range days {
			for _, booking := range bookings {
				if _, ok := seen[booking.CustomerID]; ok {
					continue
				}
				seen[booking.CustomerID] = struct{}{}
				ids = append(ids, booking.CustomerID)
			}
		}
	}
	return ids
}
