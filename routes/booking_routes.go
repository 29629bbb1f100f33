package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
)

// SetupBookingRoutes mounts the checkout flow and the back-office booking
// endpoints.
func SetupBookingRoutes(api *gin.RouterGroup, flowHandler *handlers.BookingFlowHandler, bookingHandler *handlers.BookingHandler, jwtSecret string) {
	flow := api.Group("/bookings/flow")
	flow.Use(middleware.AuthRequired(jwtSecret))
	{
		flow.POST("", flowHandler.StartFlow)
		flow.GET("/:flowId", flowHandler.GetFlow)
		flow.PUT("/:flowId/dates", flowHandler.SelectDates)
		flow.PUT("/:flowId/insurance", flowHandler.SelectInsurance)
		flow.PUT("/:flowId/delivery", flowHandler.SelectDelivery)
		flow.PUT("/:flowId/extras", flowHandler.SelectExtras)
		flow.GET("/:flowId/quote", flowHandler.GetQuote)
		flow.POST("/:flowId/confirm", flowHandler.ConfirmSummary)
		flow.POST("/:flowId/advance", flowHandler.AdvanceToSignature)
		flow.POST("/:flowId/sign", flowHandler.SignContract)
		flow.DELETE("/:flowId", flowHandler.AbandonFlow)
	}

	bookings := api.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		bookings.GET("", bookingHandler.ListBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)
		bookings.PATCH("/:id/details", bookingHandler.UpdateBookingDetails)
		bookings.GET("/:id/contract", bookingHandler.DownloadContract)
	}
}
