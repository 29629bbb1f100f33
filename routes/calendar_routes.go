package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
)

// SetupCalendarRoutes mounts the staff occupancy calendar.
func SetupCalendarRoutes(api *gin.RouterGroup, calendarHandler *handlers.CalendarHandler, jwtSecret string) {
	calendar := api.Group("/calendar")
	calendar.Use(middleware.AuthRequired(jwtSecret), middleware.StaffRequired())
	{
		calendar.GET("", calendarHandler.GetMonth)
		calendar.PUT("/vehicles/:id/maintenance", calendarHandler.SetMaintenance)
	}
}
