package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
)

// SetupVehicleRoutes mounts fleet browsing for customers and fleet
// management for admins.
func SetupVehicleRoutes(api *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, jwtSecret string) {
	vehicles := api.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(jwtSecret))
	{
		vehicles.GET("", vehicleHandler.ListVehicles)
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
	}

	admin := api.Group("/vehicles")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", vehicleHandler.CreateVehicle)
		admin.PUT("/:id", vehicleHandler.UpdateVehicle)
		admin.DELETE("/:id", vehicleHandler.DeleteVehicle)
	}
}
