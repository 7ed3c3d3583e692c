package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/controllers"
	"github.com/klararety/telehealth/middleware"
	"github.com/klararety/telehealth/models"
)

// SetupAvailabilityRoutes configures provider availability and time-off routes
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability", middleware.Protected())

	availability.Get("/", controllers.GetAvailability)
	availability.Post("/",
		middleware.RequireRole(models.RoleProvider), controllers.CreateAvailability)
	availability.Patch("/:id",
		middleware.RequireRole(models.RoleProvider), controllers.UpdateAvailability)
	availability.Delete("/:id",
		middleware.RequireRole(models.RoleProvider), controllers.DeleteAvailability)

	timeOff := app.Group("/time-off", middleware.Protected())

	timeOff.Get("/", controllers.GetTimeOff)
	timeOff.Post("/",
		middleware.RequireRole(models.RoleProvider), controllers.CreateTimeOff)
	timeOff.Delete("/:id",
		middleware.RequireRole(models.RoleProvider), controllers.DeleteTimeOff)
}
