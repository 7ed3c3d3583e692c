package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/controllers"
	"github.com/klararety/telehealth/middleware"
	"github.com/klararety/telehealth/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())

	appointment.Get("/available-slots", controllers.AvailableSlots)
	appointment.Get("/upcoming", controllers.GetUpcomingAppointments)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Post("/", controllers.CreateAppointment)
	appointment.Post("/:id/cancel", controllers.CancelAppointment)
	appointment.Post("/:id/reschedule", controllers.RescheduleAppointment)
	appointment.Post("/send-reminders",
		middleware.RequireRole(models.RoleAdmin), controllers.SendReminders)
}
