package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/controllers"
	"github.com/klararety/telehealth/middleware"
	"github.com/klararety/telehealth/models"
)

// SetupConsultationRoutes configures all consultation related routes
func SetupConsultationRoutes(app *fiber.App) {
	consultation := app.Group("/consultations", middleware.Protected())

	consultation.Get("/:id", controllers.GetConsultation)
	consultation.Post("/",
		middleware.RequireRole(models.RoleProvider), controllers.CreateConsultation)
	consultation.Post("/:id/start",
		middleware.RequireRole(models.RoleProvider), controllers.StartConsultation)
	consultation.Post("/:id/end",
		middleware.RequireRole(models.RoleProvider), controllers.EndConsultation)
	consultation.Get("/:id/join-info", controllers.JoinInfo)
	consultation.Post("/:id/request-access-code", controllers.RequestAccessCode)
	consultation.Post("/:id/verify-access-code", controllers.VerifyAccessCode)
	consultation.Post("/redeem-ticket", controllers.RedeemJoinTicket)
	consultation.Delete("/:id",
		middleware.RequireRole(models.RoleProvider), controllers.DeleteConsultation)
}
