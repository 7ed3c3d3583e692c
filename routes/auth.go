package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/controllers"
	"github.com/klararety/telehealth/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
}
