package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/klararety/telehealth/cron"
	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/redis"
	"github.com/klararety/telehealth/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Klararety Health Platform")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupAvailabilityRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupConsultationRoutes(app)

	cron.StartCronJobs()

	app.Listen(":8000")
	fmt.Println("Server started on port 8000")
}
