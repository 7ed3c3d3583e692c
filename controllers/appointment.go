package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/services"
	"github.com/klararety/telehealth/utils"
)

// GetAppointment returns an appointment by ID.
func GetAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Patient").Preload("Provider").First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

// CreateAppointment books a new appointment through the booking guard.
// Patients book for themselves; providers and admins may book on behalf of
// a patient.
func CreateAppointment(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	var body struct {
		PatientID       uint                   `json:"patient_id"`
		ProviderID      uint                   `json:"provider_id"`
		ScheduledTime   time.Time              `json:"scheduled_time"`
		EndTime         time.Time              `json:"end_time"`
		AppointmentType models.AppointmentType `json:"appointment_type"`
		Reason          string                 `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	patientID := body.PatientID
	if role == models.RolePatient {
		patientID = userID
	}

	appointment, err := services.CreateAppointment(
		patientID, body.ProviderID, body.ScheduledTime, body.EndTime,
		body.AppointmentType, body.Reason,
	)
	if err != nil {
		return serviceError(c, err, "Failed to create appointment")
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetUpcomingAppointments lists the caller's future appointments.
func GetUpcomingAppointments(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	appointments, err := services.UpcomingAppointments(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// CancelAppointment cancels a scheduled or confirmed appointment.
func CancelAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	appointment, err := services.CancelAppointment(uint(id))
	if err != nil {
		return serviceError(c, err, "Failed to cancel appointment")
	}
	return c.JSON(fiber.Map{
		"message":     "Appointment cancelled successfully",
		"appointment": appointment,
	})
}

// RescheduleAppointment books a replacement appointment for a new time range
// and marks the current one rescheduled.
func RescheduleAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	var body struct {
		ScheduledTime string `json:"scheduled_time"`
		EndTime       string `json:"end_time"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	newStart, err := time.Parse(time.RFC3339, body.ScheduledTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scheduled time format. Please use RFC3339 format.",
		})
	}
	newEnd, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end time format. Please use RFC3339 format.",
		})
	}

	replacement, err := services.RescheduleAppointment(uint(id), newStart, newEnd)
	if err != nil {
		return serviceError(c, err, "Failed to reschedule appointment")
	}
	return c.JSON(fiber.Map{
		"message":     "Appointment rescheduled successfully",
		"appointment": replacement,
	})
}

// AvailableSlots returns the open 30-minute slots for a provider on a date.
func AvailableSlots(c *fiber.Ctx) error {
	providerID := c.QueryInt("provider")
	dateStr := c.Query("date")
	if providerID <= 0 || dateStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provider ID and date are required",
		})
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format. Please use YYYY-MM-DD.",
		})
	}

	slots, err := services.ProviderSlots(uint(providerID), date)
	if err != nil {
		return serviceError(c, err, "Failed to resolve available slots")
	}
	return c.JSON(slots)
}

// SendReminders manually triggers a reminder sweep.
func SendReminders(c *fiber.Ctx) error {
	sent, pending := services.SweepReminders()
	return c.JSON(fiber.Map{
		"message": fiber.Map{
			"sent":    sent,
			"pending": pending,
		},
	})
}
