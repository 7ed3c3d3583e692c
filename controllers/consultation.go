package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/redis"
	"github.com/klararety/telehealth/services"
	"github.com/klararety/telehealth/utils"
)

// GetConsultation returns a consultation by ID.
func GetConsultation(c *fiber.Ctx) error {
	id := c.Params("id")
	var consultation models.Consultation
	if err := db.DB.Preload("Appointment").First(&consultation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Consultation not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(consultation)
}

// CreateConsultation creates the session companion for a video appointment.
func CreateConsultation(c *fiber.Ctx) error {
	var body struct {
		AppointmentID uint   `json:"appointment_id"`
		Notes         string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	consultation, err := services.CreateConsultation(body.AppointmentID, body.Notes)
	if err != nil {
		return serviceError(c, err, "Failed to create consultation")
	}
	return c.Status(fiber.StatusCreated).JSON(consultation)
}

// StartConsultation begins the session and moves the appointment to
// in_progress. The provider additionally receives the privileged start URL.
func StartConsultation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	consultation, err := services.StartConsultation(uint(id))
	if err != nil {
		return serviceError(c, err, "Failed to start consultation")
	}

	_, role, _ := currentUser(c)
	response := fiber.Map{"consultation": consultation}
	if role == models.RoleProvider && consultation.StartURL != "" {
		response["start_url"] = consultation.StartURL
	}
	return c.JSON(response)
}

// EndConsultation ends the session and completes the appointment.
func EndConsultation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	consultation, err := services.EndConsultation(uint(id))
	if err != nil {
		return serviceError(c, err, "Failed to end consultation")
	}
	return c.JSON(consultation)
}

// JoinInfo returns the meeting credentials for a participant.
func JoinInfo(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	info, err := services.ConsultationJoinInfo(uint(id), userID, role)
	if err != nil {
		return serviceError(c, err, "Failed to fetch join info")
	}
	return c.JSON(info)
}

// RequestAccessCode emails a single-use join code to the patient.
func RequestAccessCode(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	// Only participants of this consultation may request a code.
	var consultation models.Consultation
	if err := db.DB.Preload("Appointment").First(&consultation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Consultation not found",
		})
	}
	appt := consultation.Appointment
	if role != models.RoleAdmin && userID != appt.PatientID && userID != appt.ProviderID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to access this consultation",
		})
	}

	sent, err := services.RequestAccessCode(uint(id))
	if err != nil {
		return serviceError(c, err, "Failed to generate access code")
	}
	if !sent {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send access code",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Access code sent successfully to your email",
	})
}

// VerifyAccessCode redeems a join code; on success it returns the meeting
// credentials plus a one-time join ticket.
func VerifyAccessCode(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil || body.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Access code is required",
		})
	}

	ticket, valid, err := services.VerifyAccessCode(uint(id), body.Code)
	if err != nil {
		return serviceError(c, err, "Failed to verify access code")
	}
	if !valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired access code",
		})
	}

	var consultation models.Consultation
	if err := db.DB.Preload("Appointment").First(&consultation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Consultation not found",
		})
	}

	info := services.JoinInfo{
		MeetingID:       consultation.MeetingID,
		MeetingPassword: consultation.MeetingPassword,
		JoinURL:         consultation.JoinURL,
	}
	if role == models.RoleProvider && userID == consultation.Appointment.ProviderID {
		info.StartURL = consultation.StartURL
	}
	return c.JSON(fiber.Map{
		"message":     "Access code verified successfully",
		"join_ticket": ticket,
		"join_info":   info,
	})
}

// RedeemJoinTicket exchanges a one-time join ticket for the meeting
// credentials. Tickets are minted by VerifyAccessCode and expire with the
// access-code TTL.
func RedeemJoinTicket(c *fiber.Ctx) error {
	var body struct {
		Ticket string `json:"ticket"`
	}
	if err := c.BodyParser(&body); err != nil || body.Ticket == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Join ticket is required",
		})
	}

	consultationID, ok := redis.ConsumeJoinTicket(body.Ticket)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired join ticket",
		})
	}

	var consultation models.Consultation
	if err := db.DB.First(&consultation, consultationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Consultation not found",
		})
	}

	// Tickets are patient-side; the start URL never travels this path.
	return c.JSON(services.JoinInfo{
		MeetingID:       consultation.MeetingID,
		MeetingPassword: consultation.MeetingPassword,
		JoinURL:         consultation.JoinURL,
	})
}

// DeleteConsultation removes the consultation and its remote meeting.
func DeleteConsultation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid consultation ID",
		})
	}

	if err := services.DeleteConsultation(uint(id)); err != nil {
		return serviceError(c, err, "Failed to delete consultation")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
