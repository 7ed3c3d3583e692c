package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/utils"
)

// GetAvailability lists availability windows, optionally filtered by the
// provider query param. Providers with no filter see their own rows.
func GetAvailability(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	query := db.DB.Model(&models.ProviderAvailability{})
	if providerID := c.QueryInt("provider"); providerID > 0 {
		query = query.Where("provider_id = ?", providerID)
	} else if role == models.RoleProvider {
		query = query.Where("provider_id = ?", userID)
	}

	var rows []models.ProviderAvailability
	if err := query.Order("day_of_week asc, start_time asc").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(rows)
}

// CreateAvailability adds a recurring weekly window for the calling provider.
func CreateAvailability(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	row := new(models.ProviderAvailability)
	if err := c.BodyParser(row); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if role == models.RoleProvider {
		row.ProviderID = userID
	}
	if row.DayOfWeek < models.Monday || row.DayOfWeek > models.Sunday {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "day_of_week must be between 0 (Monday) and 6 (Sunday)",
		})
	}

	if err := db.DB.Create(row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create availability",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateAvailability edits one of the calling provider's windows.
func UpdateAvailability(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id := c.Params("id")
	var row models.ProviderAvailability
	if err := db.DB.First(&row, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability not found",
		})
	}
	if role == models.RoleProvider && row.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only edit your own availability",
		})
	}

	if err := c.BodyParser(&row); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Save(&row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(row)
}

// DeleteAvailability removes one of the calling provider's windows.
func DeleteAvailability(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id := c.Params("id")
	var row models.ProviderAvailability
	if err := db.DB.First(&row, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Availability not found",
		})
	}
	if role == models.RoleProvider && row.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own availability",
		})
	}

	if err := db.DB.Delete(&row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete availability",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTimeOff lists time-off ranges, optionally filtered by provider.
func GetTimeOff(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	query := db.DB.Model(&models.ProviderTimeOff{})
	if providerID := c.QueryInt("provider"); providerID > 0 {
		query = query.Where("provider_id = ?", providerID)
	} else if role == models.RoleProvider {
		query = query.Where("provider_id = ?", userID)
	}

	var rows []models.ProviderTimeOff
	if err := query.Order("start_date asc").Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch time off",
			Error:   err.Error(),
		})
	}
	return c.JSON(rows)
}

// CreateTimeOff adds an absolute time-off range for the calling provider.
func CreateTimeOff(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	row := new(models.ProviderTimeOff)
	if err := c.BodyParser(row); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if role == models.RoleProvider {
		row.ProviderID = userID
	}
	if !row.EndDate.After(row.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "end_date must be after start_date",
		})
	}

	if err := db.DB.Create(row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create time off",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// DeleteTimeOff removes one of the calling provider's time-off ranges.
func DeleteTimeOff(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found in context",
		})
	}

	id := c.Params("id")
	var row models.ProviderTimeOff
	if err := db.DB.First(&row, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Time off not found",
		})
	}
	if role == models.RoleProvider && row.ProviderID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own time off",
		})
	}

	if err := db.DB.Delete(&row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete time off",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
