package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/services"
	"github.com/klararety/telehealth/utils"
)

// currentUser pulls the authenticated identity set by middleware.Protected.
func currentUser(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return 0, "", false
	}
	return userID, role, true
}

// serviceError maps domain error kinds onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error, message string) error {
	status := fiber.StatusInternalServerError

	var validationErr *services.ValidationError
	var transitionErr *models.InvalidTransitionError

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.As(err, &validationErr), errors.As(err, &transitionErr),
		errors.Is(err, models.ErrAlreadyStarted),
		errors.Is(err, models.ErrNotStarted),
		errors.Is(err, models.ErrAlreadyEnded):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(utils.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
