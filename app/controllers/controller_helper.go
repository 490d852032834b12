package controllers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sojournlabs/sojourn/internal/pkg/scheduling"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	return validate.Struct(out)
}

// badRequest renders a 400 with the common JSON error shape.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

// respondServiceError maps engine errors onto HTTP outcomes: validation to
// 400, missing entities to 404, a concurrent enroll to 409, and scheduling
// failures (already rolled back) to 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrRoutineNotFound),
		errors.Is(err, scheduling.ErrUserNotFound),
		errors.Is(err, scheduling.ErrEnrollmentNotFound),
		errors.Is(err, scheduling.ErrInstanceNotFound),
		errors.Is(err, scheduling.ErrTemplateNotFound),
		errors.Is(err, scheduling.ErrAssignmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, scheduling.ErrEnrollmentInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": err.Error()})
	}

	var schedErr *scheduling.SchedulingError
	if errors.As(err, &schedErr) {
		log.Printf("scheduling failure (rolled back): %v", schedErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "scheduling_failure",
			"message": "Enrollment could not be scheduled; no changes were applied",
		})
	}

	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_server_error",
		"message": "Unexpected error",
	})
}
