package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type toggleRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// HandleTodayHabits returns today's instances for a user, grouped by cadence.
func HandleTodayHabits(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || userID == 0 {
		return badRequest(c, "invalid user id")
	}

	view, err := getSchedulingService().TodayInstances(c.Context(), uint(userID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// HandleToggleCompletion flips the completion flag on a habit instance. The
// first completion of an instance grants glow points once; unchecking never
// deducts them.
func HandleToggleCompletion(c *fiber.Ctx) error {
	instanceID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || instanceID == 0 {
		return badRequest(c, "invalid habit instance id")
	}

	var req toggleRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "completed (bool) is required")
	}

	instance, err := getSchedulingService().ToggleCompletion(c.Context(), uint(instanceID), *req.Completed)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"habit_instance": instance})
}

// HandleHabitRange returns per-day completion aggregates over an inclusive
// date range, for calendar and analytics views.
func HandleHabitRange(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || userID == 0 {
		return badRequest(c, "invalid user id")
	}
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		return badRequest(c, "start and end query parameters are required (YYYY-MM-DD)")
	}

	summaries, err := getSchedulingService().RangeSummary(c.Context(), uint(userID), start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"days": summaries})
}
