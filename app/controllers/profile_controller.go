package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/repository"
)

// HandleUserProfile returns the engine-owned profile slice: streaks, glow
// points and the active routine pointer.
func HandleUserProfile(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || userID == 0 {
		return badRequest(c, "invalid user id")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	user, err := userRepo.GetByID(uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return respondServiceError(c, err)
	}

	resp := fiber.Map{
		"user_id":           user.ID,
		"active_routine_id": user.ActiveRoutineID,
		"routine_intensity": user.RoutineIntensity,
		"current_streak":    user.CurrentStreak,
		"longest_streak":    user.LongestStreak,
		"glow_points":       user.GlowPoints,
	}

	// Include the active enrollment and its progress when one exists.
	if enrollment, err := repository.GetGlobalFactory().GetEnrollmentRepository().GetActiveByUserID(uint(userID)); err == nil {
		resp["active_enrollment"] = enrollment

		instanceRepo := repository.GetGlobalFactory().GetHabitInstanceRepository()
		if total, err := instanceRepo.CountByEnrollmentID(enrollment.ID); err == nil {
			resp["habits_scheduled"] = total
		}
		if completed, err := instanceRepo.CountCompletedByEnrollmentID(enrollment.ID); err == nil {
			resp["habits_completed"] = completed
		}
	}

	return c.JSON(resp)
}
