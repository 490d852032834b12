package controllers

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/sojournlabs/sojourn/app/repository"
	"github.com/sojournlabs/sojourn/internal/pkg/database"
	"github.com/sojournlabs/sojourn/internal/pkg/scheduling"
)

var (
	schedulingService *scheduling.Service
	schedulingOnce    sync.Once
)

// InitializeSchedulingController wires the controllers to the engine.
// Called once from the router during app setup.
func InitializeSchedulingController() {
	schedulingOnce.Do(func() {
		schedulingService = scheduling.NewServiceFromDB(database.GetDB())
	})
}

func getSchedulingService() *scheduling.Service {
	if schedulingService == nil {
		InitializeSchedulingController()
	}
	return schedulingService
}

type enrollRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	RoutineID uint   `json:"routine_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	Intensity string `json:"intensity" validate:"required,oneof=lite intense"`
}

type userRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// HandleEnroll starts a routine for a user. An exact duplicate of an earlier
// request replays the original enrollment with already_enrolled=true.
func HandleEnroll(c *fiber.Ctx) error {
	var req enrollRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id, routine_id, start_date (YYYY-MM-DD) and intensity (lite|intense) are required")
	}

	result, err := getSchedulingService().Enroll(c.Context(), req.UserID, req.RoutineID, req.StartDate, req.Intensity)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusCreated
	if result.AlreadyEnrolled {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(result)
}

// HandlePauseEnrollment pauses the user's active enrollment.
func HandlePauseEnrollment(c *fiber.Ctx) error {
	var req userRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id is required")
	}

	enrollment, err := getSchedulingService().Pause(c.Context(), req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"enrollment": enrollment})
}

// HandleAbandonEnrollment abandons the user's active enrollment (terminal).
func HandleAbandonEnrollment(c *fiber.Ctx) error {
	var req userRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id is required")
	}

	enrollment, err := getSchedulingService().Abandon(c.Context(), req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"enrollment": enrollment})
}

// HandleListEnrollments returns a user's enrollment history, newest first.
func HandleListEnrollments(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || userID == 0 {
		return badRequest(c, "invalid user id")
	}

	enrollments, err := repository.GetGlobalFactory().GetEnrollmentRepository().ListByUserID(uint(userID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"enrollments": enrollments})
}

// HandleReconcile heals missing instances for today under the user's active
// enrollment. Safe to call redundantly; typically fired once per client
// session load.
func HandleReconcile(c *fiber.Ctx) error {
	var req userRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id is required")
	}

	result, err := getSchedulingService().Reconcile(c.Context(), req.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
