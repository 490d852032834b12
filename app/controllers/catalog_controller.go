package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/app/repository"
	"github.com/sojournlabs/sojourn/internal/pkg/scheduling"
)

const defaultPageSize = 50

type assignRequest struct {
	UserID     uint `json:"user_id" validate:"required"`
	TemplateID uint `json:"template_id" validate:"required"`
}

type customHabitRequest struct {
	UserID      uint   `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Cadence     string `json:"cadence" validate:"required,oneof=daily weekly as_needed"`
}

// routineGetter is the read slice resolveRoutineTemplates needs.
type routineGetter interface {
	GetByID(id uint) (*models.RoutineTemplate, error)
}

// resolveRoutineTemplates verifies the routine exists, then resolves its
// deduplicated template set at the requested intensity.
func resolveRoutineTemplates(routines routineGetter, templates scheduling.TemplateSource, routineID uint, intensity string) ([]models.HabitTemplate, error) {
	if _, err := routines.GetByID(routineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrRoutineNotFound
		}
		return nil, err
	}
	return scheduling.ResolveTemplates(templates, routineID, intensity)
}

// HandleAssignHabit subscribes a user to a catalog habit and pre-materializes
// its fixed horizon.
func HandleAssignHabit(c *fiber.Ctx) error {
	var req assignRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id and template_id are required")
	}

	result, err := getSchedulingService().Assign(c.Context(), req.UserID, req.TemplateID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleCreateCustomHabit creates a fully custom habit for a user.
func HandleCreateCustomHabit(c *fiber.Ctx) error {
	var req customHabitRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "user_id, title and cadence (daily|weekly|as_needed) are required")
	}

	result, err := getSchedulingService().CreateCustomHabit(c.Context(), req.UserID, req.Title, req.Description, req.Cadence)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleUnassignHabit soft-deletes a standalone assignment, preserving
// completion history.
func HandleUnassignHabit(c *fiber.Ctx) error {
	assignmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || assignmentID == 0 {
		return badRequest(c, "invalid assignment id")
	}

	assignment, err := getSchedulingService().Unassign(c.Context(), uint(assignmentID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"assignment": assignment})
}

// HandleListAssignments returns a user's active standalone assignments.
func HandleListAssignments(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || userID == 0 {
		return badRequest(c, "invalid user id")
	}

	assignments, err := repository.GetGlobalFactory().GetAssignmentRepository().ListActiveByUserID(uint(userID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"assignments": assignments})
}

// HandleListRoutines returns the routine catalog, filtered by category when
// one is given, paginated otherwise.
func HandleListRoutines(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetRoutineRepository()

	if category := c.Query("category"); category != "" {
		routines, err := repo.GetByCategory(category)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fiber.Map{"routines": routines, "total": len(routines)})
	}

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageSize)
	if offset < 0 || limit < 1 || limit > defaultPageSize {
		return badRequest(c, "offset must be >= 0 and limit between 1 and 50")
	}

	routines, err := repo.List(offset, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	total, err := repo.Count()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"routines": routines, "total": total})
}

// HandleHabitCatalog returns the habit template catalog page by page.
func HandleHabitCatalog(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageSize)
	if offset < 0 || limit < 1 || limit > defaultPageSize {
		return badRequest(c, "offset must be >= 0 and limit between 1 and 50")
	}

	templates, err := repository.GetGlobalFactory().GetHabitTemplateRepository().List(offset, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// HandleRoutineTemplates is the read view over the template resolver: the
// deduplicated template set a routine yields at the requested intensity.
func HandleRoutineTemplates(c *fiber.Ctx) error {
	routineID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || routineID == 0 {
		return badRequest(c, "invalid routine id")
	}
	intensity := c.Query("intensity", models.INTENSITY_INTENSE)
	if !models.IsValidIntensity(intensity) {
		return badRequest(c, "intensity must be lite or intense")
	}

	factory := repository.GetGlobalFactory()
	templates, err := resolveRoutineTemplates(
		factory.GetRoutineRepository(),
		factory.GetHabitTemplateRepository(),
		uint(routineID),
		intensity,
	)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}
