package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep behavior consistent
	"github.com/sojournlabs/sojourn/app/controllers"
)

// APIServer implements the v1 API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// RegisterHandlers attaches the v1 routes to a router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	// Enrollment lifecycle
	router.Post("/enrollments", controllers.HandleEnroll)
	router.Post("/enrollments/pause", controllers.HandlePauseEnrollment)
	router.Post("/enrollments/abandon", controllers.HandleAbandonEnrollment)
	router.Post("/enrollments/reconcile", controllers.HandleReconcile)

	// Daily schedule and completion
	router.Get("/users/:id/habits/today", controllers.HandleTodayHabits)
	router.Get("/users/:id/habits/range", controllers.HandleHabitRange)
	router.Get("/users/:id/profile", controllers.HandleUserProfile)
	router.Get("/users/:id/enrollments", controllers.HandleListEnrollments)
	router.Patch("/habits/:id/completion", controllers.HandleToggleCompletion)

	// Catalog / standalone habits
	router.Post("/assignments", controllers.HandleAssignHabit)
	router.Post("/assignments/custom", controllers.HandleCreateCustomHabit)
	router.Delete("/assignments/:id", controllers.HandleUnassignHabit)
	router.Get("/users/:id/assignments", controllers.HandleListAssignments)
	router.Get("/catalog/habits", controllers.HandleHabitCatalog)
	router.Get("/routines", controllers.HandleListRoutines)
	router.Get("/routines/:id/templates", controllers.HandleRoutineTemplates)
}
