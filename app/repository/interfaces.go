package repository

import (
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
)

// UserRepository defines the interface for user profile reads. Identity
// management lives outside this service, so there are no write methods.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// RoutineRepository defines the interface for routine template operations
type RoutineRepository interface {
	GetByID(id uint) (*models.RoutineTemplate, error)
	GetByCategory(category string) ([]models.RoutineTemplate, error)
	List(offset, limit int) ([]models.RoutineTemplate, error)
	Count() (int64, error)
}

// HabitTemplateRepository defines the interface for habit template reads.
// The two routine accessors satisfy scheduling.TemplateSource, so catalog
// reads resolve templates through the same path the enroll saga uses.
type HabitTemplateRepository interface {
	TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error)
	TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error)
	List(offset, limit int) ([]models.HabitTemplate, error)
}

// EnrollmentRepository defines the interface for enrollment reads used by
// the API surface; all writes go through the scheduling engine.
type EnrollmentRepository interface {
	GetActiveByUserID(userID uint) (*models.Enrollment, error)
	ListByUserID(userID uint) ([]models.Enrollment, error)
}

// HabitInstanceRepository defines the interface for habit instance
// aggregates served on the profile
type HabitInstanceRepository interface {
	CountByEnrollmentID(enrollmentID uint) (int64, error)
	CountCompletedByEnrollmentID(enrollmentID uint) (int64, error)
}

// AssignmentRepository defines the interface for standalone assignment reads
type AssignmentRepository interface {
	ListActiveByUserID(userID uint) ([]models.StandaloneAssignment, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User          UserRepository
	Routine       RoutineRepository
	HabitTemplate HabitTemplateRepository
	Enrollment    EnrollmentRepository
	HabitInstance HabitInstanceRepository
	Assignment    AssignmentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Routine:       NewRoutineRepository(db),
		HabitTemplate: NewHabitTemplateRepository(db),
		Enrollment:    NewEnrollmentRepository(db),
		HabitInstance: NewHabitInstanceRepository(db),
		Assignment:    NewAssignmentRepository(db),
	}
}
