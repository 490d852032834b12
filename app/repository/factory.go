package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetRoutineRepository returns the routine template repository instance
func (f *Factory) GetRoutineRepository() RoutineRepository {
	return f.GetRepositories().Routine
}

// GetHabitTemplateRepository returns the habit template repository instance
func (f *Factory) GetHabitTemplateRepository() HabitTemplateRepository {
	return f.GetRepositories().HabitTemplate
}

// GetEnrollmentRepository returns the enrollment repository instance
func (f *Factory) GetEnrollmentRepository() EnrollmentRepository {
	return f.GetRepositories().Enrollment
}

// GetHabitInstanceRepository returns the habit instance repository instance
func (f *Factory) GetHabitInstanceRepository() HabitInstanceRepository {
	return f.GetRepositories().HabitInstance
}

// GetAssignmentRepository returns the standalone assignment repository instance
func (f *Factory) GetAssignmentRepository() AssignmentRepository {
	return f.GetRepositories().Assignment
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
