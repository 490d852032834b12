package repository

import (
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
)

// habitTemplateRepository implements the HabitTemplateRepository interface
type habitTemplateRepository struct {
	db *gorm.DB
}

// NewHabitTemplateRepository creates a new habit template repository instance
func NewHabitTemplateRepository(db *gorm.DB) HabitTemplateRepository {
	return &habitTemplateRepository{db: db}
}

// TemplatesByRoutine returns templates that reference the routine directly.
func (r *habitTemplateRepository) TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var templates []models.HabitTemplate
	err := r.db.Where("routine_id = ?", routineID).Order("order_index ASC, id ASC").Find(&templates).Error
	return templates, err
}

// TemplatesAssignedToRoutine returns templates reachable through the
// routine_habits junction table.
func (r *habitTemplateRepository) TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var templates []models.HabitTemplate
	err := r.db.
		Joins("JOIN routine_habits ON routine_habits.habit_template_id = habit_templates.id").
		Where("routine_habits.routine_id = ?", routineID).
		Order("habit_templates.order_index ASC, habit_templates.id ASC").
		Find(&templates).Error
	return templates, err
}

func (r *habitTemplateRepository) List(offset, limit int) ([]models.HabitTemplate, error) {
	var templates []models.HabitTemplate
	err := r.db.Offset(offset).Limit(limit).Order("id ASC").Find(&templates).Error
	return templates, err
}
