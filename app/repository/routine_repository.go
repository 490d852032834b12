package repository

import (
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
)

// routineRepository implements the RoutineRepository interface
type routineRepository struct {
	db *gorm.DB
}

// NewRoutineRepository creates a new routine template repository instance
func NewRoutineRepository(db *gorm.DB) RoutineRepository {
	return &routineRepository{db: db}
}

func (r *routineRepository) GetByID(id uint) (*models.RoutineTemplate, error) {
	var routine models.RoutineTemplate
	err := r.db.First(&routine, id).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *routineRepository) GetByCategory(category string) ([]models.RoutineTemplate, error) {
	var routines []models.RoutineTemplate
	err := r.db.Where("category = ?", category).Order("title ASC").Find(&routines).Error
	return routines, err
}

func (r *routineRepository) List(offset, limit int) ([]models.RoutineTemplate, error) {
	var routines []models.RoutineTemplate
	err := r.db.Offset(offset).Limit(limit).Order("id ASC").Find(&routines).Error
	return routines, err
}

func (r *routineRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.RoutineTemplate{}).Count(&count).Error
	return count, err
}
