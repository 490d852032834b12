package repository

import (
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
)

// habitInstanceRepository implements the HabitInstanceRepository interface
type habitInstanceRepository struct {
	db *gorm.DB
}

// NewHabitInstanceRepository creates a new habit instance repository instance
func NewHabitInstanceRepository(db *gorm.DB) HabitInstanceRepository {
	return &habitInstanceRepository{db: db}
}

func (r *habitInstanceRepository) CountByEnrollmentID(enrollmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.HabitInstance{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}

func (r *habitInstanceRepository) CountCompletedByEnrollmentID(enrollmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.HabitInstance{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&count).Error
	return count, err
}
