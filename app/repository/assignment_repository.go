package repository

import (
	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
)

// assignmentRepository implements the AssignmentRepository interface
type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new standalone assignment repository instance
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListActiveByUserID(userID uint) ([]models.StandaloneAssignment, error) {
	var assignments []models.StandaloneAssignment
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}
