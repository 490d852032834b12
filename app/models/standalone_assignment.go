package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// StandaloneAssignment is a user's subscription to a catalog habit or a
// custom habit outside any enrollment. Rows are soft-deleted via IsActive so
// completion history survives an unassign.
type StandaloneAssignment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;index:idx_user_template_assignment;not null" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"-"`
	TemplateID  *uint          `gorm:"index:idx_user_template_assignment" json:"template_id"`
	Template    *HabitTemplate `gorm:"foreignKey:TemplateID" json:"-"`
	IsCustom    bool           `gorm:"default:false" json:"is_custom"`
	Title       string         `gorm:"type:varchar(255)" json:"title" validate:"omitempty,min=2,max=255"`
	Description string         `gorm:"type:text" json:"description"`
	Cadence     string         `gorm:"type:varchar(20);default:'daily'" json:"cadence" validate:"oneof=daily weekly as_needed"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *StandaloneAssignment) Validate() error {
	v := validator.New()

	return v.Struct(s)
}
