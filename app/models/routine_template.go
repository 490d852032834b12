package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RoutineTemplate is an authored multi-day program. Content administration
// owns these rows; the engine only reads them.
type RoutineTemplate struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=3,max=255"`
	Description  string         `gorm:"type:text" json:"description"`
	DurationDays int            `gorm:"not null" json:"duration_days" validate:"required,min=1,max=365"`
	Category     string         `gorm:"type:varchar(100);index" json:"category"`
	Tier         string         `gorm:"type:varchar(50);default:'standard'" json:"tier"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *RoutineTemplate) Validate() error {
	v := validator.New()

	return v.Struct(r)
}
