package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CADENCE_DAILY    = "daily"
	CADENCE_WEEKLY   = "weekly"
	CADENCE_ASNEEDED = "as_needed"
)

// HabitTemplate is the reusable authored definition of a habit. A template
// reaches a routine either through the direct RoutineID reference or through
// the routine_habits junction table; both paths are first-class and the
// resolver merges them into one set.
type HabitTemplate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	RoutineID   *uint           `gorm:"index" json:"routine_id"`
	Routine     RoutineTemplate `gorm:"foreignKey:RoutineID" json:"-"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=2,max=255"`
	Description string          `gorm:"type:text" json:"description"`
	Cadence     string          `gorm:"type:varchar(20);default:'daily'" json:"cadence" validate:"oneof=daily weekly as_needed"`
	Intensity   string          `gorm:"type:varchar(20);default:'lite'" json:"intensity" validate:"oneof=lite intense"`
	DayStart    *int            `json:"day_start" validate:"omitempty,min=1"`
	DayEnd      *int            `json:"day_end" validate:"omitempty,min=1"`
	OrderIndex  int             `gorm:"default:0" json:"order_index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (h *HabitTemplate) Validate() error {
	v := validator.New()

	return v.Struct(h)
}

// Window returns the template's active day window within a routine of the
// given duration, applying the defaults (full span) for unset bounds.
func (h *HabitTemplate) Window(durationDays int) (int, int) {
	start := 1
	if h.DayStart != nil && *h.DayStart > 0 {
		start = *h.DayStart
	}
	end := durationDays
	if h.DayEnd != nil && *h.DayEnd > 0 {
		end = *h.DayEnd
	}
	return start, end
}

// IsValidCadence reports whether s is a known cadence value.
func IsValidCadence(s string) bool {
	switch s {
	case CADENCE_DAILY, CADENCE_WEEKLY, CADENCE_ASNEEDED:
		return true
	}
	return false
}
