package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	INTENSITY_LITE    = "lite"
	INTENSITY_INTENSE = "intense"
)

// User carries the profile slice the scheduling engine owns. Identity and
// authentication live outside this service; the engine is the sole writer of
// the active-routine pointer, the streak counters and the glow point balance.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	ActiveRoutineID  *uint          `gorm:"index" json:"active_routine_id"`
	RoutineIntensity string         `gorm:"type:varchar(20);default:null" json:"routine_intensity" validate:"omitempty,oneof=lite intense"`
	CurrentStreak    int            `gorm:"default:0" json:"current_streak"`
	LongestStreak    int            `gorm:"default:0" json:"longest_streak"`
	GlowPoints       int            `gorm:"default:0" json:"glow_points"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// ClearActiveRoutine resets the routine pointer to the neutral state used
// after a pause, an abandon, or a rollback with no prior enrollment.
func (u *User) ClearActiveRoutine() {
	u.ActiveRoutineID = nil
	u.RoutineIntensity = ""
}

// IsValidIntensity reports whether s is a known intensity tier.
func IsValidIntensity(s string) bool {
	return s == INTENSITY_LITE || s == INTENSITY_INTENSE
}
