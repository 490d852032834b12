package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HabitInstance is one concrete scheduled occurrence of a habit on a
// calendar day. Title and description are snapshots copied from the template
// at materialization time, so later template edits never rewrite history.
// The composite unique index keeps one instance per (user, template, day);
// fully custom habits carry a NULL template id and fall outside the guard.
type HabitInstance struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID        uint           `gorm:"index;index:idx_user_template_date,unique;not null" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	EnrollmentID  *uint          `gorm:"index" json:"enrollment_id"`
	Enrollment    *Enrollment    `gorm:"foreignKey:EnrollmentID" json:"-"`
	TemplateID    *uint          `gorm:"index:idx_user_template_date,unique" json:"template_id"`
	Template      *HabitTemplate `gorm:"foreignKey:TemplateID" json:"-"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Cadence       string         `gorm:"type:varchar(20);not null" json:"cadence"`
	ScheduledDate time.Time      `gorm:"type:date;index;index:idx_user_template_date,unique;not null" json:"scheduled_date"`
	DayNumber     int            `gorm:"default:0" json:"day_number"`
	Completed     bool           `gorm:"default:false" json:"completed"`
	CompletedAt   *time.Time     `gorm:"type:timestamp;default:null" json:"completed_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public UUID
func (h *HabitInstance) BeforeCreate(tx *gorm.DB) error {
	if h.UUID == "" {
		h.UUID = uuid.New().String()
	}
	return nil
}
