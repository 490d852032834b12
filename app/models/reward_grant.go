package models

import "time"

// DefaultCompletionPoints is the glow point credit for completing a habit.
const DefaultCompletionPoints = 10

// RewardGrant records the one-time glow point credit for a habit instance.
// The unique instance id makes the grant idempotent for the lifetime of the
// instance: un-completing never debits, and re-completing finds the existing
// grant and credits nothing. Product has been asked to confirm the
// non-reversal rule; until then it stands as designed.
type RewardGrant struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"index;not null" json:"user_id"`
	User            User          `gorm:"foreignKey:UserID" json:"-"`
	HabitInstanceID uint          `gorm:"uniqueIndex;not null" json:"habit_instance_id"`
	HabitInstance   HabitInstance `gorm:"foreignKey:HabitInstanceID" json:"-"`
	Points          int           `gorm:"not null" json:"points"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
}
