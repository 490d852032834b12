package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ENROLLMENT_ACTIVE    = "active"
	ENROLLMENT_PAUSED    = "paused"
	ENROLLMENT_ABANDONED = "abandoned"
)

// Enrollment is one user attempt at following a routine. At most one row per
// user may be active at any time; the engine enforces this by pausing the
// previous active row inside the enroll transaction.
type Enrollment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UUID           string          `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	UserID         uint            `gorm:"index;index:idx_user_status;not null" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"-"`
	RoutineID      uint            `gorm:"index;not null" json:"routine_id"`
	Routine        RoutineTemplate `gorm:"foreignKey:RoutineID" json:"-"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time       `gorm:"type:date;not null" json:"end_date"`
	Status         string          `gorm:"type:varchar(20);default:'active';index:idx_user_status" json:"status"`
	Intensity      string          `gorm:"type:varchar(20);not null" json:"intensity"`
	IdempotencyKey string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public UUID
func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return nil
}

// IsActive reports whether the enrollment status is active
func (e *Enrollment) IsActive() bool {
	return e.Status == ENROLLMENT_ACTIVE
}

// ComputeIdempotencyKey derives the deterministic fingerprint of an enroll
// request. Identical resubmissions hash to the same key, which the unique
// index turns into a safe replay instead of a second enrollment.
func ComputeIdempotencyKey(userID, routineID uint, startDate, intensity string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s|%s", userID, routineID, startDate, intensity)))
	return hex.EncodeToString(sum[:])
}
