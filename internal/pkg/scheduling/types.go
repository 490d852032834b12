package scheduling

import (
	"errors"
	"fmt"

	"github.com/sojournlabs/sojourn/app/models"
)

// Sentinel errors surfaced to callers as 4xx-class outcomes.
var (
	ErrRoutineNotFound      = errors.New("routine not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEnrollmentNotFound   = errors.New("no active enrollment")
	ErrInstanceNotFound     = errors.New("habit instance not found")
	ErrTemplateNotFound     = errors.New("habit template not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrEnrollmentInProgress = errors.New("another enrollment for this user is in progress")
)

// ErrValidation wraps malformed input (bad date, unknown enum value).
var ErrValidation = errors.New("validation failed")

// SchedulingError wraps any failure that aborted an enrollment after
// validation passed. The transaction has already been rolled back when the
// caller sees it, so no half-applied enrollment ever leaks.
type SchedulingError struct {
	Op  string
	Err error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("scheduling %s failed: %v", e.Op, e.Err)
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// EnrollResult is the outcome of an enroll request. AlreadyEnrolled marks an
// idempotent replay: the returned enrollment is the original row and
// HabitsScheduled is zero because no new work was done.
type EnrollResult struct {
	Enrollment      *models.Enrollment `json:"enrollment"`
	HabitsScheduled int                `json:"habits_scheduled"`
	AlreadyEnrolled bool               `json:"already_enrolled"`
}

// ReconcileResult reports whether gap-healing added anything for today.
type ReconcileResult struct {
	Reconciled  bool `json:"reconciled"`
	HabitsAdded int  `json:"habits_added"`
}

// TodayView groups today's instances by cadence for the client dashboard.
type TodayView struct {
	Date     string                 `json:"date"`
	Daily    []models.HabitInstance `json:"daily"`
	Weekly   []models.HabitInstance `json:"weekly"`
	AsNeeded []models.HabitInstance `json:"as_needed"`
}

// DaySummary is the per-day aggregate served to calendar and analytics views.
type DaySummary struct {
	ScheduledDate string `json:"scheduled_date"`
	Total         int    `json:"total"`
	Completed     int    `json:"completed"`
}
