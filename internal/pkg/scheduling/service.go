package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/cache"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

const enrollLockTTL = 30 * time.Second

// Lock functions are indirected so tests can simulate a held or unavailable
// lock without a Redis server.
var (
	acquireEnrollLock = cache.AcquireLock
	releaseEnrollLock = cache.ReleaseLock
)

// Service is the habit enrollment and scheduling engine. All writes to
// enrollments, habit instances, streaks and the profile routine pointer go
// through it.
type Service struct {
	repo Repository
}

// NewService creates a scheduling service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a scheduling service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Enroll starts a routine for a user and materializes its full habit
// calendar. The operation is idempotent per (user, routine, start date,
// intensity): an exact resubmission replays the original enrollment without
// doing any work. Pausing the previous active enrollment, inserting the new
// row, moving the profile pointer and materializing instances all happen in
// one transaction, so a failure anywhere leaves the prior state untouched.
func (s *Service) Enroll(ctx context.Context, userID, routineID uint, startDate, intensity string) (*EnrollResult, error) {
	_ = ctx
	if !models.IsValidIntensity(intensity) {
		return nil, fmt.Errorf("%w: unknown intensity %q", ErrValidation, intensity)
	}
	start, err := calendar.Parse(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Advisory lock closes the race where two distinct concurrent requests
	// for the same user both pass the active-enrollment check. Best-effort:
	// when the cache is unreachable we proceed, the unique idempotency
	// index still guards exact replays.
	lockKey := fmt.Sprintf("enroll:user:%d", userID)
	token, lockErr := acquireEnrollLock(lockKey, enrollLockTTL)
	if lockErr != nil {
		log.Printf("enroll: advisory lock unavailable for user %d: %v", userID, lockErr)
	} else if token == "" {
		return nil, ErrEnrollmentInProgress
	} else {
		defer func() {
			if err := releaseEnrollLock(lockKey, token); err != nil {
				log.Printf("enroll: failed to release lock for user %d: %v", userID, err)
			}
		}()
	}

	// Idempotent replay: identical resubmissions return the original row.
	key := models.ComputeIdempotencyKey(userID, routineID, calendar.Format(start), intensity)
	if existing, err := s.repo.GetEnrollmentByKey(key); err == nil {
		return &EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	routine, err := s.repo.GetRoutine(routineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	if _, err := s.repo.GetUser(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var result EnrollResult
	txErr := s.repo.WithTx(func(tx Repository) error {
		prior, err := tx.GetActiveEnrollment(userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if prior != nil {
			if err := tx.UpdateEnrollmentStatus(prior.ID, models.ENROLLMENT_PAUSED); err != nil {
				return err
			}
		}

		enrollment := &models.Enrollment{
			UserID:         userID,
			RoutineID:      routineID,
			StartDate:      start,
			EndDate:        calendar.AddDays(start, routine.DurationDays),
			Status:         models.ENROLLMENT_ACTIVE,
			Intensity:      intensity,
			IdempotencyKey: key,
		}
		if err := tx.CreateEnrollment(enrollment); err != nil {
			return err
		}

		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		user.ActiveRoutineID = &routineID
		user.RoutineIntensity = intensity
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		templates, err := ResolveTemplates(tx, routineID, intensity)
		if err != nil {
			return err
		}
		count, err := MaterializeInstances(tx, enrollment, templates, routine.DurationDays)
		if err != nil {
			return err
		}

		result = EnrollResult{Enrollment: enrollment, HabitsScheduled: count}
		return nil
	})
	if txErr != nil {
		return nil, &SchedulingError{Op: "enroll", Err: txErr}
	}

	s.invalidateTodayCache(userID)
	return &result, nil
}

// Pause transitions the user's active enrollment to paused and clears the
// profile routine pointer.
func (s *Service) Pause(ctx context.Context, userID uint) (*models.Enrollment, error) {
	return s.deactivate(ctx, userID, models.ENROLLMENT_PAUSED)
}

// Abandon transitions the user's active enrollment to abandoned, a terminal
// state, and clears the profile routine pointer.
func (s *Service) Abandon(ctx context.Context, userID uint) (*models.Enrollment, error) {
	return s.deactivate(ctx, userID, models.ENROLLMENT_ABANDONED)
}

func (s *Service) deactivate(ctx context.Context, userID uint, status string) (*models.Enrollment, error) {
	_ = ctx
	var enrollment *models.Enrollment
	err := s.repo.WithTx(func(tx Repository) error {
		active, err := tx.GetActiveEnrollment(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		if err := tx.UpdateEnrollmentStatus(active.ID, status); err != nil {
			return err
		}

		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		user.ClearActiveRoutine()
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		active.Status = status
		enrollment = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTodayCache(userID)
	return enrollment, nil
}

// ToggleCompletion sets the completion flag on a habit instance. The first
// transition to completed grants glow points exactly once per instance
// lifetime; un-completing never takes them back. Streaks are recomputed
// after every toggle.
func (s *Service) ToggleCompletion(ctx context.Context, instanceID uint, completed bool) (*models.HabitInstance, error) {
	_ = ctx
	var instance *models.HabitInstance
	err := s.repo.WithTx(func(tx Repository) error {
		inst, err := tx.GetInstance(instanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInstanceNotFound
			}
			return err
		}

		inst.Completed = completed
		if completed {
			now := time.Now()
			inst.CompletedAt = &now
		} else {
			inst.CompletedAt = nil
		}
		if err := tx.SaveInstance(inst); err != nil {
			return err
		}

		user, err := tx.GetUser(inst.UserID)
		if err != nil {
			return err
		}

		if completed {
			granted, err := tx.CreateRewardGrantIfMissing(&models.RewardGrant{
				UserID:          inst.UserID,
				HabitInstanceID: inst.ID,
				Points:          models.DefaultCompletionPoints,
			})
			if err != nil {
				return err
			}
			if granted {
				user.GlowPoints += models.DefaultCompletionPoints
			}
		}

		if err := recalcStreaks(tx, user); err != nil {
			return err
		}
		if err := tx.SaveUser(user); err != nil {
			return err
		}

		instance = inst
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTodayCache(instance.UserID)
	return instance, nil
}

// TodayInstances returns today's schedule grouped by cadence, served from a
// short-lived cache when possible.
func (s *Service) TodayInstances(ctx context.Context, userID uint) (*TodayView, error) {
	_ = ctx
	today := calendar.Today()
	cacheKey := todayCacheKey(userID, today)

	if raw, err := cache.Get(cacheKey); err == nil {
		var view TodayView
		if err := json.Unmarshal([]byte(raw), &view); err == nil {
			return &view, nil
		}
	}

	instances, err := s.repo.InstancesForDay(userID, today)
	if err != nil {
		return nil, err
	}

	view := &TodayView{
		Date:     calendar.Format(today),
		Daily:    []models.HabitInstance{},
		Weekly:   []models.HabitInstance{},
		AsNeeded: []models.HabitInstance{},
	}
	for _, inst := range instances {
		switch inst.Cadence {
		case models.CADENCE_WEEKLY:
			view.Weekly = append(view.Weekly, inst)
		case models.CADENCE_ASNEEDED:
			view.AsNeeded = append(view.AsNeeded, inst)
		default:
			view.Daily = append(view.Daily, inst)
		}
	}

	if raw, err := json.Marshal(view); err == nil {
		if err := cache.Set(cacheKey, raw, time.Minute); err != nil {
			log.Printf("today view: cache write failed for user %d: %v", userID, err)
		}
	}
	return view, nil
}

// RangeSummary returns per-day totals for the given inclusive date range.
func (s *Service) RangeSummary(ctx context.Context, userID uint, startDate, endDate string) ([]DaySummary, error) {
	_ = ctx
	start, err := calendar.Parse(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := calendar.Parse(endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	return s.repo.DaySummaries(userID, start, end)
}

func todayCacheKey(userID uint, day time.Time) string {
	return fmt.Sprintf("today:user:%d:%s", userID, calendar.Format(day))
}

func (s *Service) invalidateTodayCache(userID uint) {
	if err := cache.Delete(todayCacheKey(userID, calendar.Today())); err != nil {
		log.Printf("today view: cache invalidation failed for user %d: %v", userID, err)
	}
}
