package scheduling

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// Reconcile heals the gap left when no instances were generated for today
// under the user's active enrollment, e.g. after days of absence, server
// downtime or a timezone edge. It regenerates today only, checks each
// template against existing rows, and is safe to call any number of times.
func (s *Service) Reconcile(ctx context.Context, userID uint) (*ReconcileResult, error) {
	_ = ctx
	result := &ReconcileResult{}

	active, err := s.repo.GetActiveEnrollment(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, err
	}

	today := calendar.Today()
	if today.Before(calendar.Midnight(active.StartDate)) || today.After(calendar.Midnight(active.EndDate)) {
		return result, nil
	}

	routine, err := s.repo.GetRoutine(active.RoutineID)
	if err != nil {
		return nil, err
	}

	dayNumber := calendar.DayDiff(today, active.StartDate) + 1
	if dayNumber < 1 || dayNumber > routine.DurationDays {
		return result, nil
	}

	// Fast path: today already materialized.
	exists, err := s.repo.HasInstancesOn(active.ID, today)
	if err != nil {
		return nil, err
	}
	if exists {
		return result, nil
	}

	templates, err := ResolveTemplates(s.repo, active.RoutineID, active.Intensity)
	if err != nil {
		return nil, err
	}

	added := 0
	for i := range templates {
		if !includeOnDay(&templates[i], dayNumber, routine.DurationDays) {
			continue
		}
		inst := buildInstance(active, &templates[i], dayNumber)
		created, err := s.repo.CreateInstanceIfMissing(&inst)
		if err != nil {
			return nil, err
		}
		if created {
			added++
		}
	}

	if added > 0 {
		log.Printf("reconcile: regenerated %d instance(s) for user %d on %s", added, userID, calendar.Format(today))
		s.invalidateTodayCache(userID)
	}

	result.Reconciled = added > 0
	result.HabitsAdded = added
	return result, nil
}
