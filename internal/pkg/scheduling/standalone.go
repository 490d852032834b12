package scheduling

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// Fixed pre-materialization horizons for habits followed outside any
// enrollment (catalog browsing and custom habits).
const (
	standaloneDailyDays   = 30
	standaloneWeeklyCount = 4
)

// AssignResult is the outcome of a catalog or custom habit assignment.
type AssignResult struct {
	Assignment      *models.StandaloneAssignment `json:"assignment"`
	HabitsScheduled int                          `json:"habits_scheduled"`
}

// Assign subscribes a user to a catalog habit template and pre-materializes
// its fixed horizon. A soft-deleted assignment for the same template is
// reactivated instead of duplicated; the duplicate guard on instances keeps
// re-materialization idempotent.
func (s *Service) Assign(ctx context.Context, userID, templateID uint) (*AssignResult, error) {
	_ = ctx
	tpl, err := s.repo.GetTemplate(templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	var result AssignResult
	err = s.repo.WithTx(func(tx Repository) error {
		assignment, err := tx.FindAssignmentByTemplate(userID, templateID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if assignment == nil {
			assignment = &models.StandaloneAssignment{
				UserID:     userID,
				TemplateID: &tpl.ID,
				Title:      tpl.Title,
				Cadence:    tpl.Cadence,
				IsActive:   true,
			}
			if err := tx.CreateAssignment(assignment); err != nil {
				return err
			}
		} else if !assignment.IsActive {
			assignment.IsActive = true
			if err := tx.SaveAssignment(assignment); err != nil {
				return err
			}
		}

		count, err := materializeStandalone(tx, userID, &tpl.ID, tpl.Title, tpl.Description, tpl.Cadence)
		if err != nil {
			return err
		}

		result = AssignResult{Assignment: assignment, HabitsScheduled: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTodayCache(userID)
	return &result, nil
}

// CreateCustomHabit creates a fully custom habit (no template behind it) and
// pre-materializes its fixed horizon.
func (s *Service) CreateCustomHabit(ctx context.Context, userID uint, title, description, cadence string) (*AssignResult, error) {
	_ = ctx
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.IsValidCadence(cadence) {
		return nil, fmt.Errorf("%w: unknown cadence %q", ErrValidation, cadence)
	}

	var result AssignResult
	err := s.repo.WithTx(func(tx Repository) error {
		assignment := &models.StandaloneAssignment{
			UserID:      userID,
			IsCustom:    true,
			Title:       title,
			Description: description,
			Cadence:     cadence,
			IsActive:    true,
		}
		if err := tx.CreateAssignment(assignment); err != nil {
			return err
		}

		count, err := materializeStandalone(tx, userID, nil, title, description, cadence)
		if err != nil {
			return err
		}

		result = AssignResult{Assignment: assignment, HabitsScheduled: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTodayCache(userID)
	return &result, nil
}

// Unassign soft-deletes a standalone assignment. Completion history is kept;
// rows are never hard-deleted.
func (s *Service) Unassign(ctx context.Context, assignmentID uint) (*models.StandaloneAssignment, error) {
	_ = ctx
	assignment, err := s.repo.GetAssignment(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	assignment.IsActive = false
	if err := s.repo.SaveAssignment(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// materializeStandalone expands the fixed horizon for one standalone habit:
// 30 daily occurrences, 4 weekly occurrences 7 days apart, or a single
// as-needed occurrence anchored to today.
func materializeStandalone(repo Repository, userID uint, templateID *uint, title, description, cadence string) (int, error) {
	today := calendar.Today()

	var offsets []int
	switch cadence {
	case models.CADENCE_WEEKLY:
		for i := 0; i < standaloneWeeklyCount; i++ {
			offsets = append(offsets, i*7)
		}
	case models.CADENCE_ASNEEDED:
		offsets = []int{0}
	default:
		for i := 0; i < standaloneDailyDays; i++ {
			offsets = append(offsets, i)
		}
	}

	added := 0
	for _, off := range offsets {
		inst := models.HabitInstance{
			UserID:        userID,
			TemplateID:    templateID,
			Title:         title,
			Description:   description,
			Cadence:       cadence,
			ScheduledDate: calendar.AddDays(today, off),
		}
		created, err := repo.CreateInstanceIfMissing(&inst)
		if err != nil {
			return added, err
		}
		if created {
			added++
		}
	}
	return added, nil
}
