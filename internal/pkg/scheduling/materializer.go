package scheduling

import (
	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// instanceBatchSize bounds single-statement size on bulk inserts.
const instanceBatchSize = 200

// includeOnDay applies the day-window and cadence filters for a template on
// the 1-based day offset within a routine of the given duration.
func includeOnDay(tpl *models.HabitTemplate, day, durationDays int) bool {
	start, end := tpl.Window(durationDays)
	if day < start || day > end {
		return false
	}
	switch tpl.Cadence {
	case models.CADENCE_DAILY:
		return true
	case models.CADENCE_WEEKLY:
		return (day-start)%7 == 0
	default:
		// as-needed habits are never pre-scheduled; they surface through
		// the standalone catalog path only.
		return false
	}
}

// buildInstance materializes the immutable snapshot row for a template on
// one calendar day. Title and description are copied, not joined at read
// time, so template edits never rewrite scheduled history.
func buildInstance(e *models.Enrollment, tpl *models.HabitTemplate, day int) models.HabitInstance {
	templateID := tpl.ID
	return models.HabitInstance{
		UserID:        e.UserID,
		EnrollmentID:  &e.ID,
		TemplateID:    &templateID,
		Title:         tpl.Title,
		Description:   tpl.Description,
		Cadence:       tpl.Cadence,
		ScheduledDate: calendar.AddDays(e.StartDate, day-1),
		DayNumber:     day,
	}
}

// BuildInstances expands the template set over the full enrollment span.
// Day 1 is the enrollment start date.
func BuildInstances(e *models.Enrollment, templates []models.HabitTemplate, durationDays int) []models.HabitInstance {
	var instances []models.HabitInstance
	for day := 1; day <= durationDays; day++ {
		for i := range templates {
			if !includeOnDay(&templates[i], day, durationDays) {
				continue
			}
			instances = append(instances, buildInstance(e, &templates[i], day))
		}
	}
	return instances
}

// MaterializeInstances persists the expanded schedule in bounded batches and
// returns how many rows were written.
func MaterializeInstances(repo Repository, e *models.Enrollment, templates []models.HabitTemplate, durationDays int) (int, error) {
	instances := BuildInstances(e, templates, durationDays)
	if err := repo.CreateInstances(instances, instanceBatchSize); err != nil {
		return 0, err
	}
	return len(instances), nil
}
