package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

func TestAssignDailyHorizon(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	tpl := repo.addTemplate(models.HabitTemplate{
		Title: "Evening tea", Description: "Caffeine-free", Cadence: models.CADENCE_DAILY, Intensity: models.INTENSITY_LITE,
	})
	svc := NewService(repo)

	res, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)

	assert.Equal(t, 30, res.HabitsScheduled)
	require.NotNil(t, res.Assignment.TemplateID)
	assert.Equal(t, tpl.ID, *res.Assignment.TemplateID)
	assert.True(t, res.Assignment.IsActive)
	assert.False(t, res.Assignment.IsCustom)

	// First occurrence lands today, none belong to an enrollment.
	todays, err := repo.InstancesForDay(user.ID, calendar.Today())
	require.NoError(t, err)
	require.Len(t, todays, 1)
	assert.Nil(t, todays[0].EnrollmentID)
	assert.Equal(t, "Evening tea", todays[0].Title)
	assert.Equal(t, "Caffeine-free", todays[0].Description)
}

func TestAssignWeeklyHorizon(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	tpl := repo.addTemplate(models.HabitTemplate{
		Title: "Forest hike", Cadence: models.CADENCE_WEEKLY, Intensity: models.INTENSITY_LITE,
	})
	svc := NewService(repo)

	res, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.HabitsScheduled)

	// Occurrences are 7 days apart starting today.
	for i := 0; i < 4; i++ {
		day := calendar.AddDays(calendar.Today(), i*7)
		instances, err := repo.InstancesForDay(user.ID, day)
		require.NoError(t, err)
		assert.Len(t, instances, 1, "expected one instance on %s", calendar.Format(day))
	}
}

func TestAssignAsNeededSingleOccurrence(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	tpl := repo.addTemplate(models.HabitTemplate{
		Title: "Spa visit", Cadence: models.CADENCE_ASNEEDED, Intensity: models.INTENSITY_LITE,
	})
	svc := NewService(repo)

	res, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.HabitsScheduled)

	todays, err := repo.InstancesForDay(user.ID, calendar.Today())
	require.NoError(t, err)
	assert.Len(t, todays, 1)
}

func TestAssignIsIdempotentPerDay(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	tpl := repo.addTemplate(models.HabitTemplate{
		Title: "Evening tea", Cadence: models.CADENCE_DAILY, Intensity: models.INTENSITY_LITE,
	})
	svc := NewService(repo)

	first, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)
	require.Equal(t, 30, first.HabitsScheduled)

	// The duplicate guard swallows the whole horizon on repeat.
	second, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)
	assert.Zero(t, second.HabitsScheduled)
	assert.Equal(t, first.Assignment.ID, second.Assignment.ID)
	assert.Len(t, repo.state.assignments, 1)
}

func TestUnassignSoftDeletesAndReactivates(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	tpl := repo.addTemplate(models.HabitTemplate{
		Title: "Evening tea", Cadence: models.CADENCE_DAILY, Intensity: models.INTENSITY_LITE,
	})
	svc := NewService(repo)

	res, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)

	inst := seedInstanceOn(t, repo, user.ID, calendar.Format(calendar.Today()), "History marker")
	_, err = svc.ToggleCompletion(context.Background(), inst.ID, true)
	require.NoError(t, err)

	unassigned, err := svc.Unassign(context.Background(), res.Assignment.ID)
	require.NoError(t, err)
	assert.False(t, unassigned.IsActive)

	// Completion history survives the unassign.
	got, err := repo.GetInstance(inst.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	// Re-assigning reactivates the soft-deleted row instead of duplicating.
	again, err := svc.Assign(context.Background(), user.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Assignment.ID, again.Assignment.ID)
	assert.True(t, again.Assignment.IsActive)
	assert.Len(t, repo.state.assignments, 1)
}

func TestUnassignNotFound(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.Unassign(context.Background(), 777)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestCreateCustomHabit(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	svc := NewService(repo)

	res, err := svc.CreateCustomHabit(context.Background(), user.ID, "Gratitude note", "One line each night", models.CADENCE_DAILY)
	require.NoError(t, err)

	assert.Equal(t, 30, res.HabitsScheduled)
	assert.True(t, res.Assignment.IsCustom)
	assert.Nil(t, res.Assignment.TemplateID)

	todays, err := repo.InstancesForDay(user.ID, calendar.Today())
	require.NoError(t, err)
	require.Len(t, todays, 1)
	assert.Nil(t, todays[0].TemplateID)
	assert.Equal(t, "Gratitude note", todays[0].Title)
}

func TestCreateCustomHabitValidation(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	svc := NewService(repo)

	_, err := svc.CreateCustomHabit(context.Background(), user.ID, "", "", models.CADENCE_DAILY)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCustomHabit(context.Background(), user.ID, "Nap", "", "hourly")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssignTemplateNotFound(t *testing.T) {
	repo := newMemoryRepo()
	user := repo.addUser(models.User{Name: "Ava", Email: "ava@example.com"})
	svc := NewService(repo)

	_, err := svc.Assign(context.Background(), user.ID, 555)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
