package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// Repository provides the DB operations used by the scheduling engine.
// WithTx runs a closure against a transaction-scoped Repository; everything
// the closure writes commits or rolls back as one unit.
type Repository interface {
	WithTx(fn func(Repository) error) error

	GetRoutine(id uint) (*models.RoutineTemplate, error)
	GetUser(id uint) (*models.User, error)
	SaveUser(u *models.User) error

	GetEnrollmentByKey(key string) (*models.Enrollment, error)
	GetActiveEnrollment(userID uint) (*models.Enrollment, error)
	CreateEnrollment(e *models.Enrollment) error
	UpdateEnrollmentStatus(id uint, status string) error

	GetTemplate(id uint) (*models.HabitTemplate, error)
	TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error)
	TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error)

	CreateInstances(instances []models.HabitInstance, batchSize int) error
	CreateInstanceIfMissing(inst *models.HabitInstance) (bool, error)
	GetInstance(id uint) (*models.HabitInstance, error)
	SaveInstance(inst *models.HabitInstance) error
	HasInstancesOn(enrollmentID uint, date time.Time) (bool, error)
	InstancesForDay(userID uint, date time.Time) ([]models.HabitInstance, error)
	CountInstancesByEnrollment(enrollmentID uint) (int64, error)
	CompletedDates(userID uint) ([]time.Time, error)
	DaySummaries(userID uint, start, end time.Time) ([]DaySummary, error)

	CreateRewardGrantIfMissing(g *models.RewardGrant) (bool, error)

	GetAssignment(id uint) (*models.StandaloneAssignment, error)
	FindAssignmentByTemplate(userID, templateID uint) (*models.StandaloneAssignment, error)
	CreateAssignment(a *models.StandaloneAssignment) error
	SaveAssignment(a *models.StandaloneAssignment) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a scheduling repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) GetRoutine(id uint) (*models.RoutineTemplate, error) {
	var routine models.RoutineTemplate
	if err := r.db.First(&routine, id).Error; err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *gormRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) SaveUser(u *models.User) error {
	// Save skips zero values for cleared pointer fields, so write the
	// engine-owned columns explicitly.
	return r.db.Model(&models.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{
			"active_routine_id": u.ActiveRoutineID,
			"routine_intensity": u.RoutineIntensity,
			"current_streak":    u.CurrentStreak,
			"longest_streak":    u.LongestStreak,
			"glow_points":       u.GlowPoints,
		}).Error
}

func (r *gormRepository) GetEnrollmentByKey(key string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.Where("idempotency_key = ?", key).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *gormRepository) GetActiveEnrollment(userID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.Where("user_id = ? AND status = ?", userID, models.ENROLLMENT_ACTIVE).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *gormRepository) CreateEnrollment(e *models.Enrollment) error {
	return r.db.Create(e).Error
}

func (r *gormRepository) UpdateEnrollmentStatus(id uint, status string) error {
	return r.db.Model(&models.Enrollment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *gormRepository) GetTemplate(id uint) (*models.HabitTemplate, error) {
	var template models.HabitTemplate
	if err := r.db.First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *gormRepository) TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var templates []models.HabitTemplate
	err := r.db.Where("routine_id = ?", routineID).Order("order_index ASC, id ASC").Find(&templates).Error
	return templates, err
}

func (r *gormRepository) TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var templates []models.HabitTemplate
	err := r.db.
		Joins("JOIN routine_habits ON routine_habits.habit_template_id = habit_templates.id").
		Where("routine_habits.routine_id = ?", routineID).
		Order("habit_templates.order_index ASC, habit_templates.id ASC").
		Find(&templates).Error
	return templates, err
}

func (r *gormRepository) CreateInstances(instances []models.HabitInstance, batchSize int) error {
	if len(instances) == 0 {
		return nil
	}
	return r.db.CreateInBatches(instances, batchSize).Error
}

// CreateInstanceIfMissing inserts the instance unless one already exists for
// the same (user, template, day). Custom instances carry no template id and
// are always inserted.
func (r *gormRepository) CreateInstanceIfMissing(inst *models.HabitInstance) (bool, error) {
	if inst.TemplateID != nil {
		var count int64
		err := r.db.Model(&models.HabitInstance{}).
			Where("user_id = ? AND template_id = ? AND scheduled_date = ?",
				inst.UserID, *inst.TemplateID, calendar.Format(inst.ScheduledDate)).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count > 0 {
			return false, nil
		}
	}
	if err := r.db.Create(inst).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *gormRepository) GetInstance(id uint) (*models.HabitInstance, error) {
	var instance models.HabitInstance
	if err := r.db.First(&instance, id).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *gormRepository) SaveInstance(inst *models.HabitInstance) error {
	return r.db.Model(&models.HabitInstance{}).Where("id = ?", inst.ID).
		Updates(map[string]any{
			"completed":    inst.Completed,
			"completed_at": inst.CompletedAt,
		}).Error
}

func (r *gormRepository) HasInstancesOn(enrollmentID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.HabitInstance{}).
		Where("enrollment_id = ? AND scheduled_date = ?", enrollmentID, calendar.Format(date)).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) InstancesForDay(userID uint, date time.Time) ([]models.HabitInstance, error) {
	var instances []models.HabitInstance
	err := r.db.
		Where("user_id = ? AND scheduled_date = ?", userID, calendar.Format(date)).
		Order("cadence ASC, id ASC").
		Find(&instances).Error
	return instances, err
}

func (r *gormRepository) CountInstancesByEnrollment(enrollmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.HabitInstance{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CompletedDates(userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Model(&models.HabitInstance{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct("scheduled_date").
		Order("scheduled_date DESC").
		Pluck("scheduled_date", &dates).Error
	return dates, err
}

func (r *gormRepository) DaySummaries(userID uint, start, end time.Time) ([]DaySummary, error) {
	type row struct {
		ScheduledDate time.Time
		Total         int
		Completed     int
	}
	var rows []row
	err := r.db.Model(&models.HabitInstance{}).
		Select("scheduled_date, COUNT(*) AS total, SUM(completed) AS completed").
		Where("user_id = ? AND scheduled_date BETWEEN ? AND ?", userID, calendar.Format(start), calendar.Format(end)).
		Group("scheduled_date").
		Order("scheduled_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0, len(rows))
	for _, rw := range rows {
		summaries = append(summaries, DaySummary{
			ScheduledDate: calendar.Format(rw.ScheduledDate),
			Total:         rw.Total,
			Completed:     rw.Completed,
		})
	}
	return summaries, nil
}

// CreateRewardGrantIfMissing inserts the grant unless the instance was
// already rewarded once. Reports whether a new grant was written.
func (r *gormRepository) CreateRewardGrantIfMissing(g *models.RewardGrant) (bool, error) {
	var existing models.RewardGrant
	err := r.db.Where("habit_instance_id = ?", g.HabitInstanceID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.Create(g).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *gormRepository) GetAssignment(id uint) (*models.StandaloneAssignment, error) {
	var assignment models.StandaloneAssignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *gormRepository) FindAssignmentByTemplate(userID, templateID uint) (*models.StandaloneAssignment, error) {
	var assignment models.StandaloneAssignment
	err := r.db.Where("user_id = ? AND template_id = ?", userID, templateID).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *gormRepository) CreateAssignment(a *models.StandaloneAssignment) error {
	return r.db.Create(a).Error
}

func (r *gormRepository) SaveAssignment(a *models.StandaloneAssignment) error {
	return r.db.Save(a).Error
}
