package scheduling

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// memoryRepo is an in-memory Repository used by the engine tests. WithTx
// snapshots the whole state and restores it when the closure fails, which
// mirrors the all-or-nothing semantics of the real transaction. Failure
// injection knobs simulate mid-flight store errors.
type memoryRepo struct {
	state *memoryState

	// failOn aborts the named method with errInjected.
	failOn map[string]bool
	// failInstancesAfter, when >= 0, makes CreateInstances persist that many
	// rows and then fail, simulating a partial bulk insert.
	failInstancesAfter int
}

type memoryState struct {
	nextID      uint
	users       map[uint]*models.User
	routines    map[uint]*models.RoutineTemplate
	templates   map[uint]*models.HabitTemplate
	junctions   []models.RoutineHabit
	enrollments map[uint]*models.Enrollment
	instances   map[uint]*models.HabitInstance
	grants      map[uint]*models.RewardGrant
	assignments map[uint]*models.StandaloneAssignment
}

var errInjected = errors.New("injected store failure")

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		state: &memoryState{
			nextID:      1,
			users:       map[uint]*models.User{},
			routines:    map[uint]*models.RoutineTemplate{},
			templates:   map[uint]*models.HabitTemplate{},
			enrollments: map[uint]*models.Enrollment{},
			instances:   map[uint]*models.HabitInstance{},
			grants:      map[uint]*models.RewardGrant{},
			assignments: map[uint]*models.StandaloneAssignment{},
		},
		failOn:             map[string]bool{},
		failInstancesAfter: -1,
	}
}

func (s *memoryState) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		nextID:      s.nextID,
		users:       map[uint]*models.User{},
		routines:    map[uint]*models.RoutineTemplate{},
		templates:   map[uint]*models.HabitTemplate{},
		junctions:   append([]models.RoutineHabit(nil), s.junctions...),
		enrollments: map[uint]*models.Enrollment{},
		instances:   map[uint]*models.HabitInstance{},
		grants:      map[uint]*models.RewardGrant{},
		assignments: map[uint]*models.StandaloneAssignment{},
	}
	for id, v := range s.users {
		cp := *v
		c.users[id] = &cp
	}
	for id, v := range s.routines {
		cp := *v
		c.routines[id] = &cp
	}
	for id, v := range s.templates {
		cp := *v
		c.templates[id] = &cp
	}
	for id, v := range s.enrollments {
		cp := *v
		c.enrollments[id] = &cp
	}
	for id, v := range s.instances {
		cp := *v
		c.instances[id] = &cp
	}
	for id, v := range s.grants {
		cp := *v
		c.grants[id] = &cp
	}
	for id, v := range s.assignments {
		cp := *v
		c.assignments[id] = &cp
	}
	return c
}

// Seed helpers.

func (r *memoryRepo) addUser(u models.User) *models.User {
	u.ID = r.state.id()
	r.state.users[u.ID] = &u
	return &u
}

func (r *memoryRepo) addRoutine(rt models.RoutineTemplate) *models.RoutineTemplate {
	rt.ID = r.state.id()
	r.state.routines[rt.ID] = &rt
	return &rt
}

func (r *memoryRepo) addTemplate(t models.HabitTemplate) *models.HabitTemplate {
	t.ID = r.state.id()
	r.state.templates[t.ID] = &t
	return &t
}

func (r *memoryRepo) linkTemplate(routineID, templateID uint) {
	r.state.junctions = append(r.state.junctions, models.RoutineHabit{
		ID: r.state.id(), RoutineID: routineID, HabitTemplateID: templateID,
	})
}

func (r *memoryRepo) fail(method string) error {
	if r.failOn[method] {
		return errInjected
	}
	return nil
}

// Repository implementation.

func (r *memoryRepo) WithTx(fn func(Repository) error) error {
	snapshot := r.state.clone()
	if err := fn(r); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) GetRoutine(id uint) (*models.RoutineTemplate, error) {
	if rt, ok := r.state.routines[id]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) GetUser(id uint) (*models.User, error) {
	if u, ok := r.state.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) SaveUser(u *models.User) error {
	if err := r.fail("SaveUser"); err != nil {
		return err
	}
	cp := *u
	r.state.users[u.ID] = &cp
	return nil
}

func (r *memoryRepo) GetEnrollmentByKey(key string) (*models.Enrollment, error) {
	for _, e := range r.state.enrollments {
		if e.IdempotencyKey == key {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) GetActiveEnrollment(userID uint) (*models.Enrollment, error) {
	for _, e := range r.state.enrollments {
		if e.UserID == userID && e.Status == models.ENROLLMENT_ACTIVE {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) CreateEnrollment(e *models.Enrollment) error {
	if err := r.fail("CreateEnrollment"); err != nil {
		return err
	}
	e.ID = r.state.id()
	cp := *e
	r.state.enrollments[e.ID] = &cp
	return nil
}

func (r *memoryRepo) UpdateEnrollmentStatus(id uint, status string) error {
	if err := r.fail("UpdateEnrollmentStatus"); err != nil {
		return err
	}
	e, ok := r.state.enrollments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (r *memoryRepo) GetTemplate(id uint) (*models.HabitTemplate, error) {
	if t, ok := r.state.templates[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func sortTemplates(ts []models.HabitTemplate) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].OrderIndex != ts[j].OrderIndex {
			return ts[i].OrderIndex < ts[j].OrderIndex
		}
		return ts[i].ID < ts[j].ID
	})
}

func (r *memoryRepo) TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var out []models.HabitTemplate
	for _, t := range r.state.templates {
		if t.RoutineID != nil && *t.RoutineID == routineID {
			out = append(out, *t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *memoryRepo) TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error) {
	var out []models.HabitTemplate
	for _, j := range r.state.junctions {
		if j.RoutineID != routineID {
			continue
		}
		if t, ok := r.state.templates[j.HabitTemplateID]; ok {
			out = append(out, *t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *memoryRepo) CreateInstances(instances []models.HabitInstance, batchSize int) error {
	for i := range instances {
		if r.failInstancesAfter >= 0 && i >= r.failInstancesAfter {
			return errInjected
		}
		inst := instances[i]
		inst.ID = r.state.id()
		r.state.instances[inst.ID] = &inst
	}
	return nil
}

func (r *memoryRepo) CreateInstanceIfMissing(inst *models.HabitInstance) (bool, error) {
	if err := r.fail("CreateInstanceIfMissing"); err != nil {
		return false, err
	}
	if inst.TemplateID != nil {
		for _, existing := range r.state.instances {
			if existing.UserID == inst.UserID &&
				existing.TemplateID != nil && *existing.TemplateID == *inst.TemplateID &&
				calendar.SameDay(existing.ScheduledDate, inst.ScheduledDate) {
				return false, nil
			}
		}
	}
	inst.ID = r.state.id()
	cp := *inst
	r.state.instances[inst.ID] = &cp
	return true, nil
}

func (r *memoryRepo) GetInstance(id uint) (*models.HabitInstance, error) {
	if inst, ok := r.state.instances[id]; ok {
		cp := *inst
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) SaveInstance(inst *models.HabitInstance) error {
	if err := r.fail("SaveInstance"); err != nil {
		return err
	}
	if _, ok := r.state.instances[inst.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *inst
	r.state.instances[inst.ID] = &cp
	return nil
}

func (r *memoryRepo) HasInstancesOn(enrollmentID uint, date time.Time) (bool, error) {
	for _, inst := range r.state.instances {
		if inst.EnrollmentID != nil && *inst.EnrollmentID == enrollmentID && calendar.SameDay(inst.ScheduledDate, date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) InstancesForDay(userID uint, date time.Time) ([]models.HabitInstance, error) {
	var out []models.HabitInstance
	for _, inst := range r.state.instances {
		if inst.UserID == userID && calendar.SameDay(inst.ScheduledDate, date) {
			out = append(out, *inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) CountInstancesByEnrollment(enrollmentID uint) (int64, error) {
	var count int64
	for _, inst := range r.state.instances {
		if inst.EnrollmentID != nil && *inst.EnrollmentID == enrollmentID {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) CompletedDates(userID uint) ([]time.Time, error) {
	seen := map[string]time.Time{}
	for _, inst := range r.state.instances {
		if inst.UserID == userID && inst.Completed {
			day := calendar.Midnight(inst.ScheduledDate)
			seen[calendar.Format(day)] = day
		}
	}
	out := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out, nil
}

func (r *memoryRepo) DaySummaries(userID uint, start, end time.Time) ([]DaySummary, error) {
	byDay := map[string]*DaySummary{}
	for _, inst := range r.state.instances {
		if inst.UserID != userID {
			continue
		}
		day := calendar.Midnight(inst.ScheduledDate)
		if day.Before(calendar.Midnight(start)) || day.After(calendar.Midnight(end)) {
			continue
		}
		key := calendar.Format(day)
		if byDay[key] == nil {
			byDay[key] = &DaySummary{ScheduledDate: key}
		}
		byDay[key].Total++
		if inst.Completed {
			byDay[key].Completed++
		}
	}
	out := make([]DaySummary, 0, len(byDay))
	for _, s := range byDay {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate < out[j].ScheduledDate })
	return out, nil
}

func (r *memoryRepo) CreateRewardGrantIfMissing(g *models.RewardGrant) (bool, error) {
	if err := r.fail("CreateRewardGrantIfMissing"); err != nil {
		return false, err
	}
	if _, ok := r.state.grants[g.HabitInstanceID]; ok {
		return false, nil
	}
	g.ID = r.state.id()
	cp := *g
	r.state.grants[g.HabitInstanceID] = &cp
	return true, nil
}

func (r *memoryRepo) GetAssignment(id uint) (*models.StandaloneAssignment, error) {
	if a, ok := r.state.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) FindAssignmentByTemplate(userID, templateID uint) (*models.StandaloneAssignment, error) {
	for _, a := range r.state.assignments {
		if a.UserID == userID && a.TemplateID != nil && *a.TemplateID == templateID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepo) CreateAssignment(a *models.StandaloneAssignment) error {
	if err := r.fail("CreateAssignment"); err != nil {
		return err
	}
	a.ID = r.state.id()
	cp := *a
	r.state.assignments[a.ID] = &cp
	return nil
}

func (r *memoryRepo) SaveAssignment(a *models.StandaloneAssignment) error {
	if err := r.fail("SaveAssignment"); err != nil {
		return err
	}
	cp := *a
	r.state.assignments[a.ID] = &cp
	return nil
}
