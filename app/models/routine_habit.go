package models

import "time"

// RoutineHabit is the many-to-many assignment of habit templates to
// routines, the second association path next to HabitTemplate.RoutineID.
type RoutineHabit struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	RoutineID       uint            `gorm:"index;index:idx_routine_habit,unique;not null" json:"routine_id"`
	Routine         RoutineTemplate `gorm:"foreignKey:RoutineID" json:"-"`
	HabitTemplateID uint            `gorm:"index:idx_routine_habit,unique;not null" json:"habit_template_id"`
	HabitTemplate   HabitTemplate   `gorm:"foreignKey:HabitTemplateID" json:"-"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
