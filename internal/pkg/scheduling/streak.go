package scheduling

import (
	"time"

	"github.com/sojournlabs/sojourn/app/models"
	"github.com/sojournlabs/sojourn/internal/pkg/calendar"
)

// streakFromDates computes the current consecutive-completion streak from
// distinct completed dates in descending order. The chain anchors at today
// or yesterday (a streak survives until the current day is actually missed)
// and every further date must be exactly one day before the previous one.
func streakFromDates(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	anchor := calendar.Midnight(dates[0])
	gap := calendar.DayDiff(today, anchor)
	if gap < 0 || gap > 1 {
		return 0
	}

	streak := 1
	prev := anchor
	for _, d := range dates[1:] {
		day := calendar.Midnight(d)
		if calendar.DayDiff(prev, day) != 1 {
			break
		}
		streak++
		prev = day
	}
	return streak
}

// recalcStreaks refreshes the user's streak counters from completion
// history. Longest only ever grows.
func recalcStreaks(repo Repository, user *models.User) error {
	dates, err := repo.CompletedDates(user.ID)
	if err != nil {
		return err
	}

	user.CurrentStreak = streakFromDates(dates, calendar.Today())
	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}
	return nil
}
