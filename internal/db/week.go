package db

import "time"

// NormalizeWeekStart snaps a date to the Monday of its calendar week with
// the time-of-day zeroed, in UTC. Sundays snap back to the previous Monday.
// Idempotent for dates that are already Mondays.
func NormalizeWeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	t = t.AddDate(0, 0, -offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekKey formats a week start for grouping and response shaping.
func WeekKey(t time.Time) string {
	return t.Format("2006-01-02")
}
