package engine

import "time"

// NextDailyRun returns the next occurrence of hour strictly after now. If
// today's slot has already passed, the run lands on tomorrow; a daily job
// never fires immediately on startup.
func NextDailyRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// WeeklyDue reports whether a tenant's weekly slot matches now and the tenant
// has not already been serviced today. Evaluated from absolute wall-clock
// time on every poll, so a restart never loses or duplicates a slot.
func WeeklyDue(now time.Time, day time.Weekday, hour int, lastSent *time.Time) bool {
	if now.Weekday() != day || now.Hour() != hour {
		return false
	}
	return lastSent == nil || !SameDay(*lastSent, now)
}

// SameDay reports whether a and b fall on the same calendar date, evaluated
// in b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
