package subs

import (
	"math"
	"time"
)

// DateIn re-anchors the calendar date of d at midnight in loc. Stored dates
// carry no zone, so this is how they are read in the scheduler's zone.
func DateIn(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// StartOfDay returns midnight of the day now falls on, in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	return DateIn(now.In(loc), loc)
}

// DaysUntil returns ceil((due - now) / 24h). A due midnight already passed
// earlier today counts as 0.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
