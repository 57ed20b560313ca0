package subs

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidCycle = errors.New("invalid billing cycle")

type CycleUnit string

const (
	UnitDay   CycleUnit = "day"
	UnitWeek  CycleUnit = "week"
	UnitMonth CycleUnit = "month"
	UnitYear  CycleUnit = "year"
)

// Cycle describes how often a subscription rebills, e.g. {month, 3} for quarterly.
type Cycle struct {
	Unit  CycleUnit `json:"unit"`
	Value int       `json:"value"`
}

func (c Cycle) Validate() error {
	if c.Value <= 0 {
		return fmt.Errorf("%w: value %d", ErrInvalidCycle, c.Value)
	}
	switch c.Unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return nil
	default:
		return fmt.Errorf("%w: unit %q", ErrInvalidCycle, c.Unit)
	}
}

// Step returns the n-th occurrence after start. Month and year steps are
// always taken from start so the anchor day survives short months.
func (c Cycle) Step(start time.Time, n int) time.Time {
	switch c.Unit {
	case UnitDay:
		return start.AddDate(0, 0, n*c.Value)
	case UnitWeek:
		return start.AddDate(0, 0, 7*n*c.Value)
	case UnitMonth:
		return addMonthsClamped(start, n*c.Value)
	case UnitYear:
		return addMonthsClamped(start, 12*n*c.Value)
	}
	return start
}

// NextOccurrence walks the recurrence from start and returns the first
// occurrence strictly after ref. If start is already after ref it is returned as is.
func NextOccurrence(start time.Time, c Cycle, ref time.Time) (time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}
	if start.After(ref) {
		return start, nil
	}

	n := 1
	if c.Unit == UnitDay || c.Unit == UnitWeek {
		// jump close to ref, the loop below finishes the walk
		stepDays := c.Value
		if c.Unit == UnitWeek {
			stepDays *= 7
		}
		if skip := int(ref.Sub(start).Hours()/24) / stepDays; skip > 1 {
			n = skip
		}
	}

	next := c.Step(start, n)
	for !next.After(ref) {
		n++
		next = c.Step(start, n)
	}
	return next, nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)

	if last := daysIn(year, target, t.Location()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
