package storage

import (
	"database/sql/driver"
	"fmt"
	"time"

	"subtracker/internal/stories/subs"
)

// dateColumn stores a calendar date as YYYY-MM-DD text.
type dateColumn struct {
	time.Time
}

func newDateColumn(t time.Time) dateColumn {
	return dateColumn{Time: t}
}

func (d dateColumn) Value() (driver.Value, error) {
	return d.Format(subs.DateLayout), nil
}

func (d *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
}

func (d *dateColumn) parse(s string) error {
	if len(s) > len(subs.DateLayout) {
		s = s[:len(subs.DateLayout)]
	}
	t, err := time.Parse(subs.DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
