package subs

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ReminderKey identifies one lead-time reminder sent on a given calendar day.
// Its string form "{date}_{days}" is what gets persisted.
type ReminderKey struct {
	Date       string
	DaysBefore int
}

func NewReminderKey(today time.Time, daysBefore int) ReminderKey {
	return ReminderKey{Date: today.Format(DateLayout), DaysBefore: daysBefore}
}

func (k ReminderKey) String() string {
	return k.Date + "_" + strconv.Itoa(k.DaysBefore)
}

func ParseReminderKey(s string) (ReminderKey, error) {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 {
		return ReminderKey{}, fmt.Errorf("malformed reminder key %q", s)
	}
	days, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return ReminderKey{}, fmt.Errorf("malformed reminder key %q: %w", s, err)
	}
	return ReminderKey{Date: s[:i], DaysBefore: days}, nil
}

// ReminderLog is the dedup set of reminders already delivered in the current
// billing period. It is reset whenever NextPaymentDate moves forward.
type ReminderLog map[ReminderKey]struct{}

func (l ReminderLog) Has(k ReminderKey) bool {
	_, ok := l[k]
	return ok
}

func (l ReminderLog) With(k ReminderKey) ReminderLog {
	out := make(ReminderLog, len(l)+1)
	for key := range l {
		out[key] = struct{}{}
	}
	out[k] = struct{}{}
	return out
}

func (l ReminderLog) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

func (l ReminderLog) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(l))
	for k := range l {
		m[k.String()] = true
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts the {"2024-02-20_3": true} form. Keys that do not
// parse or are marked false are dropped.
func (l *ReminderLog) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(ReminderLog, len(m))
	for raw, sent := range m {
		if !sent {
			continue
		}
		k, err := ParseReminderKey(raw)
		if err != nil {
			continue
		}
		out[k] = struct{}{}
	}
	*l = out
	return nil
}

func (l ReminderLog) Value() (driver.Value, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ReminderLog) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = ReminderLog{}
		return nil
	case string:
		if v == "" {
			*l = ReminderLog{}
			return nil
		}
		return l.UnmarshalJSON([]byte(v))
	case []byte:
		if len(v) == 0 {
			*l = ReminderLog{}
			return nil
		}
		return l.UnmarshalJSON(v)
	default:
		return fmt.Errorf("unsupported reminder log type %T", src)
	}
}
