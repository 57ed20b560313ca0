package subs

import (
	"encoding/json"
	"testing"
	"time"
)

func TestReminderKeyString(t *testing.T) {
	k := NewReminderKey(time.Date(2024, 2, 20, 9, 30, 0, 0, time.UTC), 3)
	if got := k.String(); got != "2024-02-20_3" {
		t.Fatalf("key = %q, want %q", got, "2024-02-20_3")
	}

	parsed, err := ParseReminderKey("2024-02-20_3")
	if err != nil {
		t.Fatalf("ParseReminderKey: %v", err)
	}
	if parsed != k {
		t.Fatalf("parsed = %+v, want %+v", parsed, k)
	}
}

func TestParseReminderKeyRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "_3", "2024-02-20", "2024-02-20_x"} {
		if _, err := ParseReminderKey(raw); err == nil {
			t.Errorf("ParseReminderKey(%q) expected error", raw)
		}
	}
}

func TestReminderLogWithDoesNotMutate(t *testing.T) {
	base := ReminderLog{}
	k := ReminderKey{Date: "2024-02-20", DaysBefore: 3}

	next := base.With(k)
	if base.Has(k) {
		t.Fatal("With must not mutate the receiver")
	}
	if !next.Has(k) {
		t.Fatal("With must add the key")
	}
}

func TestReminderLogScanStoredForm(t *testing.T) {
	var l ReminderLog
	if err := l.Scan(`{"2024-02-20_3":true,"2024-02-24_7":false,"junk":true}`); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(l) != 1 || !l.Has(ReminderKey{Date: "2024-02-20", DaysBefore: 3}) {
		t.Fatalf("unexpected log: %v", l.Keys())
	}

	var empty ReminderLog
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil log, got %#v", empty)
	}
}

func TestReminderLogValue(t *testing.T) {
	l := ReminderLog{}.With(ReminderKey{Date: "2024-02-20", DaysBefore: 1})
	v, err := l.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var m map[string]bool
	if err := json.Unmarshal([]byte(v.(string)), &m); err != nil {
		t.Fatalf("stored value is not json: %v", err)
	}
	if !m["2024-02-20_1"] || len(m) != 1 {
		t.Fatalf("unexpected stored form: %v", m)
	}
}
