package users

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var DefaultReminderDays = []int{7, 3, 1}

const DefaultLanguage = "zh-CN"

type User struct {
	ID        int64
	Email     string
	Name      string
	Settings  Settings
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Settings struct {
	Language      string               `json:"language,omitempty"`
	Currency      string               `json:"currency,omitempty"`
	Notifications NotificationSettings `json:"notifications"`
}

type NotificationSettings struct {
	Email        bool  `json:"email"`
	Push         bool  `json:"push"`
	ReminderDays []int `json:"reminderDays,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Language: DefaultLanguage,
		Currency: "CNY",
		Notifications: NotificationSettings{
			Email:        true,
			Push:         true,
			ReminderDays: append([]int(nil), DefaultReminderDays...),
		},
	}
}

// ReminderDays returns the user's lead times, falling back to 7/3/1 days.
func (u *User) ReminderDays() []int {
	if u == nil || len(u.Settings.Notifications.ReminderDays) == 0 {
		return DefaultReminderDays
	}
	return u.Settings.Notifications.ReminderDays
}

// Lang reduces the settings locale to a catalogue language: "en" or "zh".
func (u *User) Lang() string {
	if u == nil {
		return "zh"
	}
	if strings.HasPrefix(strings.ToLower(u.Settings.Language), "en") {
		return "en"
	}
	return "zh"
}

func (s Settings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Settings) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = DefaultSettings()
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported settings type %T", src)
	}
	if len(data) == 0 {
		*s = DefaultSettings()
		return nil
	}
	*s = DefaultSettings()
	return json.Unmarshal(data, s)
}

type GetCriteria struct {
	ID    *int64
	Email *string
}
