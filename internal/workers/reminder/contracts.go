package reminder

import (
	"context"
	"time"

	"subtracker/internal/notify"
	"subtracker/internal/stories/subs"
)

//go:generate mockgen -source=contracts.go -destination=mocks/mock_contracts.go -package=mocks

type (
	// Storage provides the subscriptions a reminder pass looks at
	Storage interface {
		ListUpcomingSubscriptions(ctx context.Context, from, to time.Time) ([]subs.Upcoming, error)
		MarkReminderSent(ctx context.Context, subscriptionID int64, key subs.ReminderKey) error
	}

	// Dispatcher delivers a rendered reminder to every enabled channel
	Dispatcher interface {
		SendToAll(ctx context.Context, message string, opts notify.Options) bool
	}

	// Localizer renders catalogue entries
	Localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
