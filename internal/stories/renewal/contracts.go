package renewal

import (
	"context"

	"subtracker/internal/notify"
	"subtracker/internal/workers/reminder"
	"subtracker/internal/workers/rollover"
)

type (
	ReminderPass interface {
		Run(ctx context.Context) (reminder.Stats, error)
	}

	RolloverPass interface {
		Run(ctx context.Context) (rollover.Stats, error)
	}

	Dispatcher interface {
		SendToAll(ctx context.Context, message string, opts notify.Options) bool
	}

	Localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
