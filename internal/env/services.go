package environment

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"subtracker/internal/config"
	"subtracker/internal/localization"
	"subtracker/internal/metrics"
	"subtracker/internal/notify"
	"subtracker/internal/storage"
	"subtracker/internal/stories/renewal"
	"subtracker/internal/workers"
	"subtracker/internal/workers/reminder"
	"subtracker/internal/workers/rollover"
)

const hourlySchedule = "0 * * * *"

type Services struct {
	Storage       Storage
	Dispatcher    *notify.Dispatcher
	Renewal       *renewal.Service
	WorkerManager *workers.Manager
}

type Storage interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	s.Storage = storageImpl

	localizer, err := localization.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load translations")
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, errors.Wrap(err, "invalid scheduler timezone")
	}

	m := metrics.New(nil)

	s.Dispatcher = notify.NewDispatcher(logger.With("component", "dispatcher"), m, cfg.Notify.Timeout, clients.Providers...)

	reminderSchedules := []string{cfg.Scheduler.ReminderSpec}
	if cfg.IsDevelopment() {
		reminderSchedules = append(reminderSchedules, hourlySchedule)
	}

	reminderWorker := reminder.NewWorker(
		storageImpl,
		s.Dispatcher,
		localizer,
		m,
		logger.With("worker", "reminder"),
		reminder.Config{
			Schedules:     reminderSchedules,
			Location:      loc,
			LookaheadDays: cfg.Scheduler.LookaheadDays,
		},
	)

	rolloverWorker := rollover.NewWorker(
		storageImpl,
		m,
		logger.With("worker", "rollover"),
		rollover.Config{
			Schedules: []string{cfg.Scheduler.RolloverSpec},
			Location:  loc,
		},
	)

	s.Renewal = renewal.NewService(reminderWorker, rolloverWorker, s.Dispatcher, localizer, logger.With("component", "renewal"))
	s.WorkerManager = workers.NewManager(logger, reminderWorker, rolloverWorker)

	return &s, nil
}
