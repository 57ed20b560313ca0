package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"subtracker/internal/metrics"
	"subtracker/internal/notify"
	"subtracker/internal/stories/subs"
	"subtracker/internal/workers"
)

const (
	passName = "reminder"

	DefaultSchedule      = "0 9 * * *"
	DefaultLookaheadDays = 7
)

var tracer = otel.Tracer("subtracker/workers/reminder")

type Config struct {
	// Schedules are cron specs; every one of them triggers a pass.
	Schedules     []string
	Location      *time.Location
	LookaheadDays int
}

// Stats summarises one pass.
type Stats struct {
	Candidates int
	Due        int
	Sent       int
	Failed     int
}

// Worker checks subscriptions renewing soon and sends lead-time reminders
type Worker struct {
	storage    Storage
	dispatcher Dispatcher
	render     renderer
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        Config
	now        func() time.Time
	cron       *cron.Cron
}

// NewWorker creates a new reminder worker
func NewWorker(
	storage Storage,
	dispatcher Dispatcher,
	localizer Localizer,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Worker {
	if len(cfg.Schedules) == 0 {
		cfg.Schedules = []string{DefaultSchedule}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LookaheadDays <= 0 {
		cfg.LookaheadDays = DefaultLookaheadDays
	}

	return &Worker{
		storage:    storage,
		dispatcher: dispatcher,
		render:     renderer{localizer: localizer},
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
		cron:       workers.NewCron(cfg.Location, logger),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return passName
}

// Start schedules the pass on every configured spec
func (w *Worker) Start() error {
	err := workers.Schedule(w.cron, w.cfg.Schedules, func() {
		w.logger.Info("Running reminder worker")
		if _, err := w.Run(context.Background()); err != nil {
			w.logger.Error("Reminder worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker and waits for a running pass to finish
func (w *Worker) Stop() {
	w.logger.Info("Stopping reminder worker")
	<-w.cron.Stop().Done()
}

// Run executes one pass. A storage error aborts the remainder of the pass;
// delivery failures only leave the affected reminder to be retried next time.
func (w *Worker) Run(ctx context.Context) (stats Stats, err error) {
	passID := uuid.NewString()
	logger := w.logger.With("pass", passName, "pass_id", passID)

	ctx, span := tracer.Start(ctx, "reminder.pass")
	span.SetAttributes(attribute.String("pass_id", passID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		w.metrics.ObservePass(passName, err)
		w.metrics.AddReminders(stats.Sent)
	}()

	now := w.now().In(w.cfg.Location)
	today := subs.StartOfDay(now, w.cfg.Location)
	until := today.AddDate(0, 0, w.cfg.LookaheadDays)

	logger.Info("Starting reminder worker execution",
		"from", today.Format(subs.DateLayout),
		"to", until.Format(subs.DateLayout))

	upcoming, err := w.storage.ListUpcomingSubscriptions(ctx, today, until)
	if err != nil {
		return stats, fmt.Errorf("list upcoming subscriptions: %w", err)
	}
	stats.Candidates = len(upcoming)

	logger.Info("Found upcoming subscriptions", "count", len(upcoming))

	for _, item := range upcoming {
		if item.Subscription == nil {
			continue
		}

		due, sent, err := w.processSubscription(ctx, logger, item, now, today)
		if err != nil {
			return stats, err
		}
		if !due {
			continue
		}
		stats.Due++
		if sent {
			stats.Sent++
		} else {
			stats.Failed++
		}
	}

	logger.Info("Reminder worker execution completed",
		"candidates", stats.Candidates,
		"due", stats.Due,
		"sent", stats.Sent,
		"failed", stats.Failed)
	return stats, nil
}

// processSubscription sends the reminder for item if one is due today and has
// not been sent yet. The dedup key is written only after a confirmed delivery.
func (w *Worker) processSubscription(
	ctx context.Context,
	logger *slog.Logger,
	item subs.Upcoming,
	now, today time.Time,
) (due, sent bool, err error) {
	sub := item.Subscription

	dueDate := subs.DateIn(sub.NextPaymentDate, w.cfg.Location)
	days := subs.DaysUntil(dueDate, now)
	key := subs.NewReminderKey(today, days)

	if !lo.Contains(item.Owner.ReminderDays(), days) || sub.ReminderSent.Has(key) {
		return false, false, nil
	}

	logger = logger.With(
		"subscription_id", sub.ID,
		"user_id", sub.UserID,
		"days_until_renewal", days,
		"reminder_key", key.String())

	view := *sub
	view.NextPaymentDate = dueDate
	body, summary := w.render.message(item.Owner.Lang(), &view, days)

	logger.Info("Sending renewal reminder")

	if !w.dispatcher.SendToAll(ctx, body, notify.Options{Summary: summary}) {
		logger.Error("Renewal reminder was not delivered")
		return true, false, nil
	}

	if err := w.storage.MarkReminderSent(ctx, sub.ID, key); err != nil {
		return true, true, fmt.Errorf("mark reminder %s sent for subscription %d: %w", key, sub.ID, err)
	}
	sub.ReminderSent = sub.ReminderSent.With(key)

	logger.Info("Renewal reminder sent")
	return true, true, nil
}
