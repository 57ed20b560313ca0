package rollover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"subtracker/internal/metrics"
	"subtracker/internal/stories/subs"
	"subtracker/internal/workers"
)

const (
	passName = "rollover"

	DefaultSchedule = "0 2 * * *"
)

var tracer = otel.Tracer("subtracker/workers/rollover")

type Config struct {
	Schedules []string
	Location  *time.Location
}

// Stats summarises one pass.
type Stats struct {
	Overdue  int
	Advanced int
	Skipped  int
}

// Worker moves overdue subscriptions to their next billing date
type Worker struct {
	storage Storage
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
	cron    *cron.Cron
}

// NewWorker creates a new rollover worker
func NewWorker(storage Storage, m *metrics.Metrics, logger *slog.Logger, cfg Config) *Worker {
	if len(cfg.Schedules) == 0 {
		cfg.Schedules = []string{DefaultSchedule}
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Worker{
		storage: storage,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		cron:    workers.NewCron(cfg.Location, logger),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return passName
}

// Start starts the rollover worker
func (w *Worker) Start() error {
	err := workers.Schedule(w.cron, w.cfg.Schedules, func() {
		w.logger.Info("Running rollover worker")
		if _, err := w.Run(context.Background()); err != nil {
			w.logger.Error("Rollover worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rollover worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker and waits for a running pass to finish
func (w *Worker) Stop() {
	w.logger.Info("Stopping rollover worker")
	<-w.cron.Stop().Done()
}

// Run advances every active subscription whose next payment date is before
// today and clears its reminder log. Subscriptions with a broken cycle are
// skipped; a storage error aborts the pass.
func (w *Worker) Run(ctx context.Context) (stats Stats, err error) {
	passID := uuid.NewString()
	logger := w.logger.With("pass", passName, "pass_id", passID)

	ctx, span := tracer.Start(ctx, "rollover.pass")
	span.SetAttributes(attribute.String("pass_id", passID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		w.metrics.ObservePass(passName, err)
		w.metrics.AddRollovers(stats.Advanced)
	}()

	today := subs.StartOfDay(w.now(), w.cfg.Location)
	// occurrences fall on midnights, so anything strictly after the last
	// instant of yesterday is today or later
	ref := today.Add(-time.Nanosecond)

	logger.Info("Starting rollover worker execution", "as_of", today.Format(subs.DateLayout))

	overdue, err := w.storage.ListOverdueSubscriptions(ctx, today)
	if err != nil {
		return stats, fmt.Errorf("list overdue subscriptions: %w", err)
	}
	stats.Overdue = len(overdue)

	logger.Info("Found overdue subscriptions", "count", len(overdue))

	empty := subs.ReminderLog{}
	for _, sub := range overdue {
		start := subs.DateIn(sub.StartDate, w.cfg.Location)

		next, err := subs.NextOccurrence(start, sub.Cycle, ref)
		if err != nil {
			logger.Error("Skipping subscription with invalid cycle",
				"subscription_id", sub.ID,
				"cycle_unit", sub.Cycle.Unit,
				"cycle_value", sub.Cycle.Value,
				"error", err)
			stats.Skipped++
			continue
		}

		criteria := subs.GetCriteria{IDs: []int64{sub.ID}}
		params := subs.UpdateParams{NextPaymentDate: &next, ReminderSent: &empty}

		if _, err := w.storage.UpdateSubscription(ctx, criteria, params); err != nil {
			return stats, fmt.Errorf("advance subscription %d: %w", sub.ID, err)
		}
		stats.Advanced++

		logger.Info("Subscription rolled over",
			"subscription_id", sub.ID,
			"user_id", sub.UserID,
			"previous_payment_date", sub.NextPaymentDate.Format(subs.DateLayout),
			"next_payment_date", next.Format(subs.DateLayout))
	}

	logger.Info("Rollover worker execution completed",
		"overdue", stats.Overdue,
		"advanced", stats.Advanced,
		"skipped", stats.Skipped)
	return stats, nil
}
