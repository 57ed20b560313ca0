package renewal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"subtracker/internal/localization"
	"subtracker/internal/notify"
	"subtracker/internal/workers/reminder"
	"subtracker/internal/workers/rollover"
)

// Report is what one manual run did.
type Report struct {
	Reminder reminder.Stats
	Rollover rollover.Stats
}

// Service is the manual entry point into the scheduled passes.
type Service struct {
	reminders  ReminderPass
	rollovers  RolloverPass
	dispatcher Dispatcher
	localizer  Localizer
	logger     *slog.Logger
}

func NewService(
	reminders ReminderPass,
	rollovers RolloverPass,
	dispatcher Dispatcher,
	localizer Localizer,
	logger *slog.Logger,
) *Service {
	return &Service{
		reminders:  reminders,
		rollovers:  rollovers,
		dispatcher: dispatcher,
		localizer:  localizer,
		logger:     logger,
	}
}

// RunOnce runs the reminder pass and then the rollover pass. A failing
// reminder pass does not prevent the rollover pass from running.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	var report Report

	s.logger.Info("Manual renewal check requested")

	reminderStats, reminderErr := s.reminders.Run(ctx)
	if reminderErr != nil {
		s.logger.Error("Manual reminder pass failed", "error", reminderErr)
		reminderErr = fmt.Errorf("reminder pass: %w", reminderErr)
	}
	report.Reminder = reminderStats

	rolloverStats, rolloverErr := s.rollovers.Run(ctx)
	if rolloverErr != nil {
		s.logger.Error("Manual rollover pass failed", "error", rolloverErr)
		rolloverErr = fmt.Errorf("rollover pass: %w", rolloverErr)
	}
	report.Rollover = rolloverStats

	return report, errors.Join(reminderErr, rolloverErr)
}

// SendTestNotification broadcasts message to every enabled channel. An empty
// message is replaced by the stock test text.
func (s *Service) SendTestNotification(ctx context.Context, message string) bool {
	if message == "" {
		message = s.localizer.Get(localization.DefaultLanguage, "test.message", nil)
	}
	summary := s.localizer.Get(localization.DefaultLanguage, "test.summary", nil)

	ok := s.dispatcher.SendToAll(ctx, message, notify.Options{Summary: summary})
	s.logger.Info("Test notification sent", "delivered", ok)
	return ok
}
