package workers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CronLogger routes cron's internal logging into slog.
type CronLogger struct {
	logger *slog.Logger
}

func NewCronLogger(logger *slog.Logger) CronLogger {
	return CronLogger{logger: logger}
}

func (l CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// NewCron builds a scheduler running in loc. A job that is still running when
// its next tick fires is skipped rather than started twice.
func NewCron(loc *time.Location, logger *slog.Logger) *cron.Cron {
	if loc == nil {
		loc = time.Local
	}
	cronLogger := NewCronLogger(logger)
	return cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}

// Schedule registers fn under every spec.
func Schedule(c *cron.Cron, specs []string, fn func()) error {
	if len(specs) == 0 {
		return fmt.Errorf("no schedule specs")
	}
	for _, spec := range specs {
		if _, err := c.AddFunc(spec, fn); err != nil {
			return fmt.Errorf("add schedule %q: %w", spec, err)
		}
	}
	return nil
}
