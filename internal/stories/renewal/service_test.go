package renewal

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"subtracker/internal/localization"
	"subtracker/internal/notify"
	"subtracker/internal/workers/reminder"
	"subtracker/internal/workers/rollover"
)

type fakeReminders struct {
	calls *[]string
	stats reminder.Stats
	err   error
}

func (f fakeReminders) Run(context.Context) (reminder.Stats, error) {
	*f.calls = append(*f.calls, "reminder")
	return f.stats, f.err
}

type fakeRollovers struct {
	calls *[]string
	stats rollover.Stats
	err   error
}

func (f fakeRollovers) Run(context.Context) (rollover.Stats, error) {
	*f.calls = append(*f.calls, "rollover")
	return f.stats, f.err
}

type fakeDispatcher struct {
	ok      bool
	message string
	opts    notify.Options
}

func (f *fakeDispatcher) SendToAll(_ context.Context, message string, opts notify.Options) bool {
	f.message, f.opts = message, opts
	return f.ok
}

func newService(t *testing.T, rem ReminderPass, roll RolloverPass, d Dispatcher) *Service {
	t.Helper()
	l, err := localization.NewService()
	if err != nil {
		t.Fatalf("localization.NewService: %v", err)
	}
	return NewService(rem, roll, d, l, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name        string
		reminderErr error
		rolloverErr error
		wantErr     bool
	}{
		{name: "both succeed"},
		{name: "reminder fails, rollover still runs", reminderErr: errors.New("locked"), wantErr: true},
		{name: "rollover fails", rolloverErr: errors.New("locked"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			svc := newService(t,
				fakeReminders{calls: &calls, stats: reminder.Stats{Candidates: 2, Due: 1, Sent: 1}, err: tt.reminderErr},
				fakeRollovers{calls: &calls, stats: rollover.Stats{Overdue: 1, Advanced: 1}, err: tt.rolloverErr},
				&fakeDispatcher{},
			)

			report, err := svc.RunOnce(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("RunOnce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(calls) != 2 || calls[0] != "reminder" || calls[1] != "rollover" {
				t.Errorf("calls = %v, want [reminder rollover]", calls)
			}
			if report.Reminder.Sent != 1 || report.Rollover.Advanced != 1 {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestSendTestNotification(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		d := &fakeDispatcher{ok: true}
		svc := newService(t, nil, nil, d)

		if !svc.SendTestNotification(context.Background(), "") {
			t.Fatal("expected delivery")
		}
		if d.message != "这是一条测试消息" || d.opts.Summary != "测试通知" {
			t.Errorf("message = %q, summary = %q", d.message, d.opts.Summary)
		}
	})

	t.Run("custom message, nothing delivered", func(t *testing.T) {
		d := &fakeDispatcher{ok: false}
		svc := newService(t, nil, nil, d)

		if svc.SendTestNotification(context.Background(), "ping") {
			t.Fatal("expected false")
		}
		if d.message != "ping" {
			t.Errorf("message = %q, want ping", d.message)
		}
	})
}
