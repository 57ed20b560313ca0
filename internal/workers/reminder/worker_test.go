package reminder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"

	"subtracker/internal/infra/sqlite3"
	"subtracker/internal/localization"
	"subtracker/internal/notify"
	"subtracker/internal/storage"
	"subtracker/internal/stories/subs"
	"subtracker/internal/stories/users"
	"subtracker/internal/workers/reminder/mocks"
)

var shanghai = time.FixedZone("CST", 8*60*60)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newLocalizer(t *testing.T) *localization.Service {
	t.Helper()
	l, err := localization.NewService()
	if err != nil {
		t.Fatalf("localization.NewService: %v", err)
	}
	return l
}

func newTestWorker(t *testing.T, st Storage, d Dispatcher, now time.Time) *Worker {
	t.Helper()
	w := NewWorker(st, d, newLocalizer(t), nil, testLogger(), Config{Location: shanghai})
	w.now = func() time.Time { return now }
	return w
}

func owner(lang string, days ...int) *users.User {
	settings := users.DefaultSettings()
	settings.Language = lang
	if len(days) > 0 {
		settings.Notifications.ReminderDays = days
	}
	return &users.User{ID: 1, Email: "alice@example.com", Name: "Alice", Settings: settings, IsActive: true}
}

func subscription(id int64, next time.Time) *subs.Subscription {
	return &subs.Subscription{
		ID:              id,
		UserID:          1,
		Name:            "Netflix",
		Category:        "video",
		Price:           decimal.RequireFromString("15.99"),
		Currency:        "USD",
		Cycle:           subs.Cycle{Unit: subs.UnitMonth, Value: 1},
		StartDate:       time.Date(2024, time.January, 23, 0, 0, 0, 0, time.UTC),
		NextPaymentDate: next,
		IsActive:        true,
		ReminderSent:    subs.ReminderLog{},
	}
}

// 2024-02-20 09:00 in Shanghai
var passTime = time.Date(2024, time.February, 20, 9, 0, 0, 0, shanghai)

func storedDate(d int) time.Time {
	return time.Date(2024, time.February, d, 0, 0, 0, 0, time.UTC)
}

func TestRunSendsDueReminder(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	d := mocks.NewMockDispatcher(ctrl)

	sub := subscription(10, storedDate(23))

	st.EXPECT().
		ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, from, to time.Time) ([]subs.Upcoming, error) {
			if got := from.Format(subs.DateLayout); got != "2024-02-20" {
				t.Errorf("from = %s, want 2024-02-20", got)
			}
			if got := to.Format(subs.DateLayout); got != "2024-02-27" {
				t.Errorf("to = %s, want 2024-02-27", got)
			}
			return []subs.Upcoming{{Subscription: sub, Owner: owner("en-US", 7, 3, 1)}}, nil
		})

	d.EXPECT().
		SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message string, opts notify.Options) bool {
			for _, want := range []string{"Netflix", "$15.99", "every month", "Feb 23, 2024", "3 days from now", "video"} {
				if !strings.Contains(message, want) {
					t.Errorf("message missing %q:\n%s", want, message)
				}
			}
			if opts.Summary != "Netflix renews soon" {
				t.Errorf("Summary = %q", opts.Summary)
			}
			return true
		}).
		Times(1)

	st.EXPECT().
		MarkReminderSent(gomock.Any(), int64(10), subs.ReminderKey{Date: "2024-02-20", DaysBefore: 3}).
		Return(nil).
		Times(1)

	stats, err := newTestWorker(t, st, d, passTime).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats != (Stats{Candidates: 1, Due: 1, Sent: 1}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunChineseMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	d := mocks.NewMockDispatcher(ctrl)

	sub := subscription(10, storedDate(23))
	sub.Currency = "CNY"
	sub.Cycle = subs.Cycle{Unit: subs.UnitMonth, Value: 3}

	st.EXPECT().
		ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]subs.Upcoming{{Subscription: sub, Owner: owner("zh-CN")}}, nil)

	d.EXPECT().
		SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, message string, opts notify.Options) bool {
			for _, want := range []string{"¥15.99", "每3月", "2024/2/23", "3天后"} {
				if !strings.Contains(message, want) {
					t.Errorf("message missing %q:\n%s", want, message)
				}
			}
			if opts.Summary != "Netflix 即将到期" {
				t.Errorf("Summary = %q", opts.Summary)
			}
			return true
		})

	st.EXPECT().MarkReminderSent(gomock.Any(), int64(10), gomock.Any()).Return(nil)

	if _, err := newTestWorker(t, st, d, passTime).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunSkipsSubscriptionsNotDue(t *testing.T) {
	alreadySent := subscription(1, storedDate(23))
	alreadySent.ReminderSent = alreadySent.ReminderSent.With(subs.ReminderKey{Date: "2024-02-20", DaysBefore: 3})

	staleKey := subscription(2, storedDate(23))
	staleKey.ReminderSent = staleKey.ReminderSent.With(subs.ReminderKey{Date: "2024-02-19", DaysBefore: 3})

	tests := []struct {
		name     string
		upcoming subs.Upcoming
		wantSend bool
	}{
		{
			name:     "not a reminder day",
			upcoming: subs.Upcoming{Subscription: subscription(3, storedDate(25)), Owner: owner("en")},
		},
		{
			name:     "already sent today",
			upcoming: subs.Upcoming{Subscription: alreadySent, Owner: owner("en")},
		},
		{
			name:     "custom reminder days",
			upcoming: subs.Upcoming{Subscription: subscription(4, storedDate(25)), Owner: owner("en", 5)},
			wantSend: true,
		},
		{
			name:     "key from another day does not suppress",
			upcoming: subs.Upcoming{Subscription: staleKey, Owner: owner("en")},
			wantSend: true,
		},
		{
			name:     "missing owner falls back to default days",
			upcoming: subs.Upcoming{Subscription: subscription(5, storedDate(21))},
			wantSend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			st := mocks.NewMockStorage(ctrl)
			d := mocks.NewMockDispatcher(ctrl)

			st.EXPECT().
				ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
				Return([]subs.Upcoming{tt.upcoming}, nil)

			if tt.wantSend {
				d.EXPECT().SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
				st.EXPECT().MarkReminderSent(gomock.Any(), tt.upcoming.Subscription.ID, gomock.Any()).Return(nil)
			}

			stats, err := newTestWorker(t, st, d, passTime).Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := stats.Sent == 1; got != tt.wantSend {
				t.Errorf("sent = %v, want %v", got, tt.wantSend)
			}
		})
	}
}

func TestRunDeliveryFailureKeepsDedupState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStorage(ctrl)
	d := mocks.NewMockDispatcher(ctrl)

	st.EXPECT().
		ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]subs.Upcoming{
			{Subscription: subscription(1, storedDate(21)), Owner: owner("en")},
			{Subscription: subscription(2, storedDate(27)), Owner: owner("en")},
		}, nil)

	// first fails, second is delivered
	gomock.InOrder(
		d.EXPECT().SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(false),
		d.EXPECT().SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(true),
	)
	st.EXPECT().MarkReminderSent(gomock.Any(), int64(2), subs.ReminderKey{Date: "2024-02-20", DaysBefore: 7}).Return(nil)

	stats, err := newTestWorker(t, st, d, passTime).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats != (Stats{Candidates: 2, Due: 2, Sent: 1, Failed: 1}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunStorageErrors(t *testing.T) {
	t.Run("list fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		st := mocks.NewMockStorage(ctrl)
		st.EXPECT().
			ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database is locked"))

		_, err := newTestWorker(t, st, mocks.NewMockDispatcher(ctrl), passTime).Run(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("mark fails aborts the pass", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		st := mocks.NewMockStorage(ctrl)
		d := mocks.NewMockDispatcher(ctrl)

		st.EXPECT().
			ListUpcomingSubscriptions(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]subs.Upcoming{
				{Subscription: subscription(1, storedDate(21)), Owner: owner("en")},
				{Subscription: subscription(2, storedDate(23)), Owner: owner("en")},
			}, nil)
		d.EXPECT().SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(1)
		st.EXPECT().MarkReminderSent(gomock.Any(), int64(1), gomock.Any()).Return(errors.New("disk I/O error"))

		_, err := newTestWorker(t, st, d, passTime).Run(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRunIsIdempotentWithinADay(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db, err := sqlite3.New(ctx, sqlite3.WithDSN(":memory:"), sqlite3.WithMaxOpenConns(1), sqlite3.WithMaxIdleConns(1))
	if err != nil {
		t.Fatalf("sqlite3.New: %v", err)
	}
	defer db.Close()

	st := storage.New(db.DB)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	u, err := st.CreateUser(ctx, *owner("en"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	sub := subscription(0, storedDate(23))
	sub.UserID = u.ID
	created, err := st.CreateSubscription(ctx, *sub)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	d := mocks.NewMockDispatcher(ctrl)
	d.EXPECT().SendToAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(1)

	w := newTestWorker(t, st, d, passTime)

	first, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	// an hour later, same day
	w.now = func() time.Time { return passTime.Add(time.Hour) }
	second, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.Sent != 1 || second.Sent != 0 || second.Due != 0 {
		t.Errorf("first = %+v, second = %+v", first, second)
	}

	got, err := st.GetSubscription(ctx, subs.GetCriteria{IDs: []int64{created.ID}})
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if !got.ReminderSent.Has(subs.ReminderKey{Date: "2024-02-20", DaysBefore: 3}) {
		t.Errorf("ReminderSent = %v", got.ReminderSent.Keys())
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		currency string
		price    string
		want     string
	}{
		{currency: "CNY", price: "30", want: "¥30.00"},
		{currency: "USD", price: "15.99", want: "$15.99"},
		{currency: "EUR", price: "9.5", want: "€9.50"},
		{currency: "GBP", price: "4.99", want: "£4.99"},
		{currency: "JPY", price: "1200", want: "¥1200.00"},
		{currency: "CHF", price: "12", want: "CHF12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			sub := &subs.Subscription{Currency: tt.currency, Price: decimal.RequireFromString(tt.price)}
			if got := FormatPrice(sub); got != tt.want {
				t.Errorf("FormatPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLeadTimePhrase(t *testing.T) {
	r := renderer{localizer: newLocalizer(t)}

	tests := []struct {
		lang string
		days int
		want string
	}{
		{lang: "en", days: 0, want: "today"},
		{lang: "en", days: 1, want: "tomorrow"},
		{lang: "en", days: 3, want: "3 days from now"},
		{lang: "zh", days: 0, want: "今天"},
		{lang: "zh", days: 1, want: "明天"},
		{lang: "zh", days: 7, want: "7天后"},
	}

	for _, tt := range tests {
		if got := r.when(tt.lang, tt.days); got != tt.want {
			t.Errorf("when(%s, %d) = %q, want %q", tt.lang, tt.days, got, tt.want)
		}
	}
}

func TestUnnamedSubscription(t *testing.T) {
	r := renderer{localizer: newLocalizer(t)}
	sub := subscription(1, storedDate(23))
	sub.Name = ""

	_, summary := r.message("en", sub, 3)
	if summary != "Unnamed subscription renews soon" {
		t.Errorf("summary = %q", summary)
	}
}

func TestMessageKeepsPlaceholderLikeFields(t *testing.T) {
	r := renderer{localizer: newLocalizer(t)}
	sub := subscription(1, storedDate(23))
	sub.Name = "Plan {{price}}"
	sub.Category = "{{name}}"

	first, firstSummary := r.message("en", sub, 3)
	for _, want := range []string{"Service: Plan {{price}}", "Price: $15.99", "Category: {{name}}"} {
		if !strings.Contains(first, want) {
			t.Errorf("body missing %q:\n%s", want, first)
		}
	}
	if firstSummary != "Plan {{price}} renews soon" {
		t.Errorf("summary = %q", firstSummary)
	}

	for i := 0; i < 100; i++ {
		body, summary := r.message("en", sub, 3)
		if body != first || summary != firstSummary {
			t.Fatalf("render %d differs:\n%s\nvs\n%s", i, body, first)
		}
	}
}
