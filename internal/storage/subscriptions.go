package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"subtracker/internal/stories/subs"
	"subtracker/internal/stories/users"
)

const subscriptionsTable = "subscriptions"

var subscriptionRowFields = fields(subscriptionRow{})

type subscriptionRow struct {
	ID              int64            `db:"id"`
	UserID          int64            `db:"user_id"`
	Name            string           `db:"name"`
	Category        string           `db:"category"`
	Price           decimal.Decimal  `db:"price"`
	Currency        string           `db:"currency"`
	CycleUnit       string           `db:"cycle_unit"`
	CycleValue      int              `db:"cycle_value"`
	StartDate       dateColumn       `db:"start_date"`
	NextPaymentDate dateColumn       `db:"next_payment_date"`
	IsActive        bool             `db:"is_active"`
	ReminderSent    subs.ReminderLog `db:"reminder_sent"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}

func (s subscriptionRow) ToModel() *subs.Subscription {
	reminderSent := s.ReminderSent
	if reminderSent == nil {
		reminderSent = subs.ReminderLog{}
	}
	return &subs.Subscription{
		ID:              s.ID,
		UserID:          s.UserID,
		Name:            s.Name,
		Category:        s.Category,
		Price:           s.Price,
		Currency:        s.Currency,
		Cycle:           subs.Cycle{Unit: subs.CycleUnit(s.CycleUnit), Value: s.CycleValue},
		StartDate:       s.StartDate.Time,
		NextPaymentDate: s.NextPaymentDate.Time,
		IsActive:        s.IsActive,
		ReminderSent:    reminderSent,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// upcomingRow is a subscription joined with the owner columns it needs for a reminder.
type upcomingRow struct {
	subscriptionRow
	OwnerEmail    string         `db:"owner_email"`
	OwnerName     string         `db:"owner_name"`
	OwnerSettings users.Settings `db:"owner_settings"`
	OwnerIsActive bool           `db:"owner_is_active"`
}

func (r upcomingRow) ToModel() subs.Upcoming {
	return subs.Upcoming{
		Subscription: r.subscriptionRow.ToModel(),
		Owner: &users.User{
			ID:       r.UserID,
			Email:    r.OwnerEmail,
			Name:     r.OwnerName,
			Settings: r.OwnerSettings,
			IsActive: r.OwnerIsActive,
		},
	}
}

func (s *storageImpl) CreateSubscription(ctx context.Context, subscription subs.Subscription) (*subs.Subscription, error) {
	now := s.now()

	reminderSent := subscription.ReminderSent
	if reminderSent == nil {
		reminderSent = subs.ReminderLog{}
	}

	params := map[string]interface{}{
		"user_id":           subscription.UserID,
		"name":              subscription.Name,
		"category":          subscription.Category,
		"price":             subscription.Price,
		"currency":          subscription.Currency,
		"cycle_unit":        string(subscription.Cycle.Unit),
		"cycle_value":       subscription.Cycle.Value,
		"start_date":        newDateColumn(subscription.StartDate),
		"next_payment_date": newDateColumn(subscription.NextPaymentDate),
		"is_active":         subscription.IsActive,
		"reminder_sent":     reminderSent,
		"created_at":        now,
		"updated_at":        now,
	}

	q, args, err := s.stmpBuilder().
		Insert(subscriptionsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	return s.GetSubscription(ctx, subs.GetCriteria{IDs: []int64{id}})
}

func (s *storageImpl) GetSubscription(ctx context.Context, criteria subs.GetCriteria) (*subs.Subscription, error) {
	query := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable).
		Limit(1)

	if len(criteria.IDs) > 0 {
		query = query.Where(sq.Eq{"id": criteria.IDs})
	}
	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var sub subscriptionRow
	err = s.db.GetContext(ctx, &sub, q, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return sub.ToModel(), nil
}

func (s *storageImpl) ListSubscriptions(ctx context.Context, criteria subs.ListCriteria) ([]*subs.Subscription, error) {
	query := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable)

	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}
	if criteria.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *criteria.IsActive})
	}

	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	query = query.OrderBy("next_payment_date ASC", "id ASC")

	return s.selectSubscriptions(ctx, query)
}

// ListUpcomingSubscriptions returns active subscriptions renewing on a date in
// [from, to], both ends inclusive, together with their owners.
func (s *storageImpl) ListUpcomingSubscriptions(ctx context.Context, from, to time.Time) ([]subs.Upcoming, error) {
	q, args, err := s.stmpBuilder().
		Select(
			prefixWithTable("s", subscriptionRowFields),
			"u.email AS owner_email",
			"u.name AS owner_name",
			"u.settings AS owner_settings",
			"u.is_active AS owner_is_active",
		).
		From(subscriptionsTable+" s").
		Join(usersTable+" u ON u.id = s.user_id").
		Where(sq.Eq{"s.is_active": true}).
		Where(sq.GtOrEq{"s.next_payment_date": newDateColumn(from)}).
		Where(sq.LtOrEq{"s.next_payment_date": newDateColumn(to)}).
		OrderBy("s.next_payment_date ASC", "s.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []upcomingRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	upcoming := make([]subs.Upcoming, 0, len(rows))
	for _, row := range rows {
		upcoming = append(upcoming, row.ToModel())
	}
	return upcoming, nil
}

// ListOverdueSubscriptions returns active subscriptions whose next payment date is before asOf.
func (s *storageImpl) ListOverdueSubscriptions(ctx context.Context, asOf time.Time) ([]*subs.Subscription, error) {
	query := s.stmpBuilder().
		Select(subscriptionRowFields).
		From(subscriptionsTable).
		Where(sq.Eq{"is_active": true}).
		Where(sq.Lt{"next_payment_date": newDateColumn(asOf)}).
		OrderBy("next_payment_date ASC", "id ASC")

	return s.selectSubscriptions(ctx, query)
}

func (s *storageImpl) UpdateSubscription(ctx context.Context, criteria subs.GetCriteria, params subs.UpdateParams) (*subs.Subscription, error) {
	if len(criteria.IDs) == 0 && len(criteria.UserIDs) == 0 {
		return nil, fmt.Errorf("update subscription: empty criteria")
	}

	query := s.stmpBuilder().
		Update(subscriptionsTable).
		Set("updated_at", s.now())

	if len(criteria.IDs) > 0 {
		query = query.Where(sq.Eq{"id": criteria.IDs})
	}
	if len(criteria.UserIDs) > 0 {
		query = query.Where(sq.Eq{"user_id": criteria.UserIDs})
	}

	if params.NextPaymentDate != nil {
		query = query.Set("next_payment_date", newDateColumn(*params.NextPaymentDate))
	}
	if params.ReminderSent != nil {
		reminderSent := *params.ReminderSent
		if reminderSent == nil {
			reminderSent = subs.ReminderLog{}
		}
		query = query.Set("reminder_sent", reminderSent)
	}
	if params.IsActive != nil {
		query = query.Set("is_active", *params.IsActive)
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	_, err = s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetSubscription(ctx, criteria)
}

// MarkReminderSent adds key to the subscription's reminder log. The read and
// the write happen in one transaction so concurrent marks are not lost.
func (s *storageImpl) MarkReminderSent(ctx context.Context, subscriptionID int64, key subs.ReminderKey) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		q, args, err := s.stmpBuilder().
			Select("reminder_sent").
			From(subscriptionsTable).
			Where(sq.Eq{"id": subscriptionID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build sql query: %w", err)
		}

		var current subs.ReminderLog
		if err := tx.GetContext(ctx, &current, q, args...); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("subscription not found: %d", subscriptionID)
			}
			return fmt.Errorf("tx.GetContext: %w", err)
		}

		q, args, err = s.stmpBuilder().
			Update(subscriptionsTable).
			Set("reminder_sent", current.With(key)).
			Set("updated_at", s.now()).
			Where(sq.Eq{"id": subscriptionID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build sql query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("tx.ExecContext: %w", err)
		}
		return nil
	})
}

func (s *storageImpl) selectSubscriptions(ctx context.Context, query sq.SelectBuilder) ([]*subs.Subscription, error) {
	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []subscriptionRow
	err = s.db.SelectContext(ctx, &rows, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	subscriptions := make([]*subs.Subscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, row.ToModel())
	}

	return subscriptions, nil
}
