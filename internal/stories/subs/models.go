package subs

import (
	"time"

	"github.com/shopspring/decimal"

	"subtracker/internal/stories/users"
)

type Subscription struct {
	ID              int64
	UserID          int64
	Name            string
	Category        string
	Price           decimal.Decimal
	Currency        string
	Cycle           Cycle
	StartDate       time.Time
	NextPaymentDate time.Time
	IsActive        bool
	ReminderSent    ReminderLog
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Upcoming is a subscription joined with its owner, as returned for the reminder pass.
type Upcoming struct {
	Subscription *Subscription
	Owner        *users.User
}

// GetCriteria selects subscriptions by id or owner.
type GetCriteria struct {
	IDs     []int64
	UserIDs []int64
}

// ListCriteria filters and pages a subscription listing.
type ListCriteria struct {
	UserIDs  []int64
	IsActive *bool
	Limit    int
	Offset   int
}

// UpdateParams holds the fields to change. Nil fields are left untouched.
type UpdateParams struct {
	NextPaymentDate *time.Time
	ReminderSent    *ReminderLog
	IsActive        *bool
}
