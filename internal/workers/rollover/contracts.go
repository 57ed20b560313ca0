package rollover

import (
	"context"
	"time"

	"subtracker/internal/stories/subs"
)

//go:generate mockgen -source=contracts.go -destination=mocks/mock_contracts.go -package=mocks

type (
	// Storage provides database operations
	Storage interface {
		ListOverdueSubscriptions(ctx context.Context, asOf time.Time) ([]*subs.Subscription, error)
		UpdateSubscription(ctx context.Context, criteria subs.GetCriteria, params subs.UpdateParams) (*subs.Subscription, error)
	}
)
