package services

import (
	"context"

	"lottery-settlement/internal/models"
)

// Store persists the per-category round records, the treasury singleton and
// the audit surface. Writes must be durable before an operation is reported
// as committed.
type Store interface {
	GetRound(ctx context.Context, category models.Category) (*models.Round, error)
	SaveRound(ctx context.Context, round *models.Round) error

	GetTreasury(ctx context.Context) (*models.Treasury, error)
	SaveTreasury(ctx context.Context, treasury *models.Treasury) error

	// NextDrawCounter returns a monotonically increasing counter shared by
	// all categories, consumed once per executed draw.
	NextDrawCounter(ctx context.Context) (uint64, error)

	FeedSnapshot(ctx context.Context) ([]byte, error)
	SaveFeedSnapshot(ctx context.Context, snapshot []byte) error

	AppendEvent(ctx context.Context, event *models.Event) error
	RecentEvents(ctx context.Context, limit int64) ([]*models.Event, error)

	SavePurchase(ctx context.Context, purchase *models.TicketPurchase) error
	ListPurchases(ctx context.Context, buyer string, limit int64) ([]*models.TicketPurchase, error)
}

// ValueLedger moves balances between custodial accounts. Transfer must be
// atomic: either both sides move or neither does. The engine calls it
// exactly once per payout or sweep and treats failure as total operation
// failure.
type ValueLedger interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
	Deposit(ctx context.Context, account string, amount uint64) error
	Balance(ctx context.Context, account string) (uint64, error)
}
