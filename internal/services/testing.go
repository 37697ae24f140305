package services

import (
	"context"
	"sync"

	"lottery-settlement/internal/models"
)

// In-memory fakes so the suite runs without Redis. Shapes mirror the Redis
// implementations, including the checked custody transfer.

type MemoryStore struct {
	mu          sync.Mutex
	rounds      map[models.Category]models.Round
	treasury    *models.Treasury
	drawCounter uint64
	snapshot    []byte
	events      []*models.Event
	purchases   map[string][]*models.TicketPurchase
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds:    make(map[models.Category]models.Round),
		purchases: make(map[string][]*models.TicketPurchase),
	}
}

func (s *MemoryStore) GetRound(_ context.Context, category models.Category) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[category]
	if !ok {
		return nil, ErrRoundNotFound
	}
	copied := round
	return &copied, nil
}

func (s *MemoryStore) SaveRound(_ context.Context, round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.Category] = *round
	return nil
}

func (s *MemoryStore) GetTreasury(_ context.Context) (*models.Treasury, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.treasury == nil {
		return nil, nil
	}
	copied := *s.treasury
	return &copied, nil
}

func (s *MemoryStore) SaveTreasury(_ context.Context, treasury *models.Treasury) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *treasury
	s.treasury = &copied
	return nil
}

func (s *MemoryStore) NextDrawCounter(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawCounter++
	return s.drawCounter, nil
}

func (s *MemoryStore) FeedSnapshot(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, ErrFeedMissing
	}
	return append([]byte(nil), s.snapshot...), nil
}

func (s *MemoryStore) SaveFeedSnapshot(_ context.Context, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = append([]byte(nil), snapshot...)
	return nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]*models.Event{event}, s.events...)
	return nil
}

func (s *MemoryStore) RecentEvents(_ context.Context, limit int64) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > int64(len(s.events)) {
		limit = int64(len(s.events))
	}
	out := make([]*models.Event, limit)
	copy(out, s.events[:limit])
	return out, nil
}

func (s *MemoryStore) SavePurchase(_ context.Context, purchase *models.TicketPurchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[purchase.Buyer] = append(s.purchases[purchase.Buyer], purchase)
	return nil
}

func (s *MemoryStore) ListPurchases(_ context.Context, buyer string, limit int64) ([]*models.TicketPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.purchases[buyer]
	if limit <= 0 || limit > int64(len(list)) {
		limit = int64(len(list))
	}
	return list[:limit], nil
}

type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]uint64

	// FailTransfers forces every transfer to fail, for exercising the
	// guard-then-mutate ordering.
	FailTransfers bool
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{balances: make(map[string]uint64)}
}

func (l *MemoryLedger) Transfer(_ context.Context, from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailTransfers {
		return ErrInsufficientFunds
	}
	if l.balances[from] < amount {
		return ErrInsufficientFunds
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

func (l *MemoryLedger) Deposit(_ context.Context, account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// StaticFeed serves a fixed snapshot, standing in for the oracle.
type StaticFeed struct {
	Bytes []byte
}

func (f *StaticFeed) Snapshot(context.Context) ([]byte, error) {
	if f.Bytes == nil {
		return nil, ErrFeedMissing
	}
	return f.Bytes, nil
}
