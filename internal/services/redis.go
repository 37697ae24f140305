package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lottery-settlement/internal/config"
	"lottery-settlement/internal/models"
)

// RedisStore implements Store on a single Redis instance. Rounds live at a
// stable per-category key, the treasury at one fixed key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) GetRound(ctx context.Context, category models.Category) (*models.Round, error) {
	key := fmt.Sprintf(KeyRound, category)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	var round models.Round
	if err := json.Unmarshal([]byte(data), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %w", err)
	}
	return &round, nil
}

func (s *RedisStore) SaveRound(ctx context.Context, round *models.Round) error {
	key := fmt.Sprintf(KeyRound, round.Category)

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) GetTreasury(ctx context.Context) (*models.Treasury, error) {
	data, err := s.client.Get(ctx, KeyTreasury).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treasury: %w", err)
	}

	var treasury models.Treasury
	if err := json.Unmarshal([]byte(data), &treasury); err != nil {
		return nil, fmt.Errorf("failed to unmarshal treasury: %w", err)
	}
	return &treasury, nil
}

func (s *RedisStore) SaveTreasury(ctx context.Context, treasury *models.Treasury) error {
	data, err := json.Marshal(treasury)
	if err != nil {
		return fmt.Errorf("failed to marshal treasury: %w", err)
	}
	return s.client.Set(ctx, KeyTreasury, data, 0).Err()
}

func (s *RedisStore) NextDrawCounter(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, KeyDrawCounter).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance draw counter: %w", err)
	}
	return uint64(n), nil
}

func (s *RedisStore) FeedSnapshot(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, KeyFeedSnapshot).Bytes()
	if err == redis.Nil {
		return nil, ErrFeedMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed snapshot: %w", err)
	}
	return data, nil
}

func (s *RedisStore) SaveFeedSnapshot(ctx context.Context, snapshot []byte) error {
	return s.client.Set(ctx, KeyFeedSnapshot, snapshot, 0).Err()
}

func (s *RedisStore) AppendEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := s.client.LPush(ctx, KeyEventLog, data).Err(); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	s.client.LTrim(ctx, KeyEventLog, 0, EventLogDepth-1)

	return nil
}

func (s *RedisStore) RecentEvents(ctx context.Context, limit int64) ([]*models.Event, error) {
	if limit <= 0 || limit > EventLogDepth {
		limit = 50
	}

	rows, err := s.client.LRange(ctx, KeyEventLog, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	events := make([]*models.Event, 0, len(rows))
	for _, row := range rows {
		var event models.Event
		if err := json.Unmarshal([]byte(row), &event); err != nil {
			continue
		}
		events = append(events, &event)
	}
	return events, nil
}

func (s *RedisStore) SavePurchase(ctx context.Context, purchase *models.TicketPurchase) error {
	key := fmt.Sprintf(KeyPurchase, purchase.ID)

	data, err := json.Marshal(purchase)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase: %w", err)
	}
	if err := s.client.Set(ctx, key, data, TTLPurchase).Err(); err != nil {
		return fmt.Errorf("failed to save purchase: %w", err)
	}

	indexKey := fmt.Sprintf(KeyBuyerPurchases, purchase.Buyer)
	if err := s.client.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(purchase.BoughtAt),
		Member: purchase.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index purchase: %w", err)
	}
	s.client.ZRemRangeByRank(ctx, indexKey, 0, -(PurchaseHistoryDepth + 1))

	return nil
}

func (s *RedisStore) ListPurchases(ctx context.Context, buyer string, limit int64) ([]*models.TicketPurchase, error) {
	if limit <= 0 || limit > PurchaseHistoryDepth {
		limit = 50
	}

	indexKey := fmt.Sprintf(KeyBuyerPurchases, buyer)
	ids, err := s.client.ZRevRange(ctx, indexKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	purchases := make([]*models.TicketPurchase, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyPurchase, id)).Result()
		if err != nil {
			continue
		}
		var purchase models.TicketPurchase
		if err := json.Unmarshal([]byte(data), &purchase); err != nil {
			continue
		}
		purchases = append(purchases, &purchase)
	}
	return purchases, nil
}
