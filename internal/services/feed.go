package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FeedPoller refreshes the oracle snapshot from an external price API. The
// raw response bytes are stored untouched; the entropy adapter decides how
// much of them to consume. The poller is the only writer of the snapshot.
type FeedPoller struct {
	client   *resty.Client
	store    Store
	url      string
	interval time.Duration
	log      *zap.Logger
}

func NewFeedPoller(store Store, url string, interval time.Duration, log *zap.Logger) *FeedPoller {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedPoller{
		client:   resty.New().SetTimeout(10 * time.Second),
		store:    store,
		url:      url,
		interval: interval,
		log:      log,
	}
}

// Run polls until the context is cancelled. One fetch happens immediately
// so a fresh deployment has a snapshot before the first draw.
func (p *FeedPoller) Run(ctx context.Context) {
	if err := p.refresh(ctx); err != nil {
		p.log.Warn("initial feed refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.refresh(ctx); err != nil {
				p.log.Warn("feed refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *FeedPoller) refresh(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get(p.url)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("feed returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) < feedSeedLen {
		return ErrFeedTooShort
	}

	if err := p.store.SaveFeedSnapshot(ctx, body); err != nil {
		return fmt.Errorf("failed to store feed snapshot: %w", err)
	}

	p.log.Debug("feed snapshot refreshed", zap.Int("bytes", len(body)))
	return nil
}

// StoreFeedSource reads the snapshot the poller maintains.
type StoreFeedSource struct {
	store Store
}

func NewStoreFeedSource(store Store) *StoreFeedSource {
	return &StoreFeedSource{store: store}
}

func (s *StoreFeedSource) Snapshot(ctx context.Context) ([]byte, error) {
	return s.store.FeedSnapshot(ctx)
}
