package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"lottery-settlement/internal/models"
)

// feedSeedLen is how much of the oracle snapshot is mixed into the digest.
const feedSeedLen = 24

// FeedSource supplies the latest oracle snapshot. The adapter only reads it;
// refreshing is the feed poller's job.
type FeedSource interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// DeriveWinningNumbers hashes the first 24 bytes of the feed snapshot with
// the little-endian encodings of the draw time and the monotonic draw
// counter, then reduces the first 6 digest bytes to decimal digits.
// Identical inputs always produce identical digits.
func DeriveWinningNumbers(snapshot []byte, drawTime int64, counter uint64) ([models.WinningDigits]uint8, error) {
	var digits [models.WinningDigits]uint8
	if len(snapshot) < feedSeedLen {
		return digits, ErrFeedTooShort
	}

	h := sha256.New()
	h.Write(snapshot[:feedSeedLen])

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(drawTime))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], counter)
	h.Write(buf[:])

	sum := h.Sum(nil)
	for i := 0; i < models.WinningDigits; i++ {
		digits[i] = sum[i] % 10
	}
	return digits, nil
}

// EntropyAdapter binds the pure derivation to its host-supplied inputs:
// the feed snapshot, the wall clock and the draw counter.
type EntropyAdapter struct {
	feed FeedSource
	now  func() time.Time
}

func NewEntropyAdapter(feed FeedSource) *EntropyAdapter {
	return &EntropyAdapter{feed: feed, now: time.Now}
}

func (a *EntropyAdapter) Draw(ctx context.Context, counter uint64) ([models.WinningDigits]uint8, error) {
	snapshot, err := a.feed.Snapshot(ctx)
	if err != nil {
		return [models.WinningDigits]uint8{}, err
	}
	return DeriveWinningNumbers(snapshot, a.now().Unix(), counter)
}
