package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lottery-settlement/internal/services"
)

// testClock is an injectable wall clock so guards on sale windows, claim
// windows and the withdrawal timelock can be exercised deterministically.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// harness wires the engine and treasury against the in-memory fakes.
type harness struct {
	clock    *testClock
	store    *services.MemoryStore
	ledger   *services.MemoryLedger
	treasury *services.TreasuryService
	engine   *services.LotteryEngine
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := newTestClock()
	store := services.NewMemoryStore()
	ledger := services.NewMemoryLedger()

	auth := services.NewStaticAuthorizer(map[string][]string{
		services.RoleTreasuryAuthority: {"alice"},
		services.RoleTreasuryCosigner:  {"bob", "carol"},
	})

	treasury := services.NewTreasuryService(services.TreasuryConfig{
		Store:  store,
		Ledger: ledger,
		Auth:   auth,
		Now:    clock.Now,
	})
	_, err := treasury.Init(context.Background(), 250, "alice")
	require.NoError(t, err)

	entropy := services.NewEntropyAdapter(&services.StaticFeed{
		Bytes: bytes.Repeat([]byte{0xab}, 32),
	})

	engine := services.NewLotteryEngine(services.EngineConfig{
		Store:    store,
		Ledger:   ledger,
		Treasury: treasury,
		Entropy:  entropy,
		Now:      clock.Now,
	})

	return &harness{
		clock:    clock,
		store:    store,
		ledger:   ledger,
		treasury: treasury,
		engine:   engine,
	}
}

func (h *harness) fund(t *testing.T, account string, amount uint64) {
	t.Helper()
	require.NoError(t, h.ledger.Deposit(context.Background(), account, amount))
}

func (h *harness) balance(t *testing.T, account string) uint64 {
	t.Helper()
	balance, err := h.ledger.Balance(context.Background(), account)
	require.NoError(t, err)
	return balance
}
