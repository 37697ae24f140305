package services_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-settlement/internal/models"
	"lottery-settlement/internal/services"
)

// sellOut opens a daily round and sells exactly enough tickets to hit the
// 100,000,000 pool floor: 20 purchases of 5 at 1,000,000 each.
func (h *harness) sellOut(t *testing.T) *models.Round {
	t.Helper()
	ctx := context.Background()

	round, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)

	h.fund(t, "alice", 100_000_000)
	for i := 0; i < 20; i++ {
		round, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 5)
		require.NoError(t, err)
	}
	return round
}

// completeDraw drives a sold-out daily round through schedule and draw.
func (h *harness) completeDraw(t *testing.T) *models.Round {
	t.Helper()
	ctx := context.Background()

	h.sellOut(t)
	h.clock.Advance(24 * time.Hour)

	_, err := h.engine.ScheduleDraw(ctx, models.CategoryDaily)
	require.NoError(t, err)
	round, err := h.engine.ExecuteDraw(ctx, models.CategoryDaily)
	require.NoError(t, err)
	return round
}

// mismatch returns the winning digits with the first n positions altered.
func mismatch(winning [models.WinningDigits]uint8, n int) [models.WinningDigits]uint8 {
	out := winning
	for i := 0; i < n; i++ {
		out[i] = (out[i] + 1) % 10
	}
	return out
}

func TestCreateRound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.CreateRound(ctx, models.Category("yearly"), 0)
	assert.ErrorIs(t, err, services.ErrInvalidCategory)

	_, err = h.engine.CreateRound(ctx, models.CategoryDaily, 999)
	assert.ErrorIs(t, err, services.ErrInvalidTicketPrice)

	round, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RoundStateOpen, round.State)
	assert.Equal(t, uint64(1_000_000), round.TicketPrice)
	assert.Equal(t, uint64(100_000_000), round.MinPool)
	assert.Equal(t, round.StartTime+86_400, round.EndTime)
	assert.Zero(t, round.TicketCount)
	assert.Zero(t, round.PoolAmount)

	_, err = h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	assert.ErrorIs(t, err, services.ErrRoundExists)

	// Other categories run independently.
	weekly, err := h.engine.CreateRound(ctx, models.CategoryWeekly, 5_000_000)
	require.NoError(t, err)
	assert.Equal(t, weekly.StartTime+7*86_400, weekly.EndTime)
}

func TestBuyTickets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)
	h.fund(t, "alice", 10_000_000)

	for _, count := range []uint64{0, 6} {
		_, err := h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", count)
		assert.ErrorIs(t, err, services.ErrTicketLimit, "count=%d", count)
	}

	round, err := h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 5)
	require.NoError(t, err)
	round, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 3)
	require.NoError(t, err)

	assert.Equal(t, uint64(8), round.TicketCount)
	assert.Equal(t, round.TicketCount*round.TicketPrice, round.PoolAmount)
	assert.Equal(t, uint64(8_000_000), h.balance(t, round.PoolAccount()))
	assert.Equal(t, uint64(2_000_000), h.balance(t, "alice"))

	purchases, err := h.engine.ListPurchases(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, uint64(5_000_000), purchases[0].Cost)

	// A buyer without custody funds cannot enter.
	_, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "broke", 1)
	assert.ErrorIs(t, err, services.ErrInsufficientFunds)

	// Sales stop at the window boundary.
	h.clock.Advance(24 * time.Hour)
	_, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 1)
	assert.ErrorIs(t, err, services.ErrSaleWindowClosed)
}

func TestBuyTicketsPoolOverflow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)

	round.PoolAmount = math.MaxUint64 - 1
	require.NoError(t, h.store.SaveRound(ctx, round))

	h.fund(t, "alice", 10_000_000)
	_, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 5)
	assert.ErrorIs(t, err, services.ErrArithmetic)

	// Overflow is caught before any custody movement.
	assert.Equal(t, uint64(10_000_000), h.balance(t, "alice"))
}

func TestScheduleDrawGuards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)
	h.fund(t, "alice", 50_000_000)

	for i := 0; i < 5; i++ {
		_, err = h.engine.BuyTickets(ctx, models.CategoryDaily, "alice", 5)
		require.NoError(t, err)
	}

	// 25 tickets sold, window still open.
	_, err = h.engine.ScheduleDraw(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrSaleWindowOpen)

	// Window elapsed but the pool sits at 25,000,000, below the floor.
	h.clock.Advance(24 * time.Hour)
	_, err = h.engine.ScheduleDraw(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrMinPoolNotReached)
}

func TestScheduleDrawNoTickets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)

	h.clock.Advance(24 * time.Hour)
	_, err = h.engine.ScheduleDraw(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrMinPoolNotReached)
}

func TestExecuteDrawRequiresDrawingState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)

	_, err = h.engine.ExecuteDraw(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrInvalidRoundState)
}

func TestLotteryRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round := h.completeDraw(t)

	assert.Equal(t, models.RoundStateCompleted, round.State)
	assert.Equal(t, uint64(100), round.TicketCount)
	assert.Equal(t, uint64(100_000_000), round.PoolAmount)
	assert.Equal(t, uint64(90_000_000), round.PrizeAmount)
	assert.Equal(t, uint64(10_000_000), round.FeeAmount)
	for _, d := range round.WinningNumbers {
		assert.LessOrEqual(t, d, uint8(9))
	}

	// A full six-digit match pays 60% of the prize portion.
	claim, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", round.WinningNumbers)
	require.NoError(t, err)
	assert.Equal(t, 6, claim.MatchCount)
	assert.Equal(t, uint64(54_000_000), claim.Payout)
	assert.Equal(t, uint64(54_000_000), h.balance(t, "winner"))

	_, err = h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", round.WinningNumbers)
	assert.ErrorIs(t, err, services.ErrPrizeAlreadyClaimed)

	// Distribution sweeps the 10% fee portion and expires the round.
	round, err = h.engine.DistributePrize(ctx, models.CategoryDaily)
	require.NoError(t, err)
	assert.Equal(t, models.RoundStateExpired, round.State)
	assert.Equal(t, uint64(10_000_000), h.balance(t, models.TreasuryAccount))

	treasury, err := h.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), treasury.Balance)
	assert.Equal(t, uint64(10_000_000), treasury.TotalFeesCollected)

	events, err := h.engine.RecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, models.EventPrizeDistributed, events[0].Type)
	assert.Equal(t, models.EventPrizeClaimed, events[1].Type)
	assert.Equal(t, models.EventDrawExecuted, events[2].Type)
	assert.Equal(t, models.EventDrawScheduled, events[3].Type)
}

func TestClaimPrizeTiers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round := h.completeDraw(t)

	// Two matches is not a winning ticket.
	_, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "loser", mismatch(round.WinningNumbers, 4))
	assert.ErrorIs(t, err, services.ErrNotWinner)

	// Three matches takes the 5% tier of the 90,000,000 prize.
	claim, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", mismatch(round.WinningNumbers, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, claim.MatchCount)
	assert.Equal(t, uint64(4_500_000), claim.Payout)
}

func TestClaimWindowExpiry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round := h.completeDraw(t)

	// Still claimable at the boundary.
	h.clock.Advance(services.ClaimWindow)
	_, err := h.engine.RecycleUnclaimed(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrClaimWindowActive)

	h.clock.Advance(time.Second)
	_, err = h.engine.ClaimPrize(ctx, models.CategoryDaily, "late", round.WinningNumbers)
	assert.ErrorIs(t, err, services.ErrClaimWindowExpired)
}

func TestDistributeRequiresClaim(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.completeDraw(t)

	_, err := h.engine.DistributePrize(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrPrizeNotClaimed)
}

func TestRecycleUnclaimed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	drawn := h.completeDraw(t)
	h.clock.Advance(services.ClaimWindow + time.Second)

	round, err := h.engine.RecycleUnclaimed(ctx, models.CategoryDaily)
	require.NoError(t, err)

	// The whole pool moves to the treasury and the record reopens in place.
	assert.Equal(t, uint64(100_000_000), h.balance(t, models.TreasuryAccount))
	assert.Zero(t, h.balance(t, round.PoolAccount()))

	treasury, err := h.treasury.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), treasury.Balance)

	assert.Equal(t, models.RoundStateOpen, round.State)
	assert.Zero(t, round.TicketCount)
	assert.Zero(t, round.PoolAmount)
	assert.Zero(t, round.PrizeAmount)
	assert.Empty(t, round.Winner)
	assert.False(t, round.PrizeClaimed)
	assert.Equal(t, h.clock.Now().Unix(), round.StartTime)
	assert.Equal(t, h.clock.Now().Unix()+86_400, round.EndTime)

	// Drawn digits stay on the record for the audit trail.
	assert.Equal(t, drawn.WinningNumbers, round.WinningNumbers)

	// The reopened window sells tickets again.
	h.fund(t, "bob", 1_000_000)
	reopened, err := h.engine.BuyTickets(ctx, models.CategoryDaily, "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reopened.TicketCount)
}

func TestRecycleRejectsClaimedRound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round := h.completeDraw(t)
	_, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", round.WinningNumbers)
	require.NoError(t, err)

	h.clock.Advance(services.ClaimWindow + time.Second)
	_, err = h.engine.RecycleUnclaimed(ctx, models.CategoryDaily)
	assert.ErrorIs(t, err, services.ErrPrizeAlreadyClaimed)
}

func TestClaimTransferFailureLeavesRoundClaimable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	round := h.completeDraw(t)

	h.ledger.FailTransfers = true
	_, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", round.WinningNumbers)
	require.Error(t, err)

	stored, err := h.engine.GetRound(ctx, models.CategoryDaily)
	require.NoError(t, err)
	assert.False(t, stored.PrizeClaimed)
	assert.Empty(t, stored.Winner)

	h.ledger.FailTransfers = false
	claim, err := h.engine.ClaimPrize(ctx, models.CategoryDaily, "winner", round.WinningNumbers)
	require.NoError(t, err)
	assert.Equal(t, uint64(54_000_000), claim.Payout)
}

func TestListRounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rounds, err := h.engine.ListRounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, rounds)

	_, err = h.engine.CreateRound(ctx, models.CategoryDaily, 0)
	require.NoError(t, err)
	_, err = h.engine.CreateRound(ctx, models.CategoryMonthly, 0)
	require.NoError(t, err)

	rounds, err = h.engine.ListRounds(ctx)
	require.NoError(t, err)
	assert.Len(t, rounds, 2)

	_, err = h.engine.GetRound(ctx, models.Category("yearly"))
	assert.ErrorIs(t, err, services.ErrInvalidCategory)
	_, err = h.engine.GetRound(ctx, models.CategoryWeekly)
	assert.ErrorIs(t, err, services.ErrRoundNotFound)
}
