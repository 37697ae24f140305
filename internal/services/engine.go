package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"lottery-settlement/internal/models"
)

const (
	// ClaimWindow bounds how long after a draw the winner may claim.
	ClaimWindow = 14 * 24 * time.Hour

	// drawPrizePercent is the flat draw-time cut of the pool designated as
	// prize money; the remainder is the operator fee. Independent of the
	// per-claim tier table, which slices the prize portion again.
	drawPrizePercent = 90
)

// LotteryEngine owns the per-category round records and enforces the legal
// lifecycle: Open → Drawing → Completed → claimed/Expired or recycled back
// to a fresh sale window. Each operation locks its category for its whole
// duration, computes every derived amount from a read-only snapshot, makes
// at most one custody transfer, and only then commits state.
type LotteryEngine struct {
	store     Store
	ledger    ValueLedger
	treasury  *TreasuryService
	entropy   *EntropyAdapter
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time

	locks map[models.Category]*sync.Mutex
}

type EngineConfig struct {
	Store     Store
	Ledger    ValueLedger
	Treasury  *TreasuryService
	Entropy   *EntropyAdapter
	Publisher EventPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewLotteryEngine(cfg EngineConfig) *LotteryEngine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	locks := make(map[models.Category]*sync.Mutex, len(models.Categories))
	for _, category := range models.Categories {
		locks[category] = &sync.Mutex{}
	}

	return &LotteryEngine{
		store:     cfg.Store,
		ledger:    cfg.Ledger,
		treasury:  cfg.Treasury,
		entropy:   cfg.Entropy,
		publisher: cfg.Publisher,
		log:       log,
		now:       now,
		locks:     locks,
	}
}

func (e *LotteryEngine) lock(category models.Category) func() {
	mu := e.locks[category]
	mu.Lock()
	return mu.Unlock
}

// CreateRound initializes the live round for a category and opens ticket
// sales. A non-zero ticketPrice must match the category's fixed price.
func (e *LotteryEngine) CreateRound(ctx context.Context, category models.Category, ticketPrice uint64) (*models.Round, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if ticketPrice != 0 && ticketPrice != category.TicketPrice() {
		return nil, ErrInvalidTicketPrice
	}

	defer e.lock(category)()

	if _, err := e.store.GetRound(ctx, category); err == nil {
		return nil, ErrRoundExists
	} else if !errors.Is(err, ErrRoundNotFound) {
		return nil, err
	}

	now := e.now().Unix()
	round := &models.Round{
		ID:          uint64(now),
		Category:    category,
		State:       models.RoundStateOpen,
		TicketPrice: category.TicketPrice(),
		MinPool:     category.MinPool(),
		StartTime:   now,
		EndTime:     now + int64(category.Duration().Seconds()),
	}

	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	e.log.Info("round created",
		zap.String("category", string(category)),
		zap.Uint64("round_id", round.ID),
		zap.Int64("end_time", round.EndTime))

	return round, nil
}

// BuyTickets sells 1..5 tickets into the open round. The buyer's stake is
// moved into the pool custody account before the round record is touched.
func (e *LotteryEngine) BuyTickets(ctx context.Context, category models.Category, buyer string, count uint64) (*models.Round, error) {
	if count < 1 || count > models.MaxTicketsPerPurchase {
		return nil, ErrTicketLimit
	}

	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateOpen {
		return nil, ErrInvalidRoundState
	}
	if e.now().Unix() >= round.EndTime {
		return nil, ErrSaleWindowClosed
	}

	cost, err := mulDiv(round.TicketPrice, count, 1)
	if err != nil {
		return nil, err
	}
	tickets, err := checkedAdd(round.TicketCount, count)
	if err != nil {
		return nil, err
	}
	pool, err := checkedAdd(round.PoolAmount, cost)
	if err != nil {
		return nil, err
	}

	if err := e.ledger.Transfer(ctx, buyer, round.PoolAccount(), cost); err != nil {
		return nil, err
	}

	round.TicketCount = tickets
	round.PoolAmount = pool
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	purchase := &models.TicketPurchase{
		ID:       models.GeneratePurchaseID(),
		Buyer:    buyer,
		Category: category,
		RoundID:  round.ID,
		Count:    count,
		Cost:     cost,
		BoughtAt: e.now().Unix(),
	}
	if err := e.store.SavePurchase(ctx, purchase); err != nil {
		e.log.Warn("failed to record ticket purchase", zap.Error(err))
	}

	e.log.Info("tickets sold",
		zap.String("category", string(category)),
		zap.String("buyer", buyer),
		zap.Uint64("count", count),
		zap.Uint64("pool", round.PoolAmount))

	return round, nil
}

// ScheduleDraw freezes the pool once the sale window has elapsed and both
// participation guards hold: at least one ticket sold and the monetary
// floor met.
func (e *LotteryEngine) ScheduleDraw(ctx context.Context, category models.Category) (*models.Round, error) {
	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateOpen {
		return nil, ErrInvalidRoundState
	}

	now := e.now().Unix()
	if now < round.EndTime {
		return nil, ErrSaleWindowOpen
	}
	if round.TicketCount == 0 {
		return nil, ErrMinPoolNotReached
	}
	if round.PoolAmount < round.MinPool {
		return nil, ErrMinPoolNotReached
	}

	round.State = models.RoundStateDrawing
	round.LastDrawTimestamp = now
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	emitEvent(ctx, e.store, e.publisher, e.log, &models.Event{
		Type:           models.EventDrawScheduled,
		Timestamp:      now,
		Category:       category,
		RoundID:        round.ID,
		TotalTickets:   round.TicketCount,
		MinPoolReached: true,
	})

	return round, nil
}

// ExecuteDraw consumes the entropy adapter, fixes the winning digits and
// splits the frozen pool 90/10 into prize and fee portions. A round leaves
// Drawing immediately, so the draw can run at most once per episode.
func (e *LotteryEngine) ExecuteDraw(ctx context.Context, category models.Category) (*models.Round, error) {
	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateDrawing {
		return nil, ErrInvalidRoundState
	}

	counter, err := e.store.NextDrawCounter(ctx)
	if err != nil {
		return nil, err
	}
	digits, err := e.entropy.Draw(ctx, counter)
	if err != nil {
		return nil, err
	}

	prize, err := mulDiv(round.PoolAmount, drawPrizePercent, 100)
	if err != nil {
		return nil, err
	}
	fee, err := checkedSub(round.PoolAmount, prize)
	if err != nil {
		return nil, err
	}

	now := e.now().Unix()
	round.WinningNumbers = digits
	round.PrizeAmount = prize
	round.FeeAmount = fee
	round.State = models.RoundStateCompleted
	round.LastDrawTimestamp = now
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	e.log.Info("draw executed",
		zap.String("category", string(category)),
		zap.Uint64("round_id", round.ID),
		zap.Uint8s("winning_numbers", digits[:]),
		zap.Uint64("prize_amount", prize),
		zap.Uint64("fee_amount", fee))

	emitEvent(ctx, e.store, e.publisher, e.log, &models.Event{
		Type:           models.EventDrawExecuted,
		Timestamp:      now,
		Category:       category,
		RoundID:        round.ID,
		WinningNumbers: digits[:],
	})

	return round, nil
}

// ClaimPrize validates the claimant's digits against the drawn numbers and
// pays the tiered cut of the prize portion. The payout transfer happens
// before the claim flag flips, so a failed transfer leaves the round
// claimable and a committed claim can never pay twice.
func (e *LotteryEngine) ClaimPrize(ctx context.Context, category models.Category, claimant string, numbers [models.WinningDigits]uint8) (*models.ClaimPrizeResponse, error) {
	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateCompleted {
		return nil, ErrInvalidRoundState
	}
	if round.PrizeClaimed {
		return nil, ErrPrizeAlreadyClaimed
	}
	if e.now().Unix() > round.LastDrawTimestamp+int64(ClaimWindow.Seconds()) {
		return nil, ErrClaimWindowExpired
	}

	matchCount := CountMatches(numbers, round.WinningNumbers)
	if matchCount < 3 {
		return nil, ErrNotWinner
	}

	payout, err := TierPayout(matchCount, round.PrizeAmount)
	if err != nil {
		return nil, err
	}

	if err := e.ledger.Transfer(ctx, round.PoolAccount(), claimant, payout); err != nil {
		return nil, err
	}

	round.PrizeClaimed = true
	round.Winner = claimant
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	now := e.now().Unix()
	e.log.Info("prize claimed",
		zap.String("category", string(category)),
		zap.String("winner", claimant),
		zap.Int("match_count", matchCount),
		zap.Uint64("payout", payout))

	emitEvent(ctx, e.store, e.publisher, e.log, &models.Event{
		Type:       models.EventPrizeClaimed,
		Timestamp:  now,
		Category:   category,
		RoundID:    round.ID,
		Amount:     payout,
		Winner:     claimant,
		MatchCount: matchCount,
	})

	return &models.ClaimPrizeResponse{
		RoundID:    round.ID,
		Winner:     claimant,
		MatchCount: matchCount,
		Payout:     payout,
	}, nil
}

// DistributePrize sweeps the fee portion of a claimed round into the
// treasury and expires the round.
func (e *LotteryEngine) DistributePrize(ctx context.Context, category models.Category) (*models.Round, error) {
	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateCompleted {
		return nil, ErrInvalidRoundState
	}
	if !round.PrizeClaimed {
		return nil, ErrPrizeNotClaimed
	}

	remaining, err := checkedSub(round.PoolAmount, round.PrizeAmount)
	if err != nil {
		return nil, err
	}

	if err := e.ledger.Transfer(ctx, round.PoolAccount(), models.TreasuryAccount, remaining); err != nil {
		return nil, err
	}
	if err := e.treasury.CreditSweep(ctx, remaining); err != nil {
		return nil, err
	}

	round.State = models.RoundStateExpired
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	now := e.now().Unix()
	e.log.Info("prize distributed",
		zap.String("category", string(category)),
		zap.Uint64("round_id", round.ID),
		zap.Uint64("swept", remaining))

	emitEvent(ctx, e.store, e.publisher, e.log, &models.Event{
		Type:      models.EventPrizeDistributed,
		Timestamp: now,
		Category:  category,
		RoundID:   round.ID,
		Amount:    remaining,
	})

	return round, nil
}

// RecycleUnclaimed sweeps the entire pool of a round nobody claimed within
// the window into the treasury, then resets the record in place with a
// fresh sale window. Winning numbers stay on the record for the audit
// trail; everything else zeroes.
func (e *LotteryEngine) RecycleUnclaimed(ctx context.Context, category models.Category) (*models.Round, error) {
	defer e.lock(category)()

	round, err := e.store.GetRound(ctx, category)
	if err != nil {
		return nil, err
	}
	if round.State != models.RoundStateCompleted {
		return nil, ErrInvalidRoundState
	}
	if round.PrizeClaimed {
		return nil, ErrPrizeAlreadyClaimed
	}

	now := e.now().Unix()
	if now <= round.LastDrawTimestamp+int64(ClaimWindow.Seconds()) {
		return nil, ErrClaimWindowActive
	}

	unclaimed := round.PoolAmount

	if err := e.ledger.Transfer(ctx, round.PoolAccount(), models.TreasuryAccount, unclaimed); err != nil {
		return nil, err
	}
	if err := e.treasury.CreditSweep(ctx, unclaimed); err != nil {
		return nil, err
	}

	round.State = models.RoundStateOpen
	round.TicketCount = 0
	round.PoolAmount = 0
	round.PrizeAmount = 0
	round.FeeAmount = 0
	round.Winner = ""
	round.PrizeClaimed = false
	round.StartTime = now
	round.EndTime = now + int64(category.Duration().Seconds())
	if err := e.store.SaveRound(ctx, round); err != nil {
		return nil, err
	}

	e.log.Info("round recycled",
		zap.String("category", string(category)),
		zap.Uint64("round_id", round.ID),
		zap.Uint64("unclaimed", unclaimed),
		zap.Int64("new_end_time", round.EndTime))

	emitEvent(ctx, e.store, e.publisher, e.log, &models.Event{
		Type:       models.EventLotteryRecycled,
		Timestamp:  now,
		Category:   category,
		RoundID:    round.ID,
		Amount:     unclaimed,
		NewEndTime: round.EndTime,
	})

	return round, nil
}

func (e *LotteryEngine) GetRound(ctx context.Context, category models.Category) (*models.Round, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	return e.store.GetRound(ctx, category)
}

// ListRounds returns the live round of every category that has one.
func (e *LotteryEngine) ListRounds(ctx context.Context) ([]*models.Round, error) {
	rounds := make([]*models.Round, 0, len(models.Categories))
	for _, category := range models.Categories {
		round, err := e.store.GetRound(ctx, category)
		if errors.Is(err, ErrRoundNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

func (e *LotteryEngine) ListPurchases(ctx context.Context, buyer string, limit int64) ([]*models.TicketPurchase, error) {
	return e.store.ListPurchases(ctx, buyer, limit)
}

func (e *LotteryEngine) RecentEvents(ctx context.Context, limit int64) ([]*models.Event, error) {
	return e.store.RecentEvents(ctx, limit)
}
