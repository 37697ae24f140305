package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"lottery-settlement/internal/models"
)

const (
	// WithdrawCooldown re-arms on every successful withdrawal, not on a
	// schedule, so even an authorized party cannot drain funds quickly.
	WithdrawCooldown = 24 * time.Hour

	feeBpsDenominator = 10_000
)

// Roles gating treasury withdrawal. Both must be present: the configured
// authority and an independent co-signer.
const (
	RoleTreasuryAuthority = "treasury:authority"
	RoleTreasuryCosigner  = "treasury:cosigner"
)

// Authorizer answers whether a principal holds a role. The identity layer
// behind it is the host's concern.
type Authorizer interface {
	IsAuthorized(principal, role string) bool
}

// TreasuryService owns the singleton treasury record: fee accrual, sweep
// credits and timelocked withdrawal. All access is serialized on one mutex
// since every round credits the same record.
type TreasuryService struct {
	mu        sync.Mutex
	store     Store
	ledger    ValueLedger
	auth      Authorizer
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

type TreasuryConfig struct {
	Store     Store
	Ledger    ValueLedger
	Auth      Authorizer
	Publisher EventPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewTreasuryService(cfg TreasuryConfig) *TreasuryService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &TreasuryService{
		store:     cfg.Store,
		ledger:    cfg.Ledger,
		auth:      cfg.Auth,
		publisher: cfg.Publisher,
		log:       log,
		now:       now,
	}
}

// Init creates the treasury record once; later calls return the existing
// record untouched.
func (t *TreasuryService) Init(ctx context.Context, feeBps uint64, authority string) (*models.Treasury, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	treasury, err := t.store.GetTreasury(ctx)
	if err != nil {
		return nil, err
	}
	if treasury != nil {
		return treasury, nil
	}

	treasury = &models.Treasury{
		FeeBps:    feeBps,
		Authority: authority,
	}
	if err := t.store.SaveTreasury(ctx, treasury); err != nil {
		return nil, err
	}

	t.log.Info("treasury initialized",
		zap.Uint64("fee_bps", feeBps),
		zap.String("authority", authority))
	return treasury, nil
}

func (t *TreasuryService) Get(ctx context.Context) (*models.Treasury, error) {
	treasury, err := t.store.GetTreasury(ctx)
	if err != nil {
		return nil, err
	}
	if treasury == nil {
		return nil, ErrTreasuryNotFound
	}
	return treasury, nil
}

// CollectFee skims fee_bps of amount into the treasury and returns the fee
// taken. Only overflow can fail it.
func (t *TreasuryService) CollectFee(ctx context.Context, amount uint64) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	treasury, err := t.Get(ctx)
	if err != nil {
		return 0, err
	}

	fee, err := mulDiv(amount, treasury.FeeBps, feeBpsDenominator)
	if err != nil {
		return 0, err
	}

	balance, err := checkedAdd(treasury.Balance, fee)
	if err != nil {
		return 0, err
	}
	total, err := checkedAdd(treasury.TotalFeesCollected, fee)
	if err != nil {
		return 0, err
	}

	treasury.Balance = balance
	treasury.TotalFeesCollected = total
	if err := t.store.SaveTreasury(ctx, treasury); err != nil {
		return 0, err
	}
	return fee, nil
}

// CreditSweep books a swept amount (draw fee remainder or an unclaimed
// pool) into the treasury balance. The matching custody transfer is the
// caller's responsibility and must already have succeeded.
func (t *TreasuryService) CreditSweep(ctx context.Context, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	treasury, err := t.Get(ctx)
	if err != nil {
		return err
	}

	balance, err := checkedAdd(treasury.Balance, amount)
	if err != nil {
		return err
	}
	total, err := checkedAdd(treasury.TotalFeesCollected, amount)
	if err != nil {
		return err
	}

	treasury.Balance = balance
	treasury.TotalFeesCollected = total
	return t.store.SaveTreasury(ctx, treasury)
}

// Withdraw debits the treasury after checking signer authorization, the
// timelock and the balance, in that order. The new balance is computed
// before the custody transfer; state commits only after the transfer
// succeeds, and every success re-arms the cooldown.
func (t *TreasuryService) Withdraw(ctx context.Context, amount uint64, principal, coSigner, destination string) (*models.Treasury, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	treasury, err := t.Get(ctx)
	if err != nil {
		return nil, err
	}

	if principal != treasury.Authority || !t.auth.IsAuthorized(principal, RoleTreasuryAuthority) {
		return nil, ErrUnauthorized
	}
	if coSigner == principal || !t.auth.IsAuthorized(coSigner, RoleTreasuryCosigner) {
		return nil, ErrUnauthorized
	}

	now := t.now().Unix()
	if now <= treasury.TimeLocked {
		return nil, ErrTimelockActive
	}
	if amount > treasury.Balance {
		return nil, ErrInsufficientFunds
	}

	balance, err := checkedSub(treasury.Balance, amount)
	if err != nil {
		return nil, err
	}

	if err := t.ledger.Transfer(ctx, models.TreasuryAccount, destination, amount); err != nil {
		return nil, err
	}

	treasury.Balance = balance
	treasury.LastWithdrawal = now
	treasury.TimeLocked = now + int64(WithdrawCooldown.Seconds())
	if err := t.store.SaveTreasury(ctx, treasury); err != nil {
		return nil, err
	}

	t.log.Info("treasury withdrawal",
		zap.Uint64("amount", amount),
		zap.String("authority", principal),
		zap.String("destination", destination))

	emitEvent(ctx, t.store, t.publisher, t.log, &models.Event{
		Type:      models.EventTreasuryWithdrawal,
		Timestamp: now,
		Amount:    amount,
		Authority: principal,
	})

	return treasury, nil
}
