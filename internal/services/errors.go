package services

import "errors"

// Every rejected operation surfaces one of these named conditions; none are
// retried internally.
var (
	ErrInvalidCategory     = errors.New("invalid lottery category")
	ErrInvalidTicketPrice  = errors.New("ticket price does not match category")
	ErrInvalidRoundState   = errors.New("invalid round state for operation")
	ErrRoundNotFound       = errors.New("round not found")
	ErrRoundExists         = errors.New("round already exists")
	ErrTreasuryNotFound    = errors.New("treasury not initialized")
	ErrSaleWindowOpen      = errors.New("sale window has not ended")
	ErrSaleWindowClosed    = errors.New("sale window has ended")
	ErrTicketLimit         = errors.New("ticket count outside purchase limit")
	ErrMinPoolNotReached   = errors.New("minimum pool amount not reached")
	ErrNotWinner           = errors.New("not a winning match")
	ErrPrizeAlreadyClaimed = errors.New("prize already claimed")
	ErrPrizeNotClaimed     = errors.New("prize has not been claimed")
	ErrClaimWindowExpired  = errors.New("claim window expired")
	ErrClaimWindowActive   = errors.New("claim window still active")

	ErrUnauthorized      = errors.New("unauthorized signer")
	ErrTimelockActive    = errors.New("treasury is timelocked")
	ErrInsufficientFunds = errors.New("insufficient treasury balance")

	ErrArithmetic   = errors.New("arithmetic overflow")
	ErrFeedTooShort = errors.New("entropy feed snapshot too short")
	ErrFeedMissing  = errors.New("entropy feed snapshot unavailable")
)
