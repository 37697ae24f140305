package models

import "time"

type Category string

const (
	CategoryDaily   Category = "daily"
	CategoryWeekly  Category = "weekly"
	CategoryMonthly Category = "monthly"
)

// Categories lists every valid category in a stable order.
var Categories = []Category{CategoryDaily, CategoryWeekly, CategoryMonthly}

func (c Category) Valid() bool {
	switch c {
	case CategoryDaily, CategoryWeekly, CategoryMonthly:
		return true
	}
	return false
}

// TicketPrice returns the fixed ticket price for the category, in base units.
func (c Category) TicketPrice() uint64 {
	switch c {
	case CategoryDaily:
		return 1_000_000
	case CategoryWeekly:
		return 5_000_000
	case CategoryMonthly:
		return 10_000_000
	}
	return 0
}

// MinPool returns the minimum pool that must be collected before a draw
// may be scheduled.
func (c Category) MinPool() uint64 {
	switch c {
	case CategoryDaily:
		return 100_000_000
	case CategoryWeekly:
		return 500_000_000
	case CategoryMonthly:
		return 1_000_000_000
	}
	return 0
}

// Duration returns the length of the category's sale window.
func (c Category) Duration() time.Duration {
	switch c {
	case CategoryDaily:
		return 24 * time.Hour
	case CategoryWeekly:
		return 7 * 24 * time.Hour
	case CategoryMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

type RoundState string

const (
	RoundStateCreated   RoundState = "created"
	RoundStateOpen      RoundState = "open"
	RoundStateDrawing   RoundState = "drawing"
	RoundStateCompleted RoundState = "completed"
	RoundStateExpired   RoundState = "expired"
)

const WinningDigits = 6

// Round is the live record for one lottery category. Rounds are recycled in
// place rather than destroyed, so at most one exists per category.
type Round struct {
	ID       uint64     `json:"id" redis:"id"`
	Category Category   `json:"category" redis:"category"`
	State    RoundState `json:"state" redis:"state"`

	TicketPrice uint64 `json:"ticket_price" redis:"ticket_price"`
	MinPool     uint64 `json:"min_pool" redis:"min_pool"`

	StartTime         int64 `json:"start_time" redis:"start_time"`
	EndTime           int64 `json:"end_time" redis:"end_time"`
	LastDrawTimestamp int64 `json:"last_draw_timestamp" redis:"last_draw_timestamp"`

	TicketCount uint64 `json:"ticket_count" redis:"ticket_count"`
	PoolAmount  uint64 `json:"pool_amount" redis:"pool_amount"`

	WinningNumbers [WinningDigits]uint8 `json:"winning_numbers" redis:"winning_numbers"`
	PrizeAmount    uint64               `json:"prize_amount" redis:"prize_amount"`
	FeeAmount      uint64               `json:"fee_amount" redis:"fee_amount"`

	Winner       string `json:"winner,omitempty" redis:"winner"`
	PrizeClaimed bool   `json:"prize_claimed" redis:"prize_claimed"`
}

// PoolAccount names the custody account holding the round's pooled stake.
func (r *Round) PoolAccount() string {
	return "pool:" + string(r.Category)
}

// TicketPurchase records one buy_ticket operation, kept for auditing only;
// settlement never reads it back.
type TicketPurchase struct {
	ID       string   `json:"id" redis:"id"`
	Buyer    string   `json:"buyer" redis:"buyer"`
	Category Category `json:"category" redis:"category"`
	RoundID  uint64   `json:"round_id" redis:"round_id"`
	Count    uint64   `json:"count" redis:"count"`
	Cost     uint64   `json:"cost" redis:"cost"`
	BoughtAt int64    `json:"bought_at" redis:"bought_at"`
}
