package models

type EventType string

const (
	EventDrawScheduled      EventType = "draw_scheduled"
	EventDrawExecuted       EventType = "draw_executed"
	EventPrizeClaimed       EventType = "prize_claimed"
	EventPrizeDistributed   EventType = "prize_distributed"
	EventLotteryRecycled    EventType = "lottery_recycled"
	EventTreasuryWithdrawal EventType = "treasury_withdrawal"
)

// Event is an emitted audit record for a state transition. Events are
// appended to the event log and pushed to websocket subscribers; nothing in
// the settlement path consumes them.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`

	Category Category `json:"category,omitempty"`
	RoundID  uint64   `json:"round_id,omitempty"`
	Amount   uint64   `json:"amount,omitempty"`

	WinningNumbers []uint8 `json:"winning_numbers,omitempty"`
	Winner         string  `json:"winner,omitempty"`
	MatchCount     int     `json:"match_count,omitempty"`

	TotalTickets   uint64 `json:"total_tickets,omitempty"`
	MinPoolReached bool   `json:"min_pool_reached,omitempty"`
	NewEndTime     int64  `json:"new_end_time,omitempty"`

	Authority string `json:"authority,omitempty"`
}
