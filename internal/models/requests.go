package models

import "fmt"

const MaxTicketsPerPurchase = 5

type CreateRoundRequest struct {
	TicketPrice uint64 `json:"ticket_price"`
}

type BuyTicketsRequest struct {
	Count uint64 `json:"count" binding:"required"`
}

func (r *BuyTicketsRequest) Validate() error {
	if r.Count < 1 || r.Count > MaxTicketsPerPurchase {
		return fmt.Errorf("ticket count must be between 1 and %d", MaxTicketsPerPurchase)
	}
	return nil
}

type ClaimPrizeRequest struct {
	Numbers []uint8 `json:"numbers" binding:"required"`
}

func (r *ClaimPrizeRequest) Validate() error {
	if len(r.Numbers) != WinningDigits {
		return fmt.Errorf("exactly %d digits required", WinningDigits)
	}
	for i, n := range r.Numbers {
		if n > 9 {
			return fmt.Errorf("digit %d out of range: %d", i, n)
		}
	}
	return nil
}

// Digits copies the validated slice into the fixed-length form the engine
// works with.
func (r *ClaimPrizeRequest) Digits() [WinningDigits]uint8 {
	var out [WinningDigits]uint8
	copy(out[:], r.Numbers)
	return out
}

type WithdrawRequest struct {
	Amount        uint64 `json:"amount" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	CoSignerToken string `json:"co_signer_token" binding:"required"`
}

type ClaimPrizeResponse struct {
	RoundID    uint64 `json:"round_id"`
	Winner     string `json:"winner"`
	MatchCount int    `json:"match_count"`
	Payout     uint64 `json:"payout"`
}

type TokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
