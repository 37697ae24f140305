package models

// TreasuryAccount is the custody account the treasury record corresponds to.
const TreasuryAccount = "treasury"

// Treasury is the singleton record accumulating operator fees and swept
// unclaimed pools. Balance only moves through checked credit/debit; every
// withdrawal re-arms the timelock.
type Treasury struct {
	Balance            uint64 `json:"balance" redis:"balance"`
	FeeBps             uint64 `json:"fee_bps" redis:"fee_bps"`
	Authority          string `json:"authority" redis:"authority"`
	TotalFeesCollected uint64 `json:"total_fees_collected" redis:"total_fees_collected"`
	LastWithdrawal     int64  `json:"last_withdrawal" redis:"last_withdrawal"`
	TimeLocked         int64  `json:"time_locked" redis:"time_locked"`
}
