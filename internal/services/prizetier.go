package services

import "lottery-settlement/internal/models"

// Payout percentages per match count. Matches below 3 never win; the caller
// must reject those before asking for a payout.
var prizeTierPercent = map[int]uint64{
	6: 60,
	5: 25,
	4: 10,
	3: 5,
}

// TierPayout returns floor(pool * pct / 100) for the given match count. The
// multiply runs in a widened domain so it cannot wrap before the divide.
func TierPayout(matchCount int, pool uint64) (uint64, error) {
	pct, ok := prizeTierPercent[matchCount]
	if !ok {
		return 0, ErrNotWinner
	}
	return mulDiv(pool, pct, 100)
}

// CountMatches counts per-position equality between the claimant's digits
// and the drawn digits. Presence elsewhere in the sequence does not count.
func CountMatches(user, winning [models.WinningDigits]uint8) int {
	matches := 0
	for i := range user {
		if user[i] == winning[i] {
			matches++
		}
	}
	return matches
}
