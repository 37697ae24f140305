package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-settlement/internal/services"
)

func TestTierPayout(t *testing.T) {
	const prize = 90_000_000

	tests := []struct {
		matches int
		payout  uint64
	}{
		{6, 54_000_000},
		{5, 22_500_000},
		{4, 9_000_000},
		{3, 4_500_000},
	}

	for _, tt := range tests {
		payout, err := services.TierPayout(tt.matches, prize)
		require.NoError(t, err)
		assert.Equal(t, tt.payout, payout, "matches=%d", tt.matches)
	}
}

func TestTierPayoutFloorsDivision(t *testing.T) {
	// 1003 * 5 / 100 = 50.15, paid as 50.
	payout, err := services.TierPayout(3, 1003)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), payout)
}

func TestTierPayoutRejectsNonWinningCounts(t *testing.T) {
	for _, matches := range []int{0, 1, 2, 7, -1} {
		_, err := services.TierPayout(matches, 1_000_000)
		assert.ErrorIs(t, err, services.ErrNotWinner, "matches=%d", matches)
	}
}

func TestCountMatchesIsPositional(t *testing.T) {
	winning := [6]uint8{1, 2, 3, 4, 5, 6}

	assert.Equal(t, 6, services.CountMatches(winning, winning))
	assert.Equal(t, 4, services.CountMatches([6]uint8{1, 2, 3, 4, 9, 9}, winning))

	// Same digits, shifted one slot: presence elsewhere does not count.
	assert.Equal(t, 0, services.CountMatches([6]uint8{6, 1, 2, 3, 4, 5}, winning))
	assert.Equal(t, 0, services.CountMatches([6]uint8{9, 9, 9, 9, 9, 9}, winning))
}
