package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-settlement/internal/models"
)

func TestCategoryConstants(t *testing.T) {
	tests := []struct {
		category models.Category
		price    uint64
		minPool  uint64
		duration time.Duration
	}{
		{models.CategoryDaily, 1_000_000, 100_000_000, 24 * time.Hour},
		{models.CategoryWeekly, 5_000_000, 500_000_000, 7 * 24 * time.Hour},
		{models.CategoryMonthly, 10_000_000, 1_000_000_000, 30 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.True(t, tt.category.Valid())
			assert.Equal(t, tt.price, tt.category.TicketPrice())
			assert.Equal(t, tt.minPool, tt.category.MinPool())
			assert.Equal(t, tt.duration, tt.category.Duration())
		})
	}

	assert.False(t, models.Category("yearly").Valid())
	assert.Zero(t, models.Category("yearly").TicketPrice())
}

func TestBuyTicketsRequestValidate(t *testing.T) {
	for _, count := range []uint64{1, 2, 5} {
		req := &models.BuyTicketsRequest{Count: count}
		assert.NoError(t, req.Validate())
	}
	for _, count := range []uint64{0, 6, 100} {
		req := &models.BuyTicketsRequest{Count: count}
		assert.Error(t, req.Validate())
	}
}

func TestClaimPrizeRequestValidate(t *testing.T) {
	req := &models.ClaimPrizeRequest{Numbers: []uint8{0, 1, 2, 3, 4, 9}}
	require.NoError(t, req.Validate())
	assert.Equal(t, [6]uint8{0, 1, 2, 3, 4, 9}, req.Digits())

	tooFew := &models.ClaimPrizeRequest{Numbers: []uint8{1, 2, 3}}
	assert.Error(t, tooFew.Validate())

	outOfRange := &models.ClaimPrizeRequest{Numbers: []uint8{1, 2, 3, 4, 5, 10}}
	assert.Error(t, outOfRange.Validate())
}

func TestRoundPoolAccount(t *testing.T) {
	round := &models.Round{Category: models.CategoryDaily}
	assert.Equal(t, "pool:daily", round.PoolAccount())
}
