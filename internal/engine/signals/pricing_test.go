package signals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"nse-option-sentry/pkg/types"
)

func premiumChain(strike int, call, put float64) types.PremiumChain {
	return types.PremiumChain{
		strike: {Call: &call, Put: &put},
	}
}

func TestPrice(t *testing.T) {
	t.Run("live premium drives the quote", func(t *testing.T) {
		chain := premiumChain(22450, 62.5, 80.0)
		quote := Price(22450, types.OptionCall, chain, 22480)

		assert.Equal(t, "62.50", quote.Entry.StringFixed(2))
		assert.Equal(t, "131.25", quote.Target.StringFixed(2))
		assert.Equal(t, "43.75", quote.StopLoss.StringFixed(2))
	})

	t.Run("put side reads the put premium", func(t *testing.T) {
		chain := premiumChain(22450, 62.5, 80.0)
		quote := Price(22450, types.OptionPut, chain, 22480)
		assert.Equal(t, "80.00", quote.Entry.StringFixed(2))
	})

	t.Run("missing strike falls back to synthetic entry", func(t *testing.T) {
		quote := Price(22550, types.OptionCall, types.PremiumChain{}, 22487.35)
		// 40 + (22487.35 mod 20) = 47.35
		assert.Equal(t, "47.35", quote.Entry.StringFixed(2))
	})

	t.Run("sub-unit premium treated as stale", func(t *testing.T) {
		chain := premiumChain(22550, 0.05, 0.05)
		quote := Price(22550, types.OptionCall, chain, 22480)
		// 22480 mod 20 = 0, so the fallback floor applies.
		assert.Equal(t, "40.00", quote.Entry.StringFixed(2))
	})

	t.Run("premium of exactly one is live", func(t *testing.T) {
		chain := premiumChain(22550, 1.0, 1.0)
		quote := Price(22550, types.OptionCall, chain, 22480)
		assert.Equal(t, "1.00", quote.Entry.StringFixed(2))
	})

	t.Run("ordering invariant", func(t *testing.T) {
		for _, premium := range []float64{1.0, 7.77, 50, 149.99, 600} {
			chain := premiumChain(100, premium, premium)
			quote := Price(100, types.OptionCall, chain, 22480)
			assert.True(t, quote.StopLoss.LessThan(quote.Entry), "premium %v", premium)
			assert.True(t, quote.Entry.LessThan(quote.Target), "premium %v", premium)
		}
	})

	t.Run("two decimal rounding", func(t *testing.T) {
		chain := premiumChain(100, 33.333, 33.333)
		quote := Price(100, types.OptionCall, chain, 22480)
		assert.Equal(t, "33.33", quote.Entry.StringFixed(2))
		assert.Equal(t, "69.99", quote.Target.StringFixed(2))
		assert.Equal(t, "23.33", quote.StopLoss.StringFixed(2))
	})
}

func TestBand(t *testing.T) {
	tests := []struct {
		entry string
		want  string
	}{
		{"0.01", types.BandLow},
		{"50.00", types.BandLow},
		{"50.01", types.BandMid},
		{"150.00", types.BandMid},
		{"150.01", types.BandHigh},
		{"600.00", types.BandHigh},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			entry, err := decimal.NewFromString(tt.entry)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, Band(entry))
		})
	}
}
