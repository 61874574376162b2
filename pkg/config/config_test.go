package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nse-option-sentry/pkg/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 35, cfg.Engine.MinBars)
	assert.Equal(t, 20, cfg.Engine.VolumeWindow)
	assert.Equal(t, 1.2, cfg.Engine.VolumeMultiplier)
	assert.Equal(t, 5.0, cfg.Engine.MinPremium)
	assert.Equal(t, 4, cfg.Engine.ScreenConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.Scan.Interval)
	assert.Equal(t, types.StrikeATM, cfg.Scan.StrikeType)
	assert.Equal(t, time.Thursday, cfg.Scan.ExpiryWeekday)
	assert.Equal(t, 30*time.Second, cfg.Network.Timeout)

	assert.NotEmpty(t, cfg.Watchlist)
	assert.NotEmpty(t, cfg.Markets)
}

func TestDefaultMarkets(t *testing.T) {
	markets := DefaultMarkets()
	require.NotEmpty(t, markets)

	bySymbol := make(map[string]types.InstrumentSpec, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
	}

	t.Run("indices quote on 50-point steps", func(t *testing.T) {
		for _, symbol := range []string{"NIFTY", "BANKNIFTY", "SENSEX"} {
			spec, ok := bySymbol[symbol]
			require.True(t, ok, symbol)
			assert.Equal(t, types.InstrumentIndex, spec.Kind)
			assert.Equal(t, 50, spec.StrikeStep)
		}
	})

	t.Run("index data symbols carry the quote prefix", func(t *testing.T) {
		assert.Equal(t, "^NSEI", bySymbol["NIFTY"].DataSymbol)
		assert.Equal(t, "^NSEBANK", bySymbol["BANKNIFTY"].DataSymbol)
		assert.Equal(t, "^BSESN", bySymbol["SENSEX"].DataSymbol)
	})

	t.Run("stocks quote on 10-point steps with NSE suffix", func(t *testing.T) {
		spec, ok := bySymbol["RELIANCE"]
		require.True(t, ok)
		assert.Equal(t, types.InstrumentStock, spec.Kind)
		assert.Equal(t, 10, spec.StrikeStep)
		assert.Equal(t, "RELIANCE.NS", spec.DataSymbol)
	})

	t.Run("no duplicate symbols", func(t *testing.T) {
		assert.Len(t, bySymbol, len(markets))
	})
}
