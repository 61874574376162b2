package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nse-option-sentry/pkg/types"
)

func sampleBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	base := time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = types.Bar{
			Symbol:    "NIFTY",
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      22400,
			High:      22410,
			Low:       22390,
			Close:     22405,
			Volume:    100,
		}
	}
	return bars
}

func TestBarWindow(t *testing.T) {
	t.Run("empty snapshot", func(t *testing.T) {
		window := NewBarWindow()
		bars, at := window.Snapshot()
		assert.Nil(t, bars)
		assert.True(t, at.IsZero())
		assert.Zero(t, window.Length())
	})

	t.Run("replace stores a copy", func(t *testing.T) {
		window := NewBarWindow()
		original := sampleBars(3)
		window.Replace(original, time.Now())

		original[0].Close = 1

		bars, _ := window.Snapshot()
		require.Len(t, bars, 3)
		assert.Equal(t, 22405.0, bars[0].Close)
	})

	t.Run("snapshot returns a copy", func(t *testing.T) {
		window := NewBarWindow()
		window.Replace(sampleBars(3), time.Now())

		first, _ := window.Snapshot()
		first[1].Close = 1

		second, _ := window.Snapshot()
		assert.Equal(t, 22405.0, second[1].Close)
	})
}

func TestStateManagerMemoryOnly(t *testing.T) {
	manager := NewStateManager(types.RedisConfig{})

	t.Run("cold read", func(t *testing.T) {
		bars, at := manager.GetBars("NIFTY")
		assert.Nil(t, bars)
		assert.True(t, at.IsZero())
	})

	t.Run("store and read back", func(t *testing.T) {
		manager.StoreBars("NIFTY", sampleBars(5))
		bars, at := manager.GetBars("NIFTY")
		require.Len(t, bars, 5)
		assert.False(t, at.IsZero())
	})

	t.Run("empty store is ignored", func(t *testing.T) {
		manager.StoreBars("BANKNIFTY", nil)
		bars, _ := manager.GetBars("BANKNIFTY")
		assert.Nil(t, bars)
	})

	t.Run("replace swaps the window", func(t *testing.T) {
		manager.StoreBars("NIFTY", sampleBars(5))
		manager.StoreBars("NIFTY", sampleBars(2))
		bars, _ := manager.GetBars("NIFTY")
		assert.Len(t, bars, 2)
	})

	t.Run("symbols and stats", func(t *testing.T) {
		assert.Contains(t, manager.GetAllSymbols(), "NIFTY")

		stats := manager.Stats()
		assert.Equal(t, false, stats["redis_enabled"])
		assert.Equal(t, 1, stats["memory_symbols"])
	})
}
