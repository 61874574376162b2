package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nse-option-sentry/pkg/types"
)

func barsFromCloses(closes []float64, volume float64) []types.Bar {
	bars := make([]types.Bar, len(closes))
	base := time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.Bar{
			Symbol:    "NIFTY",
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      c,
			High:      c + 5,
			Low:       c - 5,
			Close:     c,
			Volume:    volume,
		}
	}
	return bars
}

func constantCloses(value float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = value
	}
	return closes
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	calc := NewCalculator()

	t.Run("too few bars", func(t *testing.T) {
		assert.Nil(t, calc.Compute(nil))
		assert.Nil(t, calc.Compute(barsFromCloses([]float64{100}, 10)))
	})

	t.Run("NaN close", func(t *testing.T) {
		bars := barsFromCloses(constantCloses(100, 40), 10)
		bars[17].Close = math.NaN()
		assert.Nil(t, calc.Compute(bars))
	})

	t.Run("non-positive price", func(t *testing.T) {
		bars := barsFromCloses(constantCloses(100, 40), 10)
		bars[3].Low = 0
		assert.Nil(t, calc.Compute(bars))
	})

	t.Run("negative volume", func(t *testing.T) {
		bars := barsFromCloses(constantCloses(100, 40), 10)
		bars[8].Volume = -1
		assert.Nil(t, calc.Compute(bars))
	})
}

func TestComputeWarmupBoundaries(t *testing.T) {
	calc := NewCalculator()
	bars := barsFromCloses(constantCloses(100, 40), 10)

	snaps := calc.Compute(bars)
	require.Len(t, snaps, 40)

	// RSI needs 14 prior deltas, MACD needs 26 closes, the signal line
	// another 8 MACD values on top of that.
	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(snaps[i].RSI), "RSI defined too early at %d", i)
	}
	assert.False(t, math.IsNaN(snaps[14].RSI))

	for i := 0; i < 25; i++ {
		assert.True(t, math.IsNaN(snaps[i].MACD), "MACD defined too early at %d", i)
	}
	assert.False(t, math.IsNaN(snaps[25].MACD))

	for i := 0; i < 33; i++ {
		assert.True(t, math.IsNaN(snaps[i].MACDSignal), "signal defined too early at %d", i)
	}
	assert.False(t, math.IsNaN(snaps[33].MACDSignal))

	// VWAP is defined from the first bar with volume.
	assert.False(t, math.IsNaN(snaps[0].VWAP))
}

func TestComputeRSI(t *testing.T) {
	calc := NewCalculator()

	t.Run("known series", func(t *testing.T) {
		closes := []float64{
			44.00, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10,
			45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28,
		}
		snaps := calc.Compute(barsFromCloses(closes, 10))
		require.Len(t, snaps, 15)
		assert.InDelta(t, 72.4409, snaps[14].RSI, 0.001)
	})

	t.Run("monotonic rise saturates at 100", func(t *testing.T) {
		closes := make([]float64, 20)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		snaps := calc.Compute(barsFromCloses(closes, 10))
		assert.Equal(t, 100.0, snaps[len(snaps)-1].RSI)
	})

	t.Run("bounded", func(t *testing.T) {
		closes := []float64{
			100, 103, 99, 105, 98, 104, 97, 106, 101, 95,
			108, 94, 102, 99, 103, 97, 105, 100, 96, 104,
		}
		snaps := calc.Compute(barsFromCloses(closes, 10))
		for i := 14; i < len(snaps); i++ {
			assert.GreaterOrEqual(t, snaps[i].RSI, 0.0)
			assert.LessOrEqual(t, snaps[i].RSI, 100.0)
		}
	})
}

func TestComputeMACD(t *testing.T) {
	calc := NewCalculator()

	t.Run("constant series is flat", func(t *testing.T) {
		snaps := calc.Compute(barsFromCloses(constantCloses(250, 40), 10))
		last := snaps[len(snaps)-1]
		assert.InDelta(t, 0.0, last.MACD, 1e-9)
		assert.InDelta(t, 0.0, last.MACDSignal, 1e-9)
	})

	t.Run("linear ramp converges to slope gap", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		snaps := calc.Compute(barsFromCloses(closes, 10))
		last := snaps[len(snaps)-1]
		// On a unit-slope ramp the 12/26 EMA gap settles at 7.
		assert.InDelta(t, 7.0, last.MACD, 0.001)
		assert.InDelta(t, 7.0, last.MACDSignal, 0.001)
	})
}

func TestComputeVWAP(t *testing.T) {
	calc := NewCalculator()

	t.Run("volume weighting", func(t *testing.T) {
		bars := []types.Bar{
			{Open: 10, High: 12, Low: 8, Close: 10, Volume: 100},
			{Open: 20, High: 22, Low: 18, Close: 20, Volume: 300},
		}
		snaps := calc.Compute(bars)
		require.Len(t, snaps, 2)
		assert.InDelta(t, 10.0, snaps[0].VWAP, 1e-9)
		assert.InDelta(t, 17.5, snaps[1].VWAP, 1e-9)
	})

	t.Run("constant price pins VWAP to price", func(t *testing.T) {
		snaps := calc.Compute(barsFromCloses(constantCloses(300, 10), 50))
		for _, snap := range snaps {
			assert.InDelta(t, 300.0, snap.VWAP, 1e-9)
		}
	})

	t.Run("cumulative window, not per-day reset", func(t *testing.T) {
		// Two bars a day apart still share one accumulation.
		bars := []types.Bar{
			{Timestamp: time.Date(2025, 6, 2, 15, 25, 0, 0, time.UTC), Open: 10, High: 12, Low: 8, Close: 10, Volume: 100},
			{Timestamp: time.Date(2025, 6, 3, 9, 15, 0, 0, time.UTC), Open: 20, High: 22, Low: 18, Close: 20, Volume: 100},
		}
		snaps := calc.Compute(bars)
		assert.InDelta(t, 15.0, snaps[1].VWAP, 1e-9)
	})

	t.Run("zero leading volume stays undefined", func(t *testing.T) {
		bars := barsFromCloses(constantCloses(100, 5), 0)
		snaps := calc.Compute(bars)
		require.Len(t, snaps, 5)
		assert.True(t, math.IsNaN(snaps[0].VWAP))
		assert.True(t, math.IsNaN(snaps[4].VWAP))
	})
}
