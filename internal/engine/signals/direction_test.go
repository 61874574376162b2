package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"nse-option-sentry/pkg/types"
)

func snap(rsi, macd, signal, vwap float64) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{RSI: rsi, MACD: macd, MACDSignal: signal, VWAP: vwap}
}

func TestClassify(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name  string
		snap  types.IndicatorSnapshot
		close float64
		want  types.Direction
	}{
		{"oversold with momentum and price above vwap", snap(25, 1.2, 0.8, 98), 100, types.DirectionBuy},
		{"overbought with momentum and price below vwap", snap(72, -1.5, -0.9, 102), 100, types.DirectionSell},
		{"weak buy band", snap(42, 0.5, 0.1, 100), 100, types.DirectionWeakBuy},
		{"weak buy at lower bound", snap(40, 0.5, 0.1, 100), 100, types.DirectionWeakBuy},
		{"weak buy at upper bound", snap(45, 0.5, 0.1, 100), 100, types.DirectionWeakBuy},
		{"weak sell band", snap(57, -0.5, -0.1, 100), 100, types.DirectionWeakSell},
		{"weak sell at lower bound", snap(55, -0.5, -0.1, 100), 100, types.DirectionWeakSell},
		{"weak sell at upper bound", snap(60, -0.5, -0.1, 100), 100, types.DirectionWeakSell},
		{"oversold but below vwap", snap(25, 1.2, 0.8, 102), 100, types.DirectionNone},
		{"oversold but macd below signal", snap(25, 0.5, 0.8, 98), 100, types.DirectionNone},
		{"overbought but above vwap", snap(72, -1.5, -0.9, 98), 100, types.DirectionNone},
		{"neutral rsi", snap(50, 1.0, 0.5, 98), 100, types.DirectionNone},
		{"rsi between weak buy and weak sell bands", snap(48, 1.0, 0.5, 98), 100, types.DirectionNone},
		{"warm-up rsi", snap(nan, 1.0, 0.5, 98), 100, types.DirectionNone},
		{"warm-up macd", snap(25, nan, 0.5, 98), 100, types.DirectionNone},
		{"warm-up signal", snap(25, 1.0, nan, 98), 100, types.DirectionNone},
		{"warm-up vwap", snap(25, 1.0, 0.5, nan), 100, types.DirectionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.snap, types.Bar{Close: tt.close})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectionSides(t *testing.T) {
	assert.True(t, types.DirectionBuy.Bullish())
	assert.True(t, types.DirectionWeakBuy.Bullish())
	assert.True(t, types.DirectionSell.Bearish())
	assert.True(t, types.DirectionWeakSell.Bearish())
	assert.False(t, types.DirectionNone.Bullish())
	assert.False(t, types.DirectionNone.Bearish())
}
