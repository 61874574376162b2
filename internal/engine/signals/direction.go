package signals

import (
	"math"

	"nse-option-sentry/pkg/types"
)

// Classify maps the latest indicator snapshot and bar to a directional
// bias. The table is evaluated in order, first match wins:
//
//	RSI<40  and MACD>signal and Close>VWAP  -> BUY
//	RSI>60  and MACD<signal and Close<VWAP  -> SELL
//	40<=RSI<=45 and MACD>signal             -> WEAK_BUY
//	55<=RSI<=60 and MACD<signal             -> WEAK_SELL
//	otherwise                               -> NONE
//
// Warm-up snapshots (NaN in any input) classify as NONE.
func Classify(snap types.IndicatorSnapshot, latest types.Bar) types.Direction {
	if math.IsNaN(snap.RSI) || math.IsNaN(snap.MACD) ||
		math.IsNaN(snap.MACDSignal) || math.IsNaN(snap.VWAP) {
		return types.DirectionNone
	}

	switch {
	case snap.RSI < 40 && snap.MACD > snap.MACDSignal && latest.Close > snap.VWAP:
		return types.DirectionBuy
	case snap.RSI > 60 && snap.MACD < snap.MACDSignal && latest.Close < snap.VWAP:
		return types.DirectionSell
	case snap.RSI >= 40 && snap.RSI <= 45 && snap.MACD > snap.MACDSignal:
		return types.DirectionWeakBuy
	case snap.RSI >= 55 && snap.RSI <= 60 && snap.MACD < snap.MACDSignal:
		return types.DirectionWeakSell
	default:
		return types.DirectionNone
	}
}
