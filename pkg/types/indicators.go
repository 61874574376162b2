package types

// IndicatorSnapshot holds the derived values for one bar. Warm-up bars
// carry NaN for the indicators that are not yet defined; only the
// snapshot of the most recent bar drives decisions.
//
// VWAP is cumulative over the fetched window, not reset at session
// boundaries: "cumulative VWAP over the fetched window", not a true
// intraday VWAP.
type IndicatorSnapshot struct {
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	VWAP       float64 `json:"vwap"`
}
