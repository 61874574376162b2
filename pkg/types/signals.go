package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the directional bias derived from the latest indicator
// snapshot, or computed independently by the Breakout/Reversal
// strategies.
type Direction string

const (
	DirectionBuy      Direction = "BUY"
	DirectionSell     Direction = "SELL"
	DirectionWeakBuy  Direction = "WEAK_BUY"
	DirectionWeakSell Direction = "WEAK_SELL"
	DirectionNone     Direction = "NONE"
)

// Bullish reports whether the direction calls for buying a call (CE).
func (d Direction) Bullish() bool {
	return d == DirectionBuy || d == DirectionWeakBuy
}

// Bearish reports whether the direction calls for buying a put (PE).
func (d Direction) Bearish() bool {
	return d == DirectionSell || d == DirectionWeakSell
}

// OptionType is the option contract side (CE/PE in NSE terms).
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Strategy roster, in fixed output order.
const (
	StrategySafe          = "Safe"
	StrategyMinInvestment = "Min Investment"
	StrategyMaxProfit     = "Max Profit"
	StrategyBreakout      = "Breakout"
	StrategyReversal      = "Reversal"
)

// Premium bands, bucketed on the entry premium.
const (
	BandLow  = "low"  // entry <= 50
	BandMid  = "mid"  // 50 < entry <= 150
	BandHigh = "high" // entry > 150
)

// StrikeType is the caller's strike preference. It only adjusts the
// Safe strategy's fallback strike when no OI level is available.
const (
	StrikeATM = "ATM"
	StrikeITM = "ITM"
	StrikeOTM = "OTM"
)

// StrategySignal is one output row of an evaluation. Created fresh per
// evaluation call and never mutated afterwards; the caller owns
// persistence and display.
type StrategySignal struct {
	Instrument      string          `json:"instrument"`
	Label           string          `json:"label"` // "NIFTY BUY 22450 CALL"
	Direction       Direction       `json:"direction"`
	Strike          int             `json:"strike"`
	OptionType      OptionType      `json:"option_type"`
	Entry           decimal.Decimal `json:"entry"`
	Target          decimal.Decimal `json:"target"`
	StopLoss        decimal.Decimal `json:"stop_loss"`
	Strategy        string          `json:"strategy"`
	StrikeRationale string          `json:"strike_rationale"`
	PremiumBand     string          `json:"premium_band"`
	Expiry          time.Time       `json:"expiry"`
}

// FormatLabel builds the human-readable signal label.
func FormatLabel(instrument string, dir Direction, strike int, opt OptionType) string {
	return fmt.Sprintf("%s %s %d %s", instrument, dir, strike, opt)
}
