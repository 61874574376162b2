package signals

import (
	"math"

	"github.com/shopspring/decimal"
	"nse-option-sentry/pkg/types"
)

// Trade-management policy constants. These are fixed multipliers, not
// derived from volatility.
var (
	targetMultiplier   = decimal.NewFromFloat(2.1)
	stopLossMultiplier = decimal.NewFromFloat(0.7)

	bandLowCeiling = decimal.NewFromInt(50)
	bandMidCeiling = decimal.NewFromInt(150)
)

// minLivePremium is the lowest chain premium accepted as an entry;
// anything below it is treated as a stale or empty quote.
const minLivePremium = 1.0

// Quote is the entry/target/stop pricing for a selected contract.
// Always target > entry > stop loss.
type Quote struct {
	Entry    decimal.Decimal
	Target   decimal.Decimal
	StopLoss decimal.Decimal
}

// Price converts a selected strike and side into a quote. The entry is
// the live chain premium when present and at least one currency unit;
// otherwise a deterministic synthetic fallback of 40 + (last close mod
// 20) keeps the entry positive and plausible when live data is
// unavailable.
func Price(strike int, opt types.OptionType, chain types.PremiumChain, lastClose float64) Quote {
	entry := decimal.NewFromFloat(40 + math.Mod(lastClose, 20)).Round(2)

	if premium, ok := chainPremium(chain, strike, opt); ok && premium >= minLivePremium {
		entry = decimal.NewFromFloat(premium).Round(2)
	}

	return Quote{
		Entry:    entry,
		Target:   entry.Mul(targetMultiplier).Round(2),
		StopLoss: entry.Mul(stopLossMultiplier).Round(2),
	}
}

// Band buckets an entry premium: <=50 low, <=150 mid, above high.
func Band(entry decimal.Decimal) string {
	switch {
	case entry.LessThanOrEqual(bandLowCeiling):
		return types.BandLow
	case entry.LessThanOrEqual(bandMidCeiling):
		return types.BandMid
	default:
		return types.BandHigh
	}
}

func chainPremium(chain types.PremiumChain, strike int, opt types.OptionType) (float64, bool) {
	entry, ok := chain[strike]
	if !ok {
		return 0, false
	}
	side := entry.Call
	if opt == types.OptionPut {
		side = entry.Put
	}
	if side == nil {
		return 0, false
	}
	return *side, true
}
