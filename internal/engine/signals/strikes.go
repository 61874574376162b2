package signals

import (
	"math"
	"sort"

	"nse-option-sentry/pkg/types"
)

// Strike rationale labels carried on output rows.
const (
	RationaleOISupport     = "OI Support"
	RationaleOIResistance  = "OI Resistance"
	RationaleDefault       = "Default"
	RationaleLowestPremium = "Lowest Premium"
	RationaleMomentum      = "Momentum"
	RationaleBreakout      = "Channel Breakout"
)

// SelectionInput carries everything a strike selector may consult for
// one evaluation. It is assembled once per instrument and read-only.
type SelectionInput struct {
	Direction  types.Direction // classifier output; NONE gates direction-led strategies
	ATM        int
	Step       int
	StrikeType string // ATM/ITM/OTM preference for the Safe fallback
	Levels     types.OILevels
	Premiums   types.PremiumChain
	Bars       []types.Bar
	Snapshot   types.IndicatorSnapshot // latest bar's snapshot

	BreakoutWindow int     // rolling high/low channel length
	MinPremium     float64 // Min Investment liquidity floor
}

// Selection is a chosen contract with the rationale for its strike.
type Selection struct {
	Direction  types.Direction
	Strike     int
	OptionType types.OptionType
	Rationale  string
}

// Selector picks a strike and option type for one strategy variant.
// Returning false means the strategy's preconditions are not met and
// it contributes no row; absence, not error.
type Selector interface {
	Name() string
	Select(in SelectionInput) (Selection, bool)
}

// Roster returns the strategy selectors in fixed output order.
func Roster() []Selector {
	return []Selector{
		safeSelector{},
		minInvestmentSelector{},
		maxProfitSelector{},
		breakoutSelector{},
		reversalSelector{},
	}
}

// ATMStrike rounds the last close to the instrument's quoting
// granularity.
func ATMStrike(lastClose float64, step int) int {
	return int(math.Round(lastClose/float64(step))) * step
}

// sideFor maps a directional bias to the long option side: bullish
// buys a call, bearish buys a put.
func sideFor(dir types.Direction) (types.OptionType, bool) {
	switch {
	case dir.Bullish():
		return types.OptionCall, true
	case dir.Bearish():
		return types.OptionPut, true
	default:
		return "", false
	}
}

// preferredStrike applies the caller's ATM/ITM/OTM preference to the
// default fallback strike. ITM shifts one step below ATM, OTM one step
// above, regardless of side.
func preferredStrike(in SelectionInput) int {
	switch in.StrikeType {
	case types.StrikeITM:
		return in.ATM - in.Step
	case types.StrikeOTM:
		return in.ATM + in.Step
	default:
		return in.ATM
	}
}

// safeSelector trades at the OI level backing the move: support for
// longs, resistance for shorts, falling back to the preferred default
// strike when no level is available.
type safeSelector struct{}

func (safeSelector) Name() string { return types.StrategySafe }

func (safeSelector) Select(in SelectionInput) (Selection, bool) {
	opt, ok := sideFor(in.Direction)
	if !ok {
		return Selection{}, false
	}

	if opt == types.OptionCall && in.Levels.SupportStrike != nil {
		return Selection{Direction: in.Direction, Strike: *in.Levels.SupportStrike, OptionType: opt, Rationale: RationaleOISupport}, true
	}
	if opt == types.OptionPut && in.Levels.ResistanceStrike != nil {
		return Selection{Direction: in.Direction, Strike: *in.Levels.ResistanceStrike, OptionType: opt, Rationale: RationaleOIResistance}, true
	}
	return Selection{Direction: in.Direction, Strike: preferredStrike(in), OptionType: opt, Rationale: RationaleDefault}, true
}

// minInvestmentSelector scans the whole chain for the cheapest premium
// above the liquidity floor on the direction-appropriate side, ties
// broken by the lowest strike.
type minInvestmentSelector struct{}

func (minInvestmentSelector) Name() string { return types.StrategyMinInvestment }

func (minInvestmentSelector) Select(in SelectionInput) (Selection, bool) {
	opt, ok := sideFor(in.Direction)
	if !ok {
		return Selection{}, false
	}

	strikes := make([]int, 0, len(in.Premiums))
	for strike := range in.Premiums {
		strikes = append(strikes, strike)
	}
	sort.Ints(strikes)

	best, bestPremium := 0, math.Inf(1)
	for _, strike := range strikes {
		premium, ok := chainPremium(in.Premiums, strike, opt)
		if !ok || premium <= in.MinPremium {
			continue
		}
		if premium < bestPremium {
			best, bestPremium = strike, premium
		}
	}
	if best == 0 {
		best = in.ATM
	}
	return Selection{Direction: in.Direction, Strike: best, OptionType: opt, Rationale: RationaleLowestPremium}, true
}

// maxProfitSelector goes one step out in the trade direction to
// maximise leverage.
type maxProfitSelector struct{}

func (maxProfitSelector) Name() string { return types.StrategyMaxProfit }

func (maxProfitSelector) Select(in SelectionInput) (Selection, bool) {
	opt, ok := sideFor(in.Direction)
	if !ok {
		return Selection{}, false
	}

	strike := in.ATM + in.Step
	if opt == types.OptionCall {
		strike = in.ATM - in.Step
	}
	return Selection{Direction: in.Direction, Strike: strike, OptionType: opt, Rationale: RationaleMomentum}, true
}

// breakoutSelector computes its own direction from a rolling high/low
// channel over the bars before the current one (no look-ahead), with
// MACD confirmation. It ignores the classifier's direction entirely.
type breakoutSelector struct{}

func (breakoutSelector) Name() string { return types.StrategyBreakout }

func (breakoutSelector) Select(in SelectionInput) (Selection, bool) {
	w := in.BreakoutWindow
	if w <= 0 || len(in.Bars) < w+1 {
		return Selection{}, false
	}
	if math.IsNaN(in.Snapshot.MACD) || math.IsNaN(in.Snapshot.MACDSignal) {
		return Selection{}, false
	}

	// Channel over the w bars ending at the bar before the current one.
	window := in.Bars[len(in.Bars)-1-w : len(in.Bars)-1]
	rollingHigh, rollingLow := window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > rollingHigh {
			rollingHigh = b.High
		}
		if b.Low < rollingLow {
			rollingLow = b.Low
		}
	}

	current := in.Bars[len(in.Bars)-1]
	switch {
	case current.Close > rollingHigh && in.Snapshot.MACD > in.Snapshot.MACDSignal:
		return Selection{Direction: types.DirectionBuy, Strike: in.ATM + in.Step, OptionType: types.OptionCall, Rationale: RationaleBreakout}, true
	case current.Close < rollingLow && in.Snapshot.MACD < in.Snapshot.MACDSignal:
		return Selection{Direction: types.DirectionSell, Strike: in.ATM - in.Step, OptionType: types.OptionPut, Rationale: RationaleBreakout}, true
	default:
		return Selection{}, false
	}
}

// reversalSelector fires only on oversold/overbought extremes with
// MACD agreement, trading at the OI level when one exists.
type reversalSelector struct{}

func (reversalSelector) Name() string { return types.StrategyReversal }

func (reversalSelector) Select(in SelectionInput) (Selection, bool) {
	snap := in.Snapshot
	if math.IsNaN(snap.RSI) || math.IsNaN(snap.MACD) || math.IsNaN(snap.MACDSignal) {
		return Selection{}, false
	}

	switch {
	case snap.RSI < 30 && snap.MACD > snap.MACDSignal:
		if in.Levels.SupportStrike != nil {
			return Selection{Direction: types.DirectionBuy, Strike: *in.Levels.SupportStrike, OptionType: types.OptionCall, Rationale: RationaleOISupport}, true
		}
		return Selection{Direction: types.DirectionBuy, Strike: in.ATM - in.Step, OptionType: types.OptionCall, Rationale: RationaleDefault}, true
	case snap.RSI > 70 && snap.MACD < snap.MACDSignal:
		if in.Levels.ResistanceStrike != nil {
			return Selection{Direction: types.DirectionSell, Strike: *in.Levels.ResistanceStrike, OptionType: types.OptionPut, Rationale: RationaleOIResistance}, true
		}
		return Selection{Direction: types.DirectionSell, Strike: in.ATM + in.Step, OptionType: types.OptionPut, Rationale: RationaleDefault}, true
	default:
		return Selection{}, false
	}
}
