package engine

import (
	"math/rand"

	"nse-option-sentry/pkg/types"
)

// SanityOutcome is the result of one sanity draw.
type SanityOutcome string

const (
	OutcomeTarget SanityOutcome = "TARGET"
	OutcomeStop   SanityOutcome = "STOP"
	OutcomeOpen   SanityOutcome = "OPEN"
)

// SanityDraw is a Monte-Carlo sanity mock, NOT a backtest: it takes a
// single normal draw centred on the signal's entry with scale
// (target - stop) / 4 and reports which side it would have hit. It is
// a plausibility check on the pricing bands and is deliberately kept
// out of the Evaluate path so evaluation stays deterministic.
func SanityDraw(sig types.StrategySignal, rng *rand.Rand) (float64, SanityOutcome) {
	entry, _ := sig.Entry.Float64()
	target, _ := sig.Target.Float64()
	stop, _ := sig.StopLoss.Float64()

	scale := (target - stop) / 4
	draw := rng.NormFloat64()*scale + entry

	switch {
	case draw >= target:
		return draw, OutcomeTarget
	case draw <= stop:
		return draw, OutcomeStop
	default:
		return draw, OutcomeOpen
	}
}
