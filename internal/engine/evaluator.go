package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/internal/engine/indicators"
	"nse-option-sentry/internal/engine/signals"
	"nse-option-sentry/internal/provider"
	"nse-option-sentry/pkg/types"
)

// Evaluator runs the full strategy roster for one instrument against
// an immutable snapshot of inputs captured at the top of the call. It
// holds no mutable state across calls; identical provider snapshots
// yield identical output.
type Evaluator struct {
	providers provider.Set
	markets   map[string]types.InstrumentSpec
	cfg       types.EngineConfig
	calc      *indicators.Calculator
	roster    []signals.Selector
}

// NewEvaluator builds an evaluator over the given providers and
// instrument roster. Zero-valued policy knobs fall back to the
// standard defaults.
func NewEvaluator(providers provider.Set, markets []types.InstrumentSpec, cfg types.EngineConfig) *Evaluator {
	if cfg.MinBars <= 0 {
		cfg.MinBars = 35
	}
	if cfg.VolumeWindow <= 0 {
		cfg.VolumeWindow = 20
	}
	if cfg.VolumeMultiplier <= 0 {
		cfg.VolumeMultiplier = 1.2
	}
	if cfg.BreakoutWindow <= 0 {
		cfg.BreakoutWindow = 20
	}
	if cfg.MinPremium <= 0 {
		cfg.MinPremium = 5.0
	}
	if cfg.ScreenConcurrency <= 0 {
		cfg.ScreenConcurrency = 4
	}

	index := make(map[string]types.InstrumentSpec, len(markets))
	for _, m := range markets {
		index[strings.ToUpper(m.Symbol)] = m
	}

	return &Evaluator{
		providers: providers,
		markets:   index,
		cfg:       cfg,
		calc:      indicators.NewCalculator(),
		roster:    signals.Roster(),
	}
}

// Evaluate runs every applicable strategy for one instrument and
// returns the produced rows in fixed roster order. Strategies whose
// preconditions are not met are silently skipped. Only configuration
// errors are returned; data absence yields an empty result.
func (e *Evaluator) Evaluate(ctx context.Context, instrument string, expiry time.Time, strikeType string) ([]types.StrategySignal, error) {
	spec, err := e.validate(instrument, expiry, strikeType)
	if err != nil {
		return nil, err
	}

	bars := e.providers.Bars.FetchBars(ctx, spec)
	if len(bars) < e.cfg.MinBars {
		zap.L().Debug("insufficient bar history",
			zap.String("instrument", spec.Symbol),
			zap.Int("bars", len(bars)),
			zap.Int("required", e.cfg.MinBars))
		return nil, nil
	}

	snapshots := e.calc.Compute(bars)
	if snapshots == nil {
		return nil, nil
	}

	latestBar := bars[len(bars)-1]
	latestSnap := snapshots[len(snapshots)-1]

	if !e.volumeConfirmed(bars) {
		zap.L().Debug("volume gate rejected snapshot",
			zap.String("instrument", spec.Symbol),
			zap.Float64("volume", latestBar.Volume))
		return nil, nil
	}

	oiChain := e.providers.OI.FetchOIChain(ctx, spec)
	premiums := e.providers.Premiums.FetchPremiumChain(ctx, spec)

	input := signals.SelectionInput{
		Direction:      signals.Classify(latestSnap, latestBar),
		ATM:            signals.ATMStrike(latestBar.Close, spec.StrikeStep),
		Step:           spec.StrikeStep,
		StrikeType:     strikeType,
		Levels:         signals.FindOILevels(oiChain),
		Premiums:       premiums,
		Bars:           bars,
		Snapshot:       latestSnap,
		BreakoutWindow: e.cfg.BreakoutWindow,
		MinPremium:     e.cfg.MinPremium,
	}

	var rows []types.StrategySignal
	for _, selector := range e.roster {
		selection, ok := selector.Select(input)
		if !ok {
			continue
		}

		quote := signals.Price(selection.Strike, selection.OptionType, premiums, latestBar.Close)
		rows = append(rows, types.StrategySignal{
			Instrument:      spec.Symbol,
			Label:           types.FormatLabel(spec.Symbol, selection.Direction, selection.Strike, selection.OptionType),
			Direction:       selection.Direction,
			Strike:          selection.Strike,
			OptionType:      selection.OptionType,
			Entry:           quote.Entry,
			Target:          quote.Target,
			StopLoss:        quote.StopLoss,
			Strategy:        selector.Name(),
			StrikeRationale: selection.Rationale,
			PremiumBand:     signals.Band(quote.Entry),
			Expiry:          expiry,
		})
	}
	return rows, nil
}

// validate rejects caller misuse before any data fetch is attempted.
func (e *Evaluator) validate(instrument string, expiry time.Time, strikeType string) (types.InstrumentSpec, error) {
	spec, ok := e.markets[strings.ToUpper(instrument)]
	if !ok {
		return spec, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrument)
	}
	if spec.StrikeStep <= 0 {
		return spec, fmt.Errorf("%w: %s has step %d", ErrInvalidStrikeStep, spec.Symbol, spec.StrikeStep)
	}
	switch strikeType {
	case types.StrikeATM, types.StrikeITM, types.StrikeOTM:
	default:
		return spec, fmt.Errorf("%w: %q", ErrInvalidStrikeType, strikeType)
	}
	// Same-day expiries are valid; compare calendar days in the
	// expiry's own location so the cutoff follows exchange time.
	now := time.Now().In(expiry.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, expiry.Location())
	if expiry.IsZero() || expiry.Before(today) {
		return spec, fmt.Errorf("%w: %s", ErrInvalidExpiry, expiry.Format("2006-01-02"))
	}
	return spec, nil
}

// volumeConfirmed is the instrument-wide liquidity gate: the latest
// bar's volume must reach the configured multiple of the rolling
// average over the bars before it.
func (e *Evaluator) volumeConfirmed(bars []types.Bar) bool {
	w := e.cfg.VolumeWindow
	if len(bars) < w+1 {
		return false
	}

	var sum float64
	for _, b := range bars[len(bars)-1-w : len(bars)-1] {
		sum += b.Volume
	}
	avg := sum / float64(w)
	if avg <= 0 {
		return false
	}
	return bars[len(bars)-1].Volume >= e.cfg.VolumeMultiplier*avg
}
