package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/pkg/types"
)

// ScreenResult pairs an instrument with one of its produced rows.
type ScreenResult struct {
	Instrument string
	Signal     types.StrategySignal
}

// Screen evaluates many instruments with a bounded worker pool and
// returns their rows in input order, stopping once limit instruments
// have produced at least one row. Outstanding in-flight evaluations
// complete rather than being aborted; their results are simply not
// taken past the limit. When strategy is non-empty, rows are filtered
// to that single strategy. limit <= 0 means no limit.
func (e *Evaluator) Screen(ctx context.Context, instruments []string, expiry time.Time, strategy, strikeType string, limit int) ([]ScreenResult, error) {
	if strategy != "" && !knownStrategy(strategy) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	for _, instrument := range instruments {
		if _, err := e.validate(instrument, expiry, strikeType); err != nil {
			return nil, err
		}
	}

	perInstrument := make([][]types.StrategySignal, len(instruments))
	var produced int64

	sem := make(chan struct{}, e.cfg.ScreenConcurrency)
	var wg sync.WaitGroup

	for i, instrument := range instruments {
		// Early exit: stop spawning once enough instruments hit.
		if limit > 0 && atomic.LoadInt64(&produced) >= int64(limit) {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(idx int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			rows, err := e.Evaluate(ctx, symbol, expiry, strikeType)
			if err != nil {
				// Already validated; only reachable on races with
				// caller-supplied context, so log and move on.
				zap.L().Warn("screen evaluation failed",
					zap.String("instrument", symbol), zap.Error(err))
				return
			}
			if strategy != "" {
				rows = filterStrategy(rows, strategy)
			}
			if len(rows) > 0 {
				perInstrument[idx] = rows
				atomic.AddInt64(&produced, 1)
			}
		}(i, instrument)
	}
	wg.Wait()

	var results []ScreenResult
	taken := 0
	for i, instrument := range instruments {
		rows := perInstrument[i]
		if len(rows) == 0 {
			continue
		}
		if limit > 0 && taken >= limit {
			break
		}
		taken++
		for _, row := range rows {
			results = append(results, ScreenResult{Instrument: instrument, Signal: row})
		}
	}
	return results, nil
}

func knownStrategy(name string) bool {
	switch name {
	case types.StrategySafe, types.StrategyMinInvestment, types.StrategyMaxProfit,
		types.StrategyBreakout, types.StrategyReversal:
		return true
	}
	return false
}

func filterStrategy(rows []types.StrategySignal, strategy string) []types.StrategySignal {
	var filtered []types.StrategySignal
	for _, row := range rows {
		if row.Strategy == strategy {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
