package provider

import (
	"context"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/internal/storage"
	"nse-option-sentry/pkg/types"
)

// CachedBarProvider reads through an inner bar provider and keeps the
// last good window in the state manager. When a live fetch comes back
// empty it serves the cached window instead, as long as the cache is
// still reasonably fresh.
type CachedBarProvider struct {
	inner  BarSeriesProvider
	state  *storage.StateManager
	maxAge time.Duration
}

func NewCachedBarProvider(inner BarSeriesProvider, state *storage.StateManager, maxAge time.Duration) *CachedBarProvider {
	if maxAge <= 0 {
		maxAge = 15 * time.Minute
	}
	return &CachedBarProvider{inner: inner, state: state, maxAge: maxAge}
}

// FetchBars implements BarSeriesProvider.
func (p *CachedBarProvider) FetchBars(ctx context.Context, instrument types.InstrumentSpec) []types.Bar {
	bars := p.inner.FetchBars(ctx, instrument)
	if len(bars) > 0 {
		p.state.StoreBars(instrument.Symbol, bars)
		return bars
	}

	cached, fetchedAt := p.state.GetBars(instrument.Symbol)
	if len(cached) == 0 || time.Since(fetchedAt) > p.maxAge {
		return nil
	}

	zap.L().Info("serving cached bar window",
		zap.String("symbol", instrument.Symbol),
		zap.Time("fetched_at", fetchedAt))
	return cached
}
