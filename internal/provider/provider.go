package provider

import (
	"context"

	"nse-option-sentry/pkg/types"
)

// The three data-provider capabilities the evaluation core consumes.
// Every fetch returns an empty result on failure, never an error:
// network and data-source problems are absorbed at this boundary and
// presented as absent data, keeping the evaluator pure and total over
// its inputs.

// BarSeriesProvider supplies a recent trailing window of 5-minute
// bars, ordered oldest to newest.
type BarSeriesProvider interface {
	FetchBars(ctx context.Context, instrument types.InstrumentSpec) []types.Bar
}

// OIChainProvider supplies the per-strike open-interest snapshot.
type OIChainProvider interface {
	FetchOIChain(ctx context.Context, instrument types.InstrumentSpec) types.OIChain
}

// PremiumChainProvider supplies the per-strike premium snapshot.
type PremiumChainProvider interface {
	FetchPremiumChain(ctx context.Context, instrument types.InstrumentSpec) types.PremiumChain
}

// Set bundles the three providers an evaluator needs.
type Set struct {
	Bars     BarSeriesProvider
	OI       OIChainProvider
	Premiums PremiumChainProvider
}
