package types

import "time"

// Bar is one OHLCV candle at the fixed 5-minute sampling interval.
// Bars are immutable once fetched; a series is ordered by strictly
// increasing timestamp.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// OIEntry is the open interest at one strike, per option side.
type OIEntry struct {
	CallOI int64 `json:"call_oi"`
	PutOI  int64 `json:"put_oi"`
}

// OIChain maps strike price to open interest. Snapshot, read-only
// within one evaluation.
type OIChain map[int]OIEntry

// PremiumEntry holds the last traded premium at one strike. A nil side
// means no quote was available for that side.
type PremiumEntry struct {
	Call *float64 `json:"call_premium"`
	Put  *float64 `json:"put_premium"`
}

// PremiumChain maps strike price to option premiums. Snapshot,
// read-only within one evaluation.
type PremiumChain map[int]PremiumEntry

// OILevels is the reduction of an OI chain to a support strike (max
// put OI) and resistance strike (max call OI). The two maxima are
// independent scans, so SupportStrike <= ResistanceStrike is NOT
// guaranteed. A nil strike means the chain was empty or malformed;
// callers must treat that as a first-class case, not an error.
type OILevels struct {
	SupportStrike    *int  `json:"support_strike"`
	ResistanceStrike *int  `json:"resistance_strike"`
	SupportOI        int64 `json:"support_oi"`
	ResistanceOI     int64 `json:"resistance_oi"`
}
