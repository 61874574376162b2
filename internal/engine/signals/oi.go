package signals

import (
	"sort"

	"nse-option-sentry/pkg/types"
)

// FindOILevels reduces an open-interest chain to its support strike
// (maximum put OI) and resistance strike (maximum call OI). The two
// arg-max scans are independent, so support above resistance is a
// legitimate outcome. An empty chain, or a side with no open interest
// at all, yields an absent level.
//
// Strikes are scanned in ascending order with a strict comparison so
// ties resolve to the lowest strike, keeping evaluation deterministic.
func FindOILevels(chain types.OIChain) types.OILevels {
	var levels types.OILevels
	if len(chain) == 0 {
		return levels
	}

	strikes := make([]int, 0, len(chain))
	for strike := range chain {
		if strike > 0 {
			strikes = append(strikes, strike)
		}
	}
	sort.Ints(strikes)

	for _, strike := range strikes {
		entry := chain[strike]
		if entry.PutOI > levels.SupportOI {
			levels.SupportOI = entry.PutOI
			s := strike
			levels.SupportStrike = &s
		}
		if entry.CallOI > levels.ResistanceOI {
			levels.ResistanceOI = entry.CallOI
			s := strike
			levels.ResistanceStrike = &s
		}
	}
	return levels
}
