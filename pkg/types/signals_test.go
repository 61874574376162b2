package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "NIFTY BUY 22450 CALL", FormatLabel("NIFTY", DirectionBuy, 22450, OptionCall))
	assert.Equal(t, "BANKNIFTY SELL 48200 PUT", FormatLabel("BANKNIFTY", DirectionSell, 48200, OptionPut))
	assert.Equal(t, "RELIANCE WEAK_BUY 2540 CALL", FormatLabel("RELIANCE", DirectionWeakBuy, 2540, OptionCall))
}

func TestDirectionPredicates(t *testing.T) {
	tests := []struct {
		dir     Direction
		bullish bool
		bearish bool
	}{
		{DirectionBuy, true, false},
		{DirectionWeakBuy, true, false},
		{DirectionSell, false, true},
		{DirectionWeakSell, false, true},
		{DirectionNone, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bullish, tt.dir.Bullish(), tt.dir)
		assert.Equal(t, tt.bearish, tt.dir.Bearish(), tt.dir)
	}
}
