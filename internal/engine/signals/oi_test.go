package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nse-option-sentry/pkg/types"
)

func TestFindOILevels(t *testing.T) {
	t.Run("independent arg-max per side", func(t *testing.T) {
		chain := types.OIChain{
			100: {CallOI: 10, PutOI: 500},
			200: {CallOI: 900, PutOI: 5},
		}
		levels := FindOILevels(chain)

		require.NotNil(t, levels.SupportStrike)
		require.NotNil(t, levels.ResistanceStrike)
		assert.Equal(t, 100, *levels.SupportStrike)
		assert.Equal(t, int64(500), levels.SupportOI)
		assert.Equal(t, 200, *levels.ResistanceStrike)
		assert.Equal(t, int64(900), levels.ResistanceOI)
	})

	t.Run("support above resistance is legitimate", func(t *testing.T) {
		chain := types.OIChain{
			22400: {CallOI: 800, PutOI: 100},
			22600: {CallOI: 100, PutOI: 900},
		}
		levels := FindOILevels(chain)
		assert.Equal(t, 22600, *levels.SupportStrike)
		assert.Equal(t, 22400, *levels.ResistanceStrike)
	})

	t.Run("empty chain yields absent levels", func(t *testing.T) {
		levels := FindOILevels(types.OIChain{})
		assert.Nil(t, levels.SupportStrike)
		assert.Nil(t, levels.ResistanceStrike)
		assert.Zero(t, levels.SupportOI)
		assert.Zero(t, levels.ResistanceOI)
	})

	t.Run("zero open interest on one side stays absent", func(t *testing.T) {
		chain := types.OIChain{
			100: {CallOI: 0, PutOI: 400},
			200: {CallOI: 0, PutOI: 300},
		}
		levels := FindOILevels(chain)
		require.NotNil(t, levels.SupportStrike)
		assert.Equal(t, 100, *levels.SupportStrike)
		assert.Nil(t, levels.ResistanceStrike)
	})

	t.Run("ties resolve to the lowest strike", func(t *testing.T) {
		chain := types.OIChain{
			300: {CallOI: 700, PutOI: 700},
			100: {CallOI: 700, PutOI: 700},
			200: {CallOI: 700, PutOI: 700},
		}
		levels := FindOILevels(chain)
		assert.Equal(t, 100, *levels.SupportStrike)
		assert.Equal(t, 100, *levels.ResistanceStrike)
	})

	t.Run("non-positive strikes are ignored", func(t *testing.T) {
		chain := types.OIChain{
			0:   {CallOI: 9999, PutOI: 9999},
			-50: {CallOI: 9999, PutOI: 9999},
			150: {CallOI: 10, PutOI: 20},
		}
		levels := FindOILevels(chain)
		assert.Equal(t, 150, *levels.SupportStrike)
		assert.Equal(t, 150, *levels.ResistanceStrike)
	})
}
