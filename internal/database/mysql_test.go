package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 19800)

	t.Run("keeps the calendar day of the timestamp's location", func(t *testing.T) {
		// 01:30 IST is still the previous day in UTC; the stats
		// bucket must follow the local calendar.
		at := time.Date(2025, 6, 5, 1, 30, 0, 0, ist)
		assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, ist), startOfDay(at))
	})

	t.Run("drops the clock", func(t *testing.T) {
		at := time.Date(2025, 6, 5, 15, 29, 59, 0, ist)
		day := startOfDay(at)
		assert.Zero(t, day.Hour())
		assert.Zero(t, day.Minute())
		assert.Equal(t, ist, day.Location())
	})
}
