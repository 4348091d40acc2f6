package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindowUTC(t *testing.T) {
	t.Run("midday", func(t *testing.T) {
		start, end := DayWindowUTC(time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("midnight belongs to its own day", func(t *testing.T) {
		start, end := DayWindowUTC(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("zoned input converted to UTC day", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		// 02:00 on the 16th at UTC+5 is 21:00 on the 15th in UTC.
		start, _ := DayWindowUTC(time.Date(2025, 6, 16, 2, 0, 0, 0, loc))
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("month boundary", func(t *testing.T) {
		start, end := DayWindowUTC(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC))
		assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), end)
	})
}
