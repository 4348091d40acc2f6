package timeutil

import "time"

// DayWindowUTC returns the half-open interval [startOfDay, endOfDay) that
// contains t. All day-window arithmetic in the system is done in UTC so the
// same appointment never lands on different days depending on the call path.
func DayWindowUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
