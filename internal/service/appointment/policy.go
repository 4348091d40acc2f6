package appointment

import "time"

// Policy windows fixed system-wide.
const (
	MinCancelHours     = 24
	MinRescheduleHours = 24
)

const millisPerHour = 3_600_000

// HoursUntil returns the number of whole hours between now and eventTime,
// as floor division of the millisecond delta. Negative when eventTime is in
// the past.
func HoursUntil(eventTime, now time.Time) int64 {
	ms := eventTime.Sub(now).Milliseconds()
	hours := ms / millisPerHour
	if ms%millisPerHour != 0 && ms < 0 {
		hours--
	}
	return hours
}

// IsAtLeast reports whether eventTime is at least thresholdHours whole
// hours after now.
func IsAtLeast(eventTime, now time.Time, thresholdHours int64) bool {
	return HoursUntil(eventTime, now) >= thresholdHours
}
