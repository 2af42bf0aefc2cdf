package domain

import (
	"math"
	"time"
)

// waitSequence is the escalating friction policy, indexed by today's open count.
var waitSequence = [...]int{5, 8, 13, 21, 34, 55, 89}

// WaitSeconds returns how long the user must wait before proceeding, given how
// many times a monitored app has already been opened today.
// The count is floored and clamped into the sequence range. NaN, negative
// values and -Inf resolve to the first step; +Inf and anything past the end
// resolve to the maximum.
func WaitSeconds(openCount float64) int {
	last := len(waitSequence) - 1

	if math.IsNaN(openCount) || math.IsInf(openCount, -1) {
		return waitSequence[0]
	}
	if math.IsInf(openCount, 1) {
		return waitSequence[last]
	}

	idx := math.Floor(openCount)
	switch {
	case idx < 0:
		return waitSequence[0]
	case idx > float64(last):
		return waitSequence[last]
	}
	return waitSequence[int(idx)]
}

// WaitSecondsForCount is WaitSeconds for an integer count.
func WaitSecondsForCount(openCount int) int {
	return WaitSeconds(float64(openCount))
}

// MaxWaitSeconds returns the longest wait the policy can produce.
func MaxWaitSeconds() int {
	return waitSequence[len(waitSequence)-1]
}

// WaitSequence returns a copy of the wait policy in ascending order.
func WaitSequence() []int {
	seq := make([]int, len(waitSequence))
	copy(seq, waitSequence[:])
	return seq
}

// IsNewCalendarDay reports whether the daily counter should roll over.
// lastOpenDate is an RFC 3339 timestamp; an empty or unparseable value always
// means a reset is due. Calendar days are compared in now's location.
func IsNewCalendarDay(lastOpenDate string, now time.Time) bool {
	if lastOpenDate == "" {
		return true
	}
	last, ok := ParseTimestamp(lastOpenDate)
	if !ok {
		return true
	}
	return IsNewCalendarDayAt(&last, now)
}

// IsNewCalendarDayNow is IsNewCalendarDay against the current local time.
func IsNewCalendarDayNow(lastOpenDate string) bool {
	return IsNewCalendarDay(lastOpenDate, time.Now())
}

// IsNewCalendarDayAt is the parsed-date variant of IsNewCalendarDay.
func IsNewCalendarDayAt(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	ly, lm, ld := last.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return ly != ny || lm != nm || ld != nd
}

// ParseTimestamp parses the timestamp formats the state store may contain.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, TimestampLayout, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TimestampLayout is the fixed-width UTC layout used for stored timestamps,
// so that they sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout, in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
