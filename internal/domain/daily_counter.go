package domain

import "time"

// DailyCounter tracks how many intervention sessions started on the current
// local calendar day.
type DailyCounter struct {
	Count        int
	LastOpenDate *time.Time
}

// ResetIfNewDay zeroes the count when LastOpenDate is not on now's calendar
// day. It reports whether a reset happened.
func (c *DailyCounter) ResetIfNewDay(now time.Time) bool {
	if !IsNewCalendarDayAt(c.LastOpenDate, now) {
		return false
	}
	c.Count = 0
	return true
}

// Increment records one more open at now.
func (c *DailyCounter) Increment(now time.Time) {
	if c.Count < 0 {
		c.Count = 0
	}
	c.Count++
	c.LastOpenDate = &now
}

// CountAt returns the count as it would read at now, without mutating the
// counter. A stale counter reads as zero.
func (c DailyCounter) CountAt(now time.Time) int {
	if IsNewCalendarDayAt(c.LastOpenDate, now) {
		return 0
	}
	return c.Count
}
