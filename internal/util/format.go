package util

import (
	"fmt"
	"time"
)

// FormatPercent formats a 0-1 ratio as a whole percentage.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// FormatSeconds formats a duration in whole seconds for humans.
// Examples: 45 -> "45s", 89 -> "1m29s", 3720 -> "1h2m"
func FormatSeconds(s int64) string {
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm%ds", s/60, s%60)
	default:
		return fmt.Sprintf("%dh%dm", s/3600, (s%3600)/60)
	}
}

// StartOfPeriod returns the local-time start of a period containing now.
// Supported periods: "today", "week" (starting Monday), "month", "all" (or
// any other value for all time).
func StartOfPeriod(period string, now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()

	switch period {
	case "today":
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(y, m, d-weekday+1, 0, 0, 0, 0, loc)
	case "month":
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Unix(0, 0).In(loc)
	}
}

// ValidPeriod reports whether period is one StartOfPeriod understands.
func ValidPeriod(period string) bool {
	switch period {
	case "today", "week", "month", "all":
		return true
	}
	return false
}
