package domain

import (
	"testing"
	"time"
)

func TestDailyCounter_ResetIfNewDay(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	earlier := now.Add(-3 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name      string
		counter   DailyCounter
		wantReset bool
		wantCount int
	}{
		{"fresh counter", DailyCounter{}, true, 0},
		{"same day keeps count", DailyCounter{Count: 4, LastOpenDate: &earlier}, false, 4},
		{"previous day resets", DailyCounter{Count: 4, LastOpenDate: &yesterday}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.counter
			if got := c.ResetIfNewDay(now); got != tt.wantReset {
				t.Errorf("ResetIfNewDay() = %v, want %v", got, tt.wantReset)
			}
			if c.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", c.Count, tt.wantCount)
			}
		})
	}
}

func TestDailyCounter_Increment(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	c := DailyCounter{Count: -2}
	c.Increment(now)
	if c.Count != 1 {
		t.Errorf("Count = %d, want 1 after incrementing a corrupted counter", c.Count)
	}
	if c.LastOpenDate == nil || !c.LastOpenDate.Equal(now) {
		t.Errorf("LastOpenDate = %v, want %v", c.LastOpenDate, now)
	}
	c.Increment(now.Add(time.Minute))
	if c.Count != 2 {
		t.Errorf("Count = %d, want 2", c.Count)
	}
}

func TestDailyCounter_CountAt(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	c := DailyCounter{Count: 5, LastOpenDate: &yesterday}
	if got := c.CountAt(now); got != 0 {
		t.Errorf("CountAt() = %d, want 0 for a stale counter", got)
	}
	if c.Count != 5 {
		t.Error("CountAt must not mutate the counter")
	}
	if got := c.CountAt(yesterday); got != 5 {
		t.Errorf("CountAt(same day) = %d, want 5", got)
	}
}
