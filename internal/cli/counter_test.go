package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

func TestWait(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
		wantErr  bool
	}{
		{name: "sequence", expected: "5 8 13 21 34 55 89"},
		{name: "count", args: []string{"3"}, expected: "21"},
		{name: "clamped", args: []string{"100"}, expected: "89"},
		{name: "negative", args: []string{"-1"}, expected: "5"},
		{name: "garbage", args: []string{"lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := captureStdout(t, func() error { return runWait(nil, tt.args) })
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("runWait failed: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func bumpCounter(t *testing.T, app *AppContext, opens int) {
	t.Helper()
	now := time.Now()
	_, err := app.Counter.Update(context.Background(), func(c *domain.DailyCounter) error {
		for i := 0; i < opens; i++ {
			c.Increment(now)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Counter.Update failed: %v", err)
	}
}

func TestWaitNext(t *testing.T) {
	app := testApp(t)
	bumpCounter(t, app, 3)

	waitNext = true
	defer func() { waitNext = false }()

	out, err := captureStdout(t, func() error { return runWait(nil, nil) })
	if err != nil {
		t.Fatalf("runWait failed: %v", err)
	}
	if !strings.Contains(out, "Next wait:    21s") {
		t.Errorf("expected a 21s wait after 3 opens, got %q", out)
	}
	if !strings.Contains(out, "High usage") {
		t.Errorf("expected high usage at 3 opens, got %q", out)
	}

	c, err := app.Counter.Get(context.Background())
	if err != nil {
		t.Fatalf("Counter.Get failed: %v", err)
	}
	if c.Count != 3 {
		t.Errorf("preview must not count an open, got %d", c.Count)
	}
}

func TestCounter_ShowAndReset(t *testing.T) {
	app := testApp(t)
	bumpCounter(t, app, 2)

	out, err := captureStdout(t, func() error { return runCounter(nil, nil) })
	if err != nil {
		t.Fatalf("runCounter failed: %v", err)
	}
	if !strings.Contains(out, "Opens today:  2") || !strings.Contains(out, "Next wait:    13s") {
		t.Errorf("unexpected output: %q", out)
	}

	counterReset = true
	defer func() { counterReset = false }()

	if _, err := captureStdout(t, func() error { return runCounter(nil, nil) }); err != nil {
		t.Fatalf("runCounter --reset failed: %v", err)
	}
	c, err := app.Counter.Get(context.Background())
	if err != nil {
		t.Fatalf("Counter.Get failed: %v", err)
	}
	if c.Count != 0 || c.LastOpenDate != nil {
		t.Errorf("expected empty counter after reset, got %+v", c)
	}
}
