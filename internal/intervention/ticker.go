package intervention

import (
	"time"

	"github.com/emiliopalmerini/pausa/internal/ports"
)

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker returns a ports.Ticker backed by time.Ticker.
func NewTimeTicker(d time.Duration) ports.Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }
