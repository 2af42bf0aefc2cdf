package ports

import (
	"context"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// CounterRepository persists the daily open counter.
type CounterRepository interface {
	// Get returns the stored counter, or a zero counter if none was stored.
	Get(ctx context.Context) (*domain.DailyCounter, error)
	// Update runs fn on the stored counter and saves the result as one
	// read-modify-write.
	Update(ctx context.Context, fn func(c *domain.DailyCounter) error) (*domain.DailyCounter, error)
	// Reset clears the counter and its last open date.
	Reset(ctx context.Context) error
}
