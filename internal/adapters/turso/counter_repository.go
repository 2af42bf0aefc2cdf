package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// CounterRepository stores the daily open counter in a single row.
type CounterRepository struct {
	db *sql.DB
}

func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getCounter(ctx context.Context, q rowQuerier) (*domain.DailyCounter, error) {
	var count int
	var lastOpen sql.NullString

	err := q.QueryRowContext(ctx, `SELECT open_count, last_open_date FROM daily_counter WHERE id = 1`).Scan(&count, &lastOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.DailyCounter{}, nil
	}
	if err != nil {
		return nil, err
	}

	c := &domain.DailyCounter{Count: count}
	if lastOpen.Valid {
		// An unreadable date leaves LastOpenDate nil, which reads as a new day.
		if t, ok := domain.ParseTimestamp(lastOpen.String); ok {
			c.LastOpenDate = &t
		}
	}
	return c, nil
}

func (r *CounterRepository) Get(ctx context.Context) (*domain.DailyCounter, error) {
	c, err := WithRetry(ctx, 2, func() (*domain.DailyCounter, error) {
		return getCounter(ctx, r.db)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counter: %w", err)
	}
	return c, nil
}

// Update reads, modifies and writes the counter inside one transaction.
func (r *CounterRepository) Update(ctx context.Context, fn func(c *domain.DailyCounter) error) (*domain.DailyCounter, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := getCounter(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counter: %w", err)
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	var lastOpen sql.NullString
	if c.LastOpenDate != nil {
		lastOpen = sql.NullString{String: domain.FormatTimestamp(*c.LastOpenDate), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_counter (id, open_count, last_open_date, updated_at)
		VALUES (1, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(id) DO UPDATE SET
			open_count = excluded.open_count,
			last_open_date = excluded.last_open_date,
			updated_at = excluded.updated_at
	`, c.Count, lastOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to save daily counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit daily counter: %w", err)
	}
	return c, nil
}

func (r *CounterRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_counter`); err != nil {
		return fmt.Errorf("failed to reset daily counter: %w", err)
	}
	return nil
}
