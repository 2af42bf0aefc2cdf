package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/util"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetAggregate sums every outcome recorded at or after since.
func (r *StatsRepository) GetAggregate(ctx context.Context, since string) (*domain.InterventionStats, error) {
	var sessions, proceeded, wait, maxOpen any
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(proceeded),
			SUM(wait_seconds),
			MAX(open_count)
		FROM intervention_outcomes
		WHERE recorded_at >= ?
	`, since).Scan(&sessions, &proceeded, &wait, &maxOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate stats: %w", err)
	}

	stats := &domain.InterventionStats{
		SessionCount:     util.ToInt64(sessions),
		ProceededCount:   util.ToInt64(proceeded),
		TotalWaitSeconds: util.ToInt64(wait),
		MaxOpenCount:     util.ToInt64(maxOpen),
	}
	stats.DismissedCount = stats.SessionCount - stats.ProceededCount
	return stats, nil
}

// GetIntentionBreakdown counts declared intentions, most frequent first.
func (r *StatsRepository) GetIntentionBreakdown(ctx context.Context, since string) ([]domain.IntentionStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT intention_id, COUNT(*) AS n, SUM(proceeded)
		FROM intention_logs
		WHERE recorded_at >= ?
		GROUP BY intention_id
		ORDER BY n DESC, intention_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get intention breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.IntentionStats
	for rows.Next() {
		var id string
		var count, proceeded any
		if err := rows.Scan(&id, &count, &proceeded); err != nil {
			return nil, fmt.Errorf("failed to scan intention stats: %w", err)
		}
		result = append(result, domain.IntentionStats{
			IntentionID:    domain.IntentionID(id),
			Count:          util.ToInt64(count),
			ProceededCount: util.ToInt64(proceeded),
		})
	}
	return result, rows.Err()
}

// GetAppBreakdown returns the apps with the most sessions. A limit of zero or
// less returns every app.
func (r *StatsRepository) GetAppBreakdown(ctx context.Context, since string, limit int) ([]domain.AppStats, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(app_package, ''), COUNT(*) AS n, SUM(proceeded)
		FROM intervention_outcomes
		WHERE recorded_at >= ?
		GROUP BY app_package
		ORDER BY n DESC, app_package
		LIMIT ?
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get app breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.AppStats
	for rows.Next() {
		var pkg string
		var count, proceeded any
		if err := rows.Scan(&pkg, &count, &proceeded); err != nil {
			return nil, fmt.Errorf("failed to scan app stats: %w", err)
		}
		result = append(result, domain.AppStats{
			AppPackage:     pkg,
			SessionCount:   util.ToInt64(count),
			ProceededCount: util.ToInt64(proceeded),
		})
	}
	return result, rows.Err()
}
