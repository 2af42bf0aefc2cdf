package ports

import (
	"context"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

type StatsRepository interface {
	GetAggregate(ctx context.Context, since string) (*domain.InterventionStats, error)
	GetIntentionBreakdown(ctx context.Context, since string) ([]domain.IntentionStats, error)
	GetAppBreakdown(ctx context.Context, since string, limit int) ([]domain.AppStats, error)
}
