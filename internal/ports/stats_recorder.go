package ports

import (
	"context"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// StatsRecorder receives the terminal events of an intervention session.
type StatsRecorder interface {
	RecordOutcome(ctx context.Context, rec domain.OutcomeRecord) error
	RecordIntention(ctx context.Context, log domain.IntentionLog) error
}

// OutcomeRepository stores outcomes and intention logs.
type OutcomeRepository interface {
	StatsRecorder
	ListIntentionLogs(ctx context.Context, since string) ([]domain.IntentionLog, error)
	DeleteBefore(ctx context.Context, before string) (int64, error)
}
