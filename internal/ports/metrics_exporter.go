package ports

import (
	"context"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// MetricsExporter exports intervention metrics to an external observability system.
type MetricsExporter interface {
	// ExportOutcome records the metrics of a finished intervention session.
	ExportOutcome(ctx context.Context, o domain.InterventionOutcome) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
