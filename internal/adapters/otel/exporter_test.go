package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			got[m.Name] = m.Data
		}
	}
	return got
}

func TestExporter_ExportOutcome(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	e, err := NewExporterWithReader(ctx, reader, "test")
	if err != nil {
		t.Fatalf("NewExporterWithReader: %v", err)
	}
	t.Cleanup(func() { _ = e.Close(ctx) })

	outcomes := []domain.InterventionOutcome{
		{Intention: domain.IntentionBored, Proceeded: false, AppPackage: "com.tiktok", OpenCount: 0, WaitSeconds: 5},
		{Intention: domain.IntentionDirectMessage, Proceeded: true, AppPackage: "com.tiktok", OpenCount: 1, WaitSeconds: 8},
		{Proceeded: false, AppPackage: "com.tiktok", OpenCount: 2, WaitSeconds: 13},
	}
	for _, o := range outcomes {
		if err := e.ExportOutcome(ctx, o); err != nil {
			t.Fatalf("ExportOutcome: %v", err)
		}
	}

	got := collect(t, reader)

	interventions, ok := got["pausa_interventions_total"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("pausa_interventions_total missing or wrong type: %T", got["pausa_interventions_total"])
	}
	var total int64
	for _, dp := range interventions.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("interventions total = %d, want 3", total)
	}
	if len(interventions.DataPoints) != 2 {
		t.Errorf("interventions series = %d, want 2 (proceed, dismiss)", len(interventions.DataPoints))
	}

	intentions, ok := got["pausa_intentions_total"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("pausa_intentions_total missing")
	}
	total = 0
	for _, dp := range intentions.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("intentions total = %d, want 2", total)
	}

	wait, ok := got["pausa_wait_seconds"].(metricdata.Histogram[int64])
	if !ok || len(wait.DataPoints) != 1 {
		t.Fatalf("pausa_wait_seconds missing")
	}
	if wait.DataPoints[0].Count != 3 || wait.DataPoints[0].Sum != 26 {
		t.Errorf("wait histogram count=%d sum=%d", wait.DataPoints[0].Count, wait.DataPoints[0].Sum)
	}
}

func TestNewExporter_Disabled(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"}); err == nil {
		t.Error("expected error when disabled")
	}
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected error without endpoint")
	}
}

func TestNoOpExporter(t *testing.T) {
	e := NewNoOpExporter()
	if err := e.ExportOutcome(context.Background(), domain.InterventionOutcome{}); err != nil {
		t.Errorf("ExportOutcome: %v", err)
	}
	if err := e.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}
