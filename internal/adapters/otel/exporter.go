package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

const serviceName = "pausa"

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint       string
	Enabled        bool
	Insecure       bool
	ServiceVersion string
}

// Exporter exports intervention metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	interventions metric.Int64Counter
	intentions    metric.Int64Counter
	waitHist      metric.Int64Histogram
	openCountHist metric.Int64Histogram
}

// NewExporter creates an OTLP/gRPC metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	e, err := NewExporterWithReader(ctx, sdkmetric.NewPeriodicReader(exp), cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// NewExporterWithReader builds the instruments on a meter provider fed to
// reader.
func NewExporterWithReader(ctx context.Context, reader sdkmetric.Reader, version string) (*Exporter, error) {
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	interventions, err := meter.Int64Counter(
		"pausa_interventions_total",
		metric.WithDescription("Interventions that reached a decision"),
		metric.WithUnit("{intervention}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating interventions counter: %w", err)
	}

	intentions, err := meter.Int64Counter(
		"pausa_intentions_total",
		metric.WithDescription("Declared intentions"),
		metric.WithUnit("{intention}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating intentions counter: %w", err)
	}

	waitHist, err := meter.Int64Histogram(
		"pausa_wait_seconds",
		metric.WithDescription("Mandatory wait before the intention prompt"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(5, 8, 13, 21, 34, 55, 89),
	)
	if err != nil {
		return nil, fmt.Errorf("creating wait histogram: %w", err)
	}

	openCountHist, err := meter.Int64Histogram(
		"pausa_open_count",
		metric.WithDescription("Opens earlier the same day when an intervention started"),
		metric.WithUnit("{open}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating open count histogram: %w", err)
	}

	return &Exporter{
		provider:      provider,
		interventions: interventions,
		intentions:    intentions,
		waitHist:      waitHist,
		openCountHist: openCountHist,
	}, nil
}

// ExportOutcome records one decided intervention.
func (e *Exporter) ExportOutcome(ctx context.Context, o domain.InterventionOutcome) error {
	app := attribute.String("app_package", o.AppPackage)
	decision := attribute.String("decision", o.Decision())

	e.interventions.Add(ctx, 1, metric.WithAttributes(decision, app))
	if o.Intention != "" {
		e.intentions.Add(ctx, 1, metric.WithAttributes(attribute.String("intention", string(o.Intention)), decision))
	}
	e.waitHist.Record(ctx, int64(o.WaitSeconds), metric.WithAttributes(app))
	e.openCountHist.Record(ctx, int64(o.OpenCount), metric.WithAttributes(app))

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
