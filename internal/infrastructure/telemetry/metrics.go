package telemetry

import (
	"context"
	"fmt"

	"github.com/mrops-br/inventario-console/internal/infrastructure/config"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc"
)

// initMeterProvider initializes the OpenTelemetry meter provider.
// The OTLP reader is attached when export is enabled; the Prometheus reader
// feeds the default registry served by promhttp.
func initMeterProvider(ctx context.Context, cfg *config.OTLPConfig, conn *grpc.ClientConn, res *resource.Resource, withPrometheus bool) (*metric.MeterProvider, error) {
	opts := []metric.Option{metric.WithResource(res)}

	if cfg.Enabled {
		// Create OTLP metric exporter
		exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter)))
	}

	if withPrometheus {
		promExporter, err := otelprom.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(promExporter))
	}

	return metric.NewMeterProvider(opts...), nil
}
