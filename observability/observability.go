package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Initialize installs the global meter provider. With metrics disabled the
// otel no-op provider stays in place and every instrument is free to record.
func Initialize(ctx context.Context, appName, appVersion string, l *zap.Logger, options ...Option) (shutdown func(context.Context) error, err error) {
	var (
		config        Config
		shutdownFuncs []func(context.Context) error
	)

	logger := initLogger(l)

	shutdown = func(ctx context.Context) error {
		var joinedErr error
		logger.Info("shutting down observability stack")
		for _, f := range shutdownFuncs {
			if err := f(ctx); err != nil {
				joinedErr = errors.Join(joinedErr, err)
			}
		}
		return joinedErr
	}

	for _, option := range options {
		option(&config)
	}

	if !config.metrics.enabled {
		logger.Info("metrics disabled")
		return shutdown, nil
	}

	resources, err := buildResources(appName, appVersion)
	if err != nil {
		return shutdown, fmt.Errorf("could not build OTel resources: %w", err)
	}

	// The exporter registers itself with prometheus.DefaultRegisterer,
	// which is what the /metrics handler serves.
	promExporter, err := prometheus.New()
	if err != nil {
		return shutdown, fmt.Errorf("failed to instantiate metric Prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resources),
		sdkmetric.WithReader(promExporter),
	)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	logger.Info("observability stack initialized", zap.Bool("metrics_enabled", true))

	return shutdown, nil
}

func buildResources(appName, appVersion string) (*resource.Resource, error) {
	return resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(appName),
		semconv.ServiceVersion(appVersion),
	))
}
