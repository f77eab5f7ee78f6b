package shared

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics records catalog store operations
type Metrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewMetrics creates the store instruments on the given meter. A nil
// meter yields instruments that record nothing.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("catalog")
	}
	operations, err := meter.Int64Counter("catalog_operations_total",
		metric.WithDescription("Catalog store operations by outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("catalog_operation_duration_seconds",
		metric.WithDescription("Catalog store operation latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &Metrics{operations: operations, duration: duration}, nil
}

// Observe records one finished operation
func (m *Metrics) Observe(ctx context.Context, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
