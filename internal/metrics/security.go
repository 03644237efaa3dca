package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SecurityMetrics records security core operation outcomes.
type SecurityMetrics interface {
	// RecordOperation increments the counter for a security operation outcome.
	RecordOperation(ctx context.Context, operation, status string)
	// RecordDuration records the latency of a security operation.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
	// RecordThreatLevel sets the current observed threat level gauge.
	RecordThreatLevel(ctx context.Context, level int64)
}

type securityMetrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	threatLevel       metric.Int64Gauge
}

// NewSecurityMetrics creates metrics instruments for the security engine
// using the provided meter provider.
func NewSecurityMetrics(provider metric.MeterProvider, namespace string) (SecurityMetrics, error) {
	meter := provider.Meter(namespace)

	operationsTotal, err := meter.Int64Counter(
		fmt.Sprintf("%s_security_operations_total", namespace),
		metric.WithDescription("Total number of security operations by type and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_security_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of security operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	threatLevel, err := meter.Int64Gauge(
		fmt.Sprintf("%s_security_threat_level", namespace),
		metric.WithDescription("Current maximum observed threat level"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create threat level gauge: %w", err)
	}

	return &securityMetrics{
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		threatLevel:       threatLevel,
	}, nil
}

func (m *securityMetrics) RecordOperation(ctx context.Context, operation, status string) {
	m.operationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (m *securityMetrics) RecordDuration(ctx context.Context, operation string, duration time.Duration, status string) {
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (m *securityMetrics) RecordThreatLevel(ctx context.Context, level int64) {
	m.threatLevel.Record(ctx, level)
}

type noOpSecurityMetrics struct{}

// NewNoOpSecurityMetrics returns a SecurityMetrics implementation that
// discards all measurements. Used in tests and when metrics are disabled.
func NewNoOpSecurityMetrics() SecurityMetrics {
	return &noOpSecurityMetrics{}
}

func (m *noOpSecurityMetrics) RecordOperation(ctx context.Context, operation, status string) {}

func (m *noOpSecurityMetrics) RecordDuration(ctx context.Context, operation string, duration time.Duration, status string) {
}

func (m *noOpSecurityMetrics) RecordThreatLevel(ctx context.Context, level int64) {}
