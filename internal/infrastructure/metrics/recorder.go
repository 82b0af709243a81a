package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bibbank/bib/services/amortization-service"

// Recorder implements port.CalculationMetrics with OpenTelemetry instruments.
type Recorder struct {
	calculations metric.Int64Counter
	failures     metric.Int64Counter
	payments     metric.Int64Histogram
	warnings     metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewRecorder creates the instruments on a meter from provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	calculations, err := meter.Int64Counter("amortization_calculations_total",
		metric.WithDescription("Schedules calculated successfully."))
	if err != nil {
		return nil, fmt.Errorf("create calculations counter: %w", err)
	}
	failures, err := meter.Int64Counter("amortization_failures_total",
		metric.WithDescription("Requests rejected or failed, by operation and reason."))
	if err != nil {
		return nil, fmt.Errorf("create failures counter: %w", err)
	}
	payments, err := meter.Int64Histogram("amortization_schedule_payments",
		metric.WithDescription("Installments per calculated schedule."),
		metric.WithExplicitBucketBoundaries(1, 12, 36, 60, 120, 240, 360, 1000, 10000))
	if err != nil {
		return nil, fmt.Errorf("create payments histogram: %w", err)
	}
	warnings, err := meter.Int64Counter("amortization_schedule_warnings_total",
		metric.WithDescription("Soft warnings raised while calculating schedules."))
	if err != nil {
		return nil, fmt.Errorf("create warnings counter: %w", err)
	}
	duration, err := meter.Float64Histogram("amortization_calculation_duration_seconds",
		metric.WithDescription("Wall time of one schedule calculation."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Recorder{
		calculations: calculations,
		failures:     failures,
		payments:     payments,
		warnings:     warnings,
		duration:     duration,
	}, nil
}

func (r *Recorder) RecordCalculation(
	ctx context.Context,
	repaymentType, interestMode string,
	payments, warnings int,
	elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("repayment_type", repaymentType),
		attribute.String("interest_mode", interestMode),
	)
	r.calculations.Add(ctx, 1, attrs)
	r.payments.Record(ctx, int64(payments), attrs)
	if warnings > 0 {
		r.warnings.Add(ctx, int64(warnings), attrs)
	}
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (r *Recorder) RecordFailure(ctx context.Context, operation, reason string) {
	r.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}
