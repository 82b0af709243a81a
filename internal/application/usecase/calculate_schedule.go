package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/event"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
)

const tracerName = "github.com/bibbank/bib/services/amortization-service/internal/application/usecase"

// CalculateScheduleUseCase computes a repayment schedule and its APR, then
// announces the result.
type CalculateScheduleUseCase struct {
	calculator *service.ScheduleCalculator
	benchmarks port.BenchmarkRateRepository
	publisher  port.EventPublisher
	metrics    port.CalculationMetrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewCalculateScheduleUseCase wires dependencies. benchmarks may be nil when
// no rate store is configured.
func NewCalculateScheduleUseCase(
	calculator *service.ScheduleCalculator,
	benchmarks port.BenchmarkRateRepository,
	publisher port.EventPublisher,
	metrics port.CalculationMetrics,
	logger *slog.Logger,
) *CalculateScheduleUseCase {
	return &CalculateScheduleUseCase{
		calculator: calculator,
		benchmarks: benchmarks,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// Execute validates the request, calculates the schedule and publishes a
// ScheduleCalculated event. A publish failure is logged and otherwise ignored.
func (uc *CalculateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.CalculateScheduleRequest,
) (dto.ScheduleResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "CalculateSchedule")
	defer span.End()

	calculationID := uuid.NewString()
	span.SetAttributes(attribute.String("calculation_id", calculationID))
	started := time.Now()

	// 1. Map the request onto domain values.
	params, err := toCreditParameters(req.Credit)
	if err != nil {
		return dto.ScheduleResponse{}, uc.fail(ctx, span, "parse credit", err)
	}

	// 2. Resolve the base-rate timeline.
	periods, err := resolveRatePeriods(ctx, uc.benchmarks, req.TenantID, req.RatePeriods, req.Benchmark)
	if err != nil {
		return dto.ScheduleResponse{}, uc.fail(ctx, span, "resolve rates", err)
	}

	// 3. Calculate.
	result, err := uc.calculator.Calculate(params, periods, req.IncludeLog)
	if err != nil {
		return dto.ScheduleResponse{}, uc.fail(ctx, span, "calculate schedule", err)
	}
	apr := service.ComputeAnnualPercentageRate(params, result)

	elapsed := time.Since(started)
	uc.metrics.RecordCalculation(ctx, params.Repayment.String(), params.InterestMode.String(),
		len(result.Items), len(result.Warnings), elapsed)
	span.SetAttributes(
		attribute.Int("payment_count", len(result.Items)),
		attribute.Int("warnings", len(result.Warnings)),
	)

	uc.logger.InfoContext(ctx, "schedule calculated",
		"calculation_id", calculationID,
		"repayment_type", params.Repayment.String(),
		"interest_mode", params.InterestMode.String(),
		"payment_count", len(result.Items),
		"warnings", len(result.Warnings),
		"elapsed", elapsed,
	)

	// 4. Announce the result.
	evt := event.NewScheduleCalculated(
		calculationID, req.TenantID,
		params.Principal, params.Repayment.String(), params.InterestMode.String(),
		len(result.Items), result.TotalInterest(), result.TotalPayments(), apr,
		req.Benchmark, len(result.Warnings),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "publish schedule event failed",
			"calculation_id", calculationID,
			"error", err,
		)
	}

	return toScheduleResponse(calculationID, result, apr), nil
}

func (uc *CalculateScheduleUseCase) fail(ctx context.Context, span trace.Span, step string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, step)
	uc.metrics.RecordFailure(ctx, "calculate_schedule", failureReason(err))
	return fmt.Errorf("%s: %w", step, err)
}

// failureReason buckets an error for metric labels.
func failureReason(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return string(verr.Kind)
	case errors.Is(err, model.ErrBenchmarkNotFound):
		return "benchmark_not_found"
	case errors.Is(err, model.ErrNegativeAmortization):
		return "negative_amortization"
	default:
		return "internal"
	}
}
