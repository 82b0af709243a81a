package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
)

// ComputeAPRUseCase returns the annual percentage rate of a credit, either
// for a supplied list of payments or for a freshly calculated schedule.
type ComputeAPRUseCase struct {
	calculator *service.ScheduleCalculator
	benchmarks port.BenchmarkRateRepository
	metrics    port.CalculationMetrics
	tracer     trace.Tracer
}

// NewComputeAPRUseCase wires dependencies.
func NewComputeAPRUseCase(
	calculator *service.ScheduleCalculator,
	benchmarks port.BenchmarkRateRepository,
	metrics port.CalculationMetrics,
) *ComputeAPRUseCase {
	return &ComputeAPRUseCase{
		calculator: calculator,
		benchmarks: benchmarks,
		metrics:    metrics,
		tracer:     otel.Tracer(tracerName),
	}
}

// Execute computes the APR.
func (uc *ComputeAPRUseCase) Execute(ctx context.Context, req dto.ComputeAPRRequest) (dto.APRResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "ComputeAPR")
	defer span.End()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute apr")
		uc.metrics.RecordFailure(ctx, "compute_apr", failureReason(err))
	}
	return resp, err
}

func (uc *ComputeAPRUseCase) execute(ctx context.Context, req dto.ComputeAPRRequest) (dto.APRResponse, error) {
	params, err := toCreditParameters(req.Credit)
	if err != nil {
		return dto.APRResponse{}, fmt.Errorf("parse credit: %w", err)
	}
	if err := params.Validate(); err != nil {
		return dto.APRResponse{}, fmt.Errorf("validate credit: %w", err)
	}

	var result model.ScheduleResult
	if len(req.Payments) > 0 {
		for i, p := range req.Payments {
			d, err := parseDate(fmt.Sprintf("payments[%d].payment_date", i), p.PaymentDate)
			if err != nil {
				return dto.APRResponse{}, fmt.Errorf("parse payments: %w", err)
			}
			result.Items = append(result.Items, model.ScheduleItem{PaymentDate: d, TotalPayment: p.TotalPayment})
		}
	} else {
		periods, err := resolveRatePeriods(ctx, uc.benchmarks, req.TenantID, req.RatePeriods, req.Benchmark)
		if err != nil {
			return dto.APRResponse{}, fmt.Errorf("resolve rates: %w", err)
		}
		if result, err = uc.calculator.Calculate(params, periods, false); err != nil {
			return dto.APRResponse{}, fmt.Errorf("calculate schedule: %w", err)
		}
	}

	return dto.APRResponse{
		APR:          service.ComputeAnnualPercentageRate(params, result),
		Disbursement: params.Disbursement(),
		PaymentCount: len(result.Items),
	}, nil
}
