package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/event"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
)

// SaveBenchmarkRatesUseCase validates and stores a named base-rate timeline.
type SaveBenchmarkRatesUseCase struct {
	repo      port.BenchmarkRateRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewSaveBenchmarkRatesUseCase wires dependencies.
func NewSaveBenchmarkRatesUseCase(
	repo port.BenchmarkRateRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *SaveBenchmarkRatesUseCase {
	return &SaveBenchmarkRatesUseCase{repo: repo, publisher: publisher, logger: logger}
}

// Execute replaces the stored periods of the benchmark.
func (uc *SaveBenchmarkRatesUseCase) Execute(
	ctx context.Context,
	req dto.SaveBenchmarkRatesRequest,
) (dto.BenchmarkRatesResponse, error) {
	periods, err := toRatePeriods(req.Periods)
	if err != nil {
		return dto.BenchmarkRatesResponse{}, fmt.Errorf("parse periods: %w", err)
	}

	rates, err := model.NewBenchmarkRates(req.TenantID, req.Name, periods, time.Now())
	if err != nil {
		return dto.BenchmarkRatesResponse{}, fmt.Errorf("create benchmark: %w", err)
	}

	if err := uc.repo.Save(ctx, rates); err != nil {
		return dto.BenchmarkRatesResponse{}, fmt.Errorf("save benchmark: %w", err)
	}

	from, to := rates.Span()
	evt := event.NewBenchmarkRatesSaved(rates.Name, rates.TenantID, len(rates.Periods),
		model.FormatDate(from), model.FormatDate(to))
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.BenchmarkRatesResponse{}, fmt.Errorf("publish events: %w", err)
	}

	uc.logger.InfoContext(ctx, "benchmark rates saved",
		"benchmark", rates.Name,
		"periods", len(rates.Periods),
	)
	return toBenchmarkResponse(rates), nil
}

// GetBenchmarkRatesUseCase retrieves a stored benchmark.
type GetBenchmarkRatesUseCase struct {
	repo port.BenchmarkRateRepository
}

// NewGetBenchmarkRatesUseCase wires dependencies.
func NewGetBenchmarkRatesUseCase(repo port.BenchmarkRateRepository) *GetBenchmarkRatesUseCase {
	return &GetBenchmarkRatesUseCase{repo: repo}
}

// Execute returns the benchmark with the given name.
func (uc *GetBenchmarkRatesUseCase) Execute(
	ctx context.Context,
	req dto.GetBenchmarkRatesRequest,
) (dto.BenchmarkRatesResponse, error) {
	rates, err := uc.repo.FindByName(ctx, req.TenantID, req.Name)
	if err != nil {
		return dto.BenchmarkRatesResponse{}, fmt.Errorf("find benchmark: %w", err)
	}
	return toBenchmarkResponse(rates), nil
}
