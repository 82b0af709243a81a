package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/event"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

type mockBenchmarkRateRepository struct {
	saveFunc       func(ctx context.Context, rates model.BenchmarkRates) error
	findByNameFunc func(ctx context.Context, tenantID, name string) (model.BenchmarkRates, error)
	saved          []model.BenchmarkRates
}

func (m *mockBenchmarkRateRepository) Save(ctx context.Context, rates model.BenchmarkRates) error {
	m.saved = append(m.saved, rates)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, rates)
	}
	return nil
}

func (m *mockBenchmarkRateRepository) FindByName(ctx context.Context, tenantID, name string) (model.BenchmarkRates, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, tenantID, name)
	}
	return model.BenchmarkRates{}, model.ErrBenchmarkNotFound
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...event.DomainEvent) error
	published   []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	m.published = append(m.published, evts...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	return nil
}

type mockCalculationMetrics struct {
	mu           sync.Mutex
	calculations int
	failures     []string
}

func (m *mockCalculationMetrics) RecordCalculation(_ context.Context, _, _ string, _, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calculations++
}

func (m *mockCalculationMetrics) RecordFailure(_ context.Context, operation, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, operation+":"+reason)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func calculator() *service.ScheduleCalculator {
	return service.NewScheduleCalculator(service.DefaultCalculationConfig())
}

func monthlyTerms(repayment string) dto.CreditTerms {
	return dto.CreditTerms{
		Principal:        decimal.NewFromInt(10000),
		MarginRate:       decimal.NewFromInt(1),
		Frequency:        "MONTHLY",
		PaymentDay:       "FIRST",
		StartDate:        "2024-01-01",
		EndDate:          "2025-01-01",
		DayCount:         "ACT_365",
		RoundingMode:     "HALF_EVEN",
		RoundingDecimals: 4,
		RepaymentType:    repayment,
		InterestMode:     "SIMPLE_DAILY",
	}
}

func flatPeriods(rate string) []dto.RatePeriod {
	return []dto.RatePeriod{{DateFrom: "2020-01-01", DateTo: "2035-12-31", BaseRate: decimal.RequireFromString(rate)}}
}

func flatBenchmark(name, rate string) model.BenchmarkRates {
	return model.BenchmarkRates{
		Name: name,
		Periods: []model.RatePeriod{{
			DateFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2035, 12, 31, 0, 0, 0, 0, time.UTC),
			BaseRate: decimal.RequireFromString(rate),
		}},
	}
}
