package port

import (
	"context"
	"time"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/event"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// BenchmarkRateRepository persists named base-rate timelines.
type BenchmarkRateRepository interface {
	// Save replaces every period stored under the benchmark's name.
	Save(ctx context.Context, rates model.BenchmarkRates) error
	// FindByName returns model.ErrBenchmarkNotFound when nothing is stored.
	FindByName(ctx context.Context, tenantID, name string) (model.BenchmarkRates, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Instrumentation port
// ---------------------------------------------------------------------------

// CalculationMetrics records the outcome of schedule calculations.
type CalculationMetrics interface {
	RecordCalculation(ctx context.Context, repaymentType, interestMode string, payments int, warnings int, elapsed time.Duration)
	RecordFailure(ctx context.Context, operation, reason string)
}
