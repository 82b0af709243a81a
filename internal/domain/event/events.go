package event

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeScheduleCalculated  = "amortization.schedule.calculated"
	TypeBenchmarkRatesSaved = "amortization.benchmark_rates.saved"
)

// ScheduleCalculated is raised after a schedule has been computed.
type ScheduleCalculated struct {
	events.BaseEvent
	Principal     decimal.Decimal `json:"principal"`
	RepaymentType string          `json:"repayment_type"`
	InterestMode  string          `json:"interest_mode"`
	PaymentCount  int             `json:"payment_count"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	APR           decimal.Decimal `json:"apr"`
	Benchmark     string          `json:"benchmark,omitempty"`
	WarningCount  int             `json:"warning_count"`
}

func NewScheduleCalculated(
	calculationID, tenantID string,
	principal decimal.Decimal, repaymentType, interestMode string,
	paymentCount int, totalInterest, totalPayments, apr decimal.Decimal,
	benchmark string, warningCount int,
) ScheduleCalculated {
	return ScheduleCalculated{
		BaseEvent:     events.NewBaseEvent(TypeScheduleCalculated, calculationID, "Schedule", tenantID),
		Principal:     principal,
		RepaymentType: repaymentType,
		InterestMode:  interestMode,
		PaymentCount:  paymentCount,
		TotalInterest: totalInterest,
		TotalPayments: totalPayments,
		APR:           apr,
		Benchmark:     benchmark,
		WarningCount:  warningCount,
	}
}

// BenchmarkRatesSaved is raised when a benchmark rate timeline is stored.
type BenchmarkRatesSaved struct {
	events.BaseEvent
	Name        string `json:"name"`
	PeriodCount int    `json:"period_count"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

func NewBenchmarkRatesSaved(name, tenantID string, periodCount int, dateFrom, dateTo string) BenchmarkRatesSaved {
	return BenchmarkRatesSaved{
		BaseEvent:   events.NewBaseEvent(TypeBenchmarkRatesSaved, name, "BenchmarkRates", tenantID),
		Name:        name,
		PeriodCount: periodCount,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	}
}
