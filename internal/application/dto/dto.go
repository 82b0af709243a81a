package dto

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreditTerms carries the loan parameters shared by every calculation request.
// Dates are YYYY-MM-DD; enumerations are their canonical names.
type CreditTerms struct {
	Principal        decimal.Decimal `json:"principal" yaml:"principal" toml:"principal"`
	MarginRate       decimal.Decimal `json:"margin_rate" yaml:"margin_rate" toml:"margin_rate"`
	Frequency        string          `json:"frequency" yaml:"frequency" toml:"frequency"`
	PaymentDay       string          `json:"payment_day,omitempty" yaml:"payment_day" toml:"payment_day"`
	StartDate        string          `json:"start_date" yaml:"start_date" toml:"start_date"`
	EndDate          string          `json:"end_date" yaml:"end_date" toml:"end_date"`
	DayCount         string          `json:"day_count" yaml:"day_count" toml:"day_count"`
	RoundingMode     string          `json:"rounding_mode" yaml:"rounding_mode" toml:"rounding_mode"`
	RoundingDecimals int             `json:"rounding_decimals" yaml:"rounding_decimals" toml:"rounding_decimals"`
	FeePercent       decimal.Decimal `json:"fee_percent" yaml:"fee_percent" toml:"fee_percent"`
	FeeFlat          decimal.Decimal `json:"fee_flat" yaml:"fee_flat" toml:"fee_flat"`
	RepaymentType    string          `json:"repayment_type" yaml:"repayment_type" toml:"repayment_type"`
	InterestMode     string          `json:"interest_mode" yaml:"interest_mode" toml:"interest_mode"`
}

// RatePeriod is one base-rate interval, inclusive at both ends.
type RatePeriod struct {
	DateFrom string          `json:"date_from" yaml:"date_from" toml:"date_from"`
	DateTo   string          `json:"date_to" yaml:"date_to" toml:"date_to"`
	BaseRate decimal.Decimal `json:"base_rate" yaml:"base_rate" toml:"base_rate"`
}

// CalculateScheduleRequest asks for a full repayment schedule. Exactly one of
// RatePeriods and Benchmark supplies the base rates.
type CalculateScheduleRequest struct {
	TenantID    string       `json:"tenant_id,omitempty" yaml:"tenant_id" toml:"tenant_id"`
	Credit      CreditTerms  `json:"credit" yaml:"credit" toml:"credit"`
	RatePeriods []RatePeriod `json:"rate_periods,omitempty" yaml:"rate_periods" toml:"rate_periods"`
	Benchmark   string       `json:"benchmark,omitempty" yaml:"benchmark" toml:"benchmark"`
	IncludeLog  bool         `json:"include_log,omitempty" yaml:"include_log" toml:"include_log"`
}

// Payment is one installment of an existing schedule.
type Payment struct {
	PaymentDate  string          `json:"payment_date" yaml:"payment_date" toml:"payment_date"`
	TotalPayment decimal.Decimal `json:"total_payment" yaml:"total_payment" toml:"total_payment"`
}

// ComputeAPRRequest asks for the annual percentage rate of a credit. When
// Payments is empty the schedule is calculated first from the rate source.
type ComputeAPRRequest struct {
	TenantID    string       `json:"tenant_id,omitempty" yaml:"tenant_id" toml:"tenant_id"`
	Credit      CreditTerms  `json:"credit" yaml:"credit" toml:"credit"`
	Payments    []Payment    `json:"payments,omitempty" yaml:"payments" toml:"payments"`
	RatePeriods []RatePeriod `json:"rate_periods,omitempty" yaml:"rate_periods" toml:"rate_periods"`
	Benchmark   string       `json:"benchmark,omitempty" yaml:"benchmark" toml:"benchmark"`
}

// SaveBenchmarkRatesRequest stores a named base-rate timeline.
type SaveBenchmarkRatesRequest struct {
	TenantID string       `json:"tenant_id,omitempty"`
	Name     string       `json:"name"`
	Periods  []RatePeriod `json:"periods"`
}

// GetBenchmarkRatesRequest identifies a stored benchmark.
type GetBenchmarkRatesRequest struct {
	TenantID string `json:"tenant_id,omitempty"`
	Name     string `json:"name"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleItemResponse is one installment row.
type ScheduleItemResponse struct {
	Number               int                 `json:"number"`
	PaymentDate          string              `json:"payment_date"`
	Days                 int                 `json:"days"`
	EffectiveRate        decimal.Decimal     `json:"effective_rate"`
	NominalRate          decimal.NullDecimal `json:"nominal_rate"`
	PeriodRate           decimal.NullDecimal `json:"period_rate"`
	Interest             decimal.Decimal     `json:"interest"`
	Principal            decimal.Decimal     `json:"principal"`
	TotalPayment         decimal.Decimal     `json:"total_payment"`
	RemainingPrincipal   decimal.Decimal     `json:"remaining_principal"`
	FinalPaymentAdjusted bool                `json:"final_payment_adjusted,omitempty"`
	Warnings             []string            `json:"warnings,omitempty"`
}

// LogEntryResponse is one step of the narrative calculation log.
type LogEntryResponse struct {
	Description string   `json:"description"`
	Formula     string   `json:"formula,omitempty"`
	Substituted string   `json:"substituted,omitempty"`
	Result      string   `json:"result,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ScheduleResponse is the external representation of a calculated schedule.
type ScheduleResponse struct {
	CalculationID      string                 `json:"calculation_id"`
	Items              []ScheduleItemResponse `json:"items"`
	PaymentCount       int                    `json:"payment_count"`
	TotalInterest      decimal.Decimal        `json:"total_interest"`
	TotalPrincipal     decimal.Decimal        `json:"total_principal"`
	TotalPayments      decimal.Decimal        `json:"total_payments"`
	TargetPayment      decimal.NullDecimal    `json:"target_payment"`
	ActualFinalPayment decimal.NullDecimal    `json:"actual_final_payment"`
	APR                decimal.Decimal        `json:"apr"`
	Warnings           []string               `json:"warnings,omitempty"`
	Log                []LogEntryResponse     `json:"log,omitempty"`
}

// APRResponse carries the annual percentage rate in percent.
type APRResponse struct {
	APR          decimal.Decimal `json:"apr"`
	Disbursement decimal.Decimal `json:"disbursement"`
	PaymentCount int             `json:"payment_count"`
}

// BenchmarkRatesResponse is the external representation of a stored benchmark.
type BenchmarkRatesResponse struct {
	TenantID  string       `json:"tenant_id,omitempty"`
	Name      string       `json:"name"`
	Periods   []RatePeriod `json:"periods"`
	UpdatedAt string       `json:"updated_at"`
}
