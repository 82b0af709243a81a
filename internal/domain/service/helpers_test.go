package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flatRate(rate string) []model.RatePeriod {
	return []model.RatePeriod{{DateFrom: day(2020, 1, 1), DateTo: day(2035, 12, 31), BaseRate: dec(rate)}}
}

func timeline(t *testing.T, periods []model.RatePeriod) model.RateTimeline {
	t.Helper()
	tl, err := model.NewRateTimeline(periods, periods[0].DateFrom, periods[len(periods)-1].DateTo)
	require.NoError(t, err)
	return tl
}

func policy(t *testing.T, decimals int) valueobject.RoundingPolicy {
	t.Helper()
	p, err := valueobject.NewRoundingPolicy(valueobject.RoundingHalfEven, decimals)
	require.NoError(t, err)
	return p
}

// yearlyLoan is 10,000 over 2024, repaid on the first of each month at 1%
// margin with simple daily interest.
func yearlyLoan(t *testing.T, style valueobject.RepaymentStyle) model.CreditParameters {
	t.Helper()
	return model.CreditParameters{
		Principal:    decimal.NewFromInt(10000),
		MarginRate:   decimal.NewFromInt(1),
		Frequency:    valueobject.FrequencyMonthly,
		PaymentDay:   valueobject.PaymentDayFirst,
		StartDate:    day(2024, 1, 1),
		EndDate:      day(2025, 1, 1),
		DayCount:     valueobject.DayCountActual365,
		Rounding:     policy(t, 4),
		Repayment:    style,
		InterestMode: valueobject.InterestSimpleDaily,
	}
}
