package valueobject_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

func TestParsers(t *testing.T) {
	t.Run("frequency", func(t *testing.T) {
		f, err := valueobject.NewPaymentFrequency("monthly")
		require.NoError(t, err)
		assert.True(t, f.Equal(valueobject.FrequencyMonthly))
		assert.Equal(t, 1, f.MonthStep())
		assert.Equal(t, 3, valueobject.FrequencyQuarterly.MonthStep())
		assert.Equal(t, 0, valueobject.FrequencyDaily.MonthStep())

		_, err = valueobject.NewPaymentFrequency("weekly")
		assert.Error(t, err)
	})

	t.Run("day count aliases", func(t *testing.T) {
		b, err := valueobject.NewDayCountBasis("Actual/360")
		require.NoError(t, err)
		assert.True(t, b.Equal(valueobject.DayCountActual360))
		assert.Equal(t, "360", b.Denominator().String())
	})

	t.Run("repayment style aliases", func(t *testing.T) {
		s, err := valueobject.NewRepaymentStyle("annuity")
		require.NoError(t, err)
		assert.True(t, s.Equal(valueobject.RepaymentEqualInstallments))

		_, err = valueobject.NewRepaymentStyle("balloon")
		assert.Error(t, err)
	})

	t.Run("interest mode periods", func(t *testing.T) {
		m, err := valueobject.NewInterestMode("COMPOUND_QUARTERLY")
		require.NoError(t, err)
		assert.Equal(t, 4, m.PeriodsPerYear())
		assert.Equal(t, 0, valueobject.InterestSimpleDaily.PeriodsPerYear())
	})

	t.Run("rounding mode aliases", func(t *testing.T) {
		m, err := valueobject.NewRoundingMode("bankers")
		require.NoError(t, err)
		assert.True(t, m.Equal(valueobject.RoundingHalfEven))
	})
}

func TestPaymentDay_In(t *testing.T) {
	tests := []struct {
		name  string
		rule  valueobject.PaymentDay
		year  int
		month time.Month
		want  time.Time
	}{
		{name: "first", rule: valueobject.PaymentDayFirst, year: 2024, month: time.March, want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "tenth", rule: valueobject.PaymentDayTenth, year: 2024, month: time.March, want: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{name: "last of leap february", rule: valueobject.PaymentDayLast, year: 2024, month: time.February, want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "last of april", rule: valueobject.PaymentDayLast, year: 2023, month: time.April, want: time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.In(tt.year, tt.month))
		})
	}
}
