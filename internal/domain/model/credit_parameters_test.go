package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

func validParameters(t *testing.T) model.CreditParameters {
	t.Helper()
	policy, err := valueobject.NewRoundingPolicy(valueobject.RoundingHalfEven, 4)
	require.NoError(t, err)
	return model.CreditParameters{
		Principal:    decimal.NewFromInt(10000),
		MarginRate:   decimal.NewFromInt(1),
		Frequency:    valueobject.FrequencyMonthly,
		PaymentDay:   valueobject.PaymentDayFirst,
		StartDate:    day(2024, 1, 1),
		EndDate:      day(2025, 1, 1),
		DayCount:     valueobject.DayCountActual365,
		Rounding:     policy,
		Repayment:    valueobject.RepaymentEqualInstallments,
		InterestMode: valueobject.InterestSimpleDaily,
	}
}

func TestCreditParameters_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validParameters(t).Validate())
	})

	tests := []struct {
		name   string
		mutate func(*model.CreditParameters)
		want   error
	}{
		{name: "zero principal", mutate: func(p *model.CreditParameters) { p.Principal = decimal.Zero }, want: model.ErrInvalidParameter},
		{name: "end equals start", mutate: func(p *model.CreditParameters) { p.EndDate = p.StartDate }, want: model.ErrInvalidParameter},
		{name: "end before start", mutate: func(p *model.CreditParameters) { p.EndDate = day(2023, 12, 1) }, want: model.ErrInvalidParameter},
		{name: "missing repayment style", mutate: func(p *model.CreditParameters) { p.Repayment = valueobject.RepaymentStyle{} }, want: model.ErrUnsupportedValue},
		{name: "missing payment day", mutate: func(p *model.CreditParameters) { p.PaymentDay = valueobject.PaymentDay{} }, want: model.ErrUnsupportedValue},
		{name: "negative fee", mutate: func(p *model.CreditParameters) { p.Fee.Flat = decimal.NewFromInt(-1) }, want: model.ErrInvalidParameter},
		{name: "fee eats principal", mutate: func(p *model.CreditParameters) { p.Fee.Percent = decimal.NewFromInt(100) }, want: model.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParameters(t)
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("daily needs no payment day", func(t *testing.T) {
		p := validParameters(t)
		p.Frequency = valueobject.FrequencyDaily
		p.PaymentDay = valueobject.PaymentDay{}
		assert.NoError(t, p.Validate())
	})
}

func TestCreditParameters_Disbursement(t *testing.T) {
	p := validParameters(t)
	p.Fee = model.UpfrontFee{Percent: decimal.NewFromInt(2), Flat: decimal.NewFromInt(50)}
	assert.True(t, decimal.NewFromInt(9750).Equal(p.Disbursement()), "got %s", p.Disbursement())
}

func TestWarning_Names(t *testing.T) {
	w := model.WarningNegativeAmortization | model.WarningFinalPaymentAdjusted
	assert.True(t, w.Has(model.WarningFinalPaymentAdjusted))
	assert.False(t, w.Has(model.WarningInterestExceedsInstallment))
	assert.Equal(t, []string{"negative_amortization", "final_payment_adjusted"}, w.Names())
}
