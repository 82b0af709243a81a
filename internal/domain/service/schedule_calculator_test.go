package service_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

func newCalculator() *service.ScheduleCalculator {
	return service.NewScheduleCalculator(service.DefaultCalculationConfig())
}

// assertFinalPaymentFlag checks that the final-payment flag, its warning bit
// and the result warning all agree with the reported amounts.
func assertFinalPaymentFlag(t *testing.T, result model.ScheduleResult) {
	t.Helper()
	require.True(t, result.TargetPayment.Valid)
	require.NotEmpty(t, result.Items)

	last := result.Items[len(result.Items)-1]
	diff := last.TotalPayment.Sub(result.TargetPayment.Decimal).Abs()
	want := diff.GreaterThan(dec("0.01"))

	assert.Equal(t, want, last.FinalPaymentAdjusted,
		"final %s, target %s", last.TotalPayment, result.TargetPayment.Decimal)
	assert.Equal(t, want, last.Warnings.Has(model.WarningFinalPaymentAdjusted))

	var warned bool
	for _, w := range result.Warnings {
		warned = warned || strings.HasPrefix(w, "final payment ")
	}
	assert.Equal(t, want, warned, "warnings %v", result.Warnings)
	for _, it := range result.Items[:len(result.Items)-1] {
		assert.False(t, it.FinalPaymentAdjusted)
	}
}

func TestCalculate_SinglePeriod(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)
	params.EndDate = day(2024, 2, 1)

	result, err := newCalculator().Calculate(params, flatRate("4"), false)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	// round(10000 × 0.05 / 365 × 31) = 42.4658, reported as 42.47
	item := result.Items[0]
	assert.Equal(t, day(2024, 2, 1), item.PaymentDate)
	assert.Equal(t, 31, item.Days)
	assert.True(t, item.Interest.Equal(dec("42.47")), "interest %s", item.Interest)
	assert.True(t, item.Principal.Equal(dec("10000")), "principal %s", item.Principal)
	assert.True(t, item.RemainingPrincipal.IsZero())
	assert.True(t, item.EffectiveRate.Equal(dec("5")))
	assert.False(t, item.FinalPaymentAdjusted)

	require.True(t, result.TargetPayment.Valid)
	assert.True(t, result.TargetPayment.Decimal.Equal(dec("10042.47")), "target %s", result.TargetPayment.Decimal)
	require.True(t, result.ActualFinalPayment.Valid)
	assert.True(t, result.ActualFinalPayment.Decimal.Equal(dec("10042.47")))
	assert.Nil(t, result.Log)
}

func TestCalculate_BulletAcrossRateChange(t *testing.T) {
	params := model.CreditParameters{
		Principal:    decimal.NewFromInt(5000),
		Frequency:    valueobject.FrequencyDaily,
		StartDate:    day(2024, 3, 30),
		EndDate:      day(2024, 4, 2),
		DayCount:     valueobject.DayCountActual365,
		Rounding:     policy(t, 4),
		Repayment:    valueobject.RepaymentBullet,
		InterestMode: valueobject.InterestSimpleDaily,
	}

	result, err := newCalculator().Calculate(params, rateStep(), false)
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	wantPrincipal := []string{"0", "0", "5000"}
	wantInterest := []string{"0.41", "0.41", "0.82"}
	for i, it := range result.Items {
		assert.True(t, it.Principal.Equal(dec(wantPrincipal[i])), "principal[%d] = %s", i, it.Principal)
		assert.True(t, it.Interest.Equal(dec(wantInterest[i])), "interest[%d] = %s", i, it.Interest)
	}
	assert.True(t, result.TotalInterest().Equal(dec("1.64")), "total interest %s", result.TotalInterest())
	assert.True(t, result.Items[2].RemainingPrincipal.IsZero())
	assert.False(t, result.TargetPayment.Valid)
	assert.False(t, result.ActualFinalPayment.Valid)
}

func TestCalculate_Properties(t *testing.T) {
	styles := []valueobject.RepaymentStyle{
		valueobject.RepaymentBullet,
		valueobject.RepaymentDecreasingInstallments,
		valueobject.RepaymentEqualInstallments,
	}
	modes := []valueobject.InterestMode{
		valueobject.InterestSimpleDaily,
		valueobject.InterestNextPeriodRate,
		valueobject.InterestCompoundDaily,
		valueobject.InterestCompoundMonthly,
		valueobject.InterestCompoundQuarterly,
	}
	rates := []model.RatePeriod{
		{DateFrom: day(2023, 1, 1), DateTo: day(2024, 5, 14), BaseRate: dec("4.25")},
		{DateFrom: day(2024, 5, 15), DateTo: day(2024, 9, 30), BaseRate: dec("5.1")},
		{DateFrom: day(2024, 10, 1), DateTo: day(2026, 12, 31), BaseRate: dec("3.9")},
	}

	for _, style := range styles {
		for _, mode := range modes {
			t.Run(style.String()+"/"+mode.String(), func(t *testing.T) {
				params := yearlyLoan(t, style)
				params.InterestMode = mode

				result, err := newCalculator().Calculate(params, rates, false)
				require.NoError(t, err)
				require.Len(t, result.Items, 12)
				if style.Equal(valueobject.RepaymentEqualInstallments) {
					assertFinalPaymentFlag(t, result)
					assert.LessOrEqual(t, len(result.Warnings), 1, "warnings %v", result.Warnings)
				} else {
					assert.Empty(t, result.Warnings)
				}

				assert.True(t, result.TotalPrincipal().Equal(params.Principal),
					"principal repaid %s", result.TotalPrincipal())

				previous := params.Principal
				for i, it := range result.Items {
					assert.True(t, it.RemainingPrincipal.LessThanOrEqual(previous), "balance grew at %d", i)
					assert.True(t, it.TotalPayment.Equal(it.Interest.Add(it.Principal)))
					assert.True(t, it.Interest.IsPositive(), "interest[%d] = %s", i, it.Interest)
					previous = it.RemainingPrincipal
				}
				assert.True(t, result.Items[11].RemainingPrincipal.IsZero())

				for _, it := range result.Items[:11] {
					switch {
					case style.Equal(valueobject.RepaymentBullet):
						assert.True(t, it.Principal.IsZero())
					case style.Equal(valueobject.RepaymentDecreasingInstallments):
						assert.True(t, it.Principal.Equal(dec("833.33")), "step %s", it.Principal)
					case style.Equal(valueobject.RepaymentEqualInstallments):
						assert.True(t, it.TotalPayment.Equal(result.TargetPayment.Decimal),
							"installment %s, target %s", it.TotalPayment, result.TargetPayment.Decimal)
					}
				}

				if style.Equal(valueobject.RepaymentEqualInstallments) {
					last := result.Items[11]
					approxEqual(t, result.TargetPayment.Decimal, last.TotalPayment, "0.15")
					assert.True(t, result.ActualFinalPayment.Decimal.Equal(last.TotalPayment))
				}
			})
		}
	}
}

func TestCalculate_DailyAnnuity(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)
	params.Frequency = valueobject.FrequencyDaily
	params.PaymentDay = valueobject.PaymentDay{}
	params.EndDate = day(2024, 3, 1)

	result, err := newCalculator().Calculate(params, flatRate("4"), false)
	require.NoError(t, err)
	require.Len(t, result.Items, 60)

	assert.True(t, result.TotalPrincipal().Equal(params.Principal))
	assert.True(t, result.Items[59].RemainingPrincipal.IsZero())
	for _, it := range result.Items[:59] {
		assert.True(t, it.TotalPayment.Equal(result.TargetPayment.Decimal))
	}
}

// spike is 0% except for February 2024, which is at 1000%.
func spike() []model.RatePeriod {
	return []model.RatePeriod{
		{DateFrom: day(2024, 1, 1), DateTo: day(2024, 1, 31), BaseRate: dec("0")},
		{DateFrom: day(2024, 2, 1), DateTo: day(2024, 2, 29), BaseRate: dec("1000")},
		{DateFrom: day(2024, 3, 1), DateTo: day(2025, 12, 31), BaseRate: dec("0")},
	}
}

func TestCalculate_NegativeAmortization(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)
	params.MarginRate = decimal.Zero

	t.Run("warns", func(t *testing.T) {
		result, err := newCalculator().Calculate(params, spike(), false)
		require.NoError(t, err)
		require.Len(t, result.Items, 12)
		require.NotEmpty(t, result.Warnings)

		// February's interest is charged on the March 1 payment.
		feb := result.Items[1]
		assert.True(t, feb.Warnings.Has(model.WarningNegativeAmortization))
		assert.True(t, feb.Warnings.Has(model.WarningInterestExceedsInstallment))
		assert.True(t, feb.Principal.IsZero())
		assert.True(t, feb.RemainingPrincipal.Equal(result.Items[0].RemainingPrincipal))

		assert.True(t, result.TotalPrincipal().Equal(params.Principal))
		assert.True(t, result.Items[11].RemainingPrincipal.IsZero())
	})

	t.Run("strict fails", func(t *testing.T) {
		cfg := service.DefaultCalculationConfig()
		cfg.Strict = true

		result, err := service.NewScheduleCalculator(cfg).Calculate(params, spike(), false)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNegativeAmortization)
		assert.Empty(t, result.Items)
	})
}

func TestCalculate_ShortFinalPeriod(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)
	params.EndDate = day(2024, 12, 5)

	result, err := newCalculator().Calculate(params, flatRate("4"), false)
	require.NoError(t, err)
	require.Len(t, result.Items, 12)

	last := result.Items[11]
	assert.Equal(t, 4, last.Days)
	assert.True(t, result.Items[11].RemainingPrincipal.IsZero())
	assert.True(t, result.TotalPrincipal().Equal(params.Principal))
	assertFinalPaymentFlag(t, result)
}

func TestCalculate_FinalPaymentFlagMatchesReportedAmounts(t *testing.T) {
	modes := []valueobject.InterestMode{
		valueobject.InterestCompoundDaily,
		valueobject.InterestSimpleDaily,
	}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			params := model.CreditParameters{
				Principal:    decimal.NewFromInt(300000),
				MarginRate:   decimal.NewFromInt(1),
				Frequency:    valueobject.FrequencyMonthly,
				PaymentDay:   valueobject.PaymentDayTenth,
				StartDate:    day(2024, 1, 15),
				EndDate:      day(2034, 1, 15),
				DayCount:     valueobject.DayCountActual365,
				Rounding:     policy(t, 4),
				Repayment:    valueobject.RepaymentEqualInstallments,
				InterestMode: mode,
			}

			result, err := newCalculator().Calculate(params, flatRate("4.37"), false)
			require.NoError(t, err)
			require.NotEmpty(t, result.Items)

			assertFinalPaymentFlag(t, result)
			last := result.Items[len(result.Items)-1]
			assert.True(t, last.RemainingPrincipal.IsZero())
			assert.True(t, result.TotalPrincipal().Equal(params.Principal))
			assert.True(t, result.ActualFinalPayment.Decimal.Equal(last.TotalPayment))
		})
	}
}

func TestCalculate_ReportedInterestFollowsReportedBalance(t *testing.T) {
	for _, mode := range []valueobject.InterestMode{
		valueobject.InterestSimpleDaily,
		valueobject.InterestCompoundDaily,
		valueobject.InterestCompoundMonthly,
	} {
		t.Run(mode.String(), func(t *testing.T) {
			params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)
			params.InterestMode = mode
			interest, err := service.NewInterestStrategy(mode)
			require.NoError(t, err)
			tl := timeline(t, flatRate("4"))

			result, err := newCalculator().Calculate(params, flatRate("4"), false)
			require.NoError(t, err)

			balance := params.Principal
			prev := params.StartDate
			for i, it := range result.Items {
				res, err := interest.Calculate(service.InterestInput{
					From: prev, To: it.PaymentDate, Principal: balance,
					MarginRate: params.MarginRate, Timeline: tl, DayCount: params.DayCount,
				})
				require.NoError(t, err)
				want := valueobject.CashPolicy(params.Rounding.Mode()).Round(params.Rounding.Round(res.Interest))
				assert.True(t, it.Interest.Equal(want), "interest[%d] = %s, want %s", i, it.Interest, want)

				balance = it.RemainingPrincipal
				prev = it.PaymentDate
			}
		})
	}
}

func TestCalculate_NarrativeLog(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)

	result, err := newCalculator().Calculate(params, flatRate("4"), true)
	require.NoError(t, err)
	require.NotNil(t, result.Log)

	entries := result.Log.Entries()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].Tags, "dates")

	var sawSolver, sawChunk bool
	for _, e := range entries {
		for _, tag := range e.Tags {
			sawSolver = sawSolver || tag == "level_payment"
			sawChunk = sawChunk || tag == "chunk"
		}
	}
	assert.True(t, sawSolver)
	assert.True(t, sawChunk)

	params.InterestMode = valueobject.InterestCompoundDaily
	compound, err := newCalculator().Calculate(params, flatRate("4"), true)
	require.NoError(t, err)
	var formulas []string
	for _, e := range compound.Log.Entries() {
		if len(e.Tags) == 2 && e.Tags[1] == "chunk" {
			formulas = append(formulas, e.Formula)
		}
	}
	require.NotEmpty(t, formulas)
	for _, f := range formulas {
		assert.Contains(t, f, "^days")
	}

	params.InterestMode = valueobject.InterestSimpleDaily
	plain, err := newCalculator().Calculate(params, flatRate("4"), false)
	require.NoError(t, err)
	require.Len(t, plain.Items, len(result.Items))
	for i := range plain.Items {
		assert.True(t, plain.Items[i].TotalPayment.Equal(result.Items[i].TotalPayment))
	}
}

func TestCalculate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreditParameters)
		rates  []model.RatePeriod
		want   error
	}{
		{
			name:   "end before start",
			mutate: func(p *model.CreditParameters) { p.EndDate = day(2023, 6, 1) },
			rates:  flatRate("4"),
			want:   model.ErrInvalidParameter,
		},
		{
			name:  "empty timeline",
			rates: nil,
			want:  model.ErrRateTimelineEmpty,
		},
		{
			name: "gap",
			rates: []model.RatePeriod{
				{DateFrom: day(2023, 1, 1), DateTo: day(2024, 5, 31), BaseRate: dec("4")},
				{DateFrom: day(2024, 6, 2), DateTo: day(2025, 12, 31), BaseRate: dec("4")},
			},
			want: model.ErrRateTimelineGap,
		},
		{
			name: "overlap",
			rates: []model.RatePeriod{
				{DateFrom: day(2023, 1, 1), DateTo: day(2024, 5, 31), BaseRate: dec("4")},
				{DateFrom: day(2024, 5, 31), DateTo: day(2025, 12, 31), BaseRate: dec("4")},
			},
			want: model.ErrRateTimelineOverlap,
		},
		{
			name:  "not covering credit",
			rates: []model.RatePeriod{{DateFrom: day(2024, 1, 1), DateTo: day(2024, 6, 30), BaseRate: dec("4")}},
			want:  model.ErrRateTimelineUncovered,
		},
		{
			name:   "too many payments",
			mutate: func(p *model.CreditParameters) { p.Frequency = valueobject.FrequencyDaily },
			rates:  flatRate("4"),
			want:   model.ErrInvalidParameter,
		},
	}

	cfg := service.DefaultCalculationConfig()
	cfg.MaxPayments = 100
	calc := service.NewScheduleCalculator(cfg)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := yearlyLoan(t, valueobject.RepaymentDecreasingInstallments)
			if tt.mutate != nil {
				tt.mutate(&params)
			}
			result, err := calc.Calculate(params, tt.rates, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Empty(t, result.Items)
		})
	}
}

func TestCalculate_HalfAwayFromZero(t *testing.T) {
	params := yearlyLoan(t, valueobject.RepaymentDecreasingInstallments)
	p, err := valueobject.NewRoundingPolicy(valueobject.RoundingHalfAwayFromZero, 6)
	require.NoError(t, err)
	params.Rounding = p

	result, err := newCalculator().Calculate(params, flatRate("4"), false)
	require.NoError(t, err)
	assert.True(t, result.TotalPrincipal().Equal(params.Principal))
	assert.True(t, result.Items[0].Principal.Equal(dec("833.33")))
}

func TestCalculate_Concurrent(t *testing.T) {
	calc := newCalculator()
	params := yearlyLoan(t, valueobject.RepaymentEqualInstallments)

	want, err := calc.Calculate(params, flatRate("4"), false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.ScheduleResult, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = calc.Calculate(params, flatRate("4"), true)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.NoError(t, errs[i])
		assert.True(t, got.TotalPayments().Equal(want.TotalPayments()))
		assert.Equal(t, want.Items[0].PaymentDate, got.Items[0].PaymentDate)
	}
}
