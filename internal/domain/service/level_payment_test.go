package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
)

// interestFree simulates n installments with no interest.
func interestFree(principal decimal.Decimal, n int) service.BalanceSimulator {
	return func(payment decimal.Decimal) (decimal.Decimal, error) {
		remaining := principal
		for i := 0; i < n; i++ {
			remaining = remaining.Sub(decimal.Min(payment, remaining))
		}
		return remaining, nil
	}
}

// monthlyRate simulates n installments at a fixed monthly rate.
func monthlyRate(principal, rate decimal.Decimal, n int) service.BalanceSimulator {
	return func(payment decimal.Decimal) (decimal.Decimal, error) {
		remaining := principal
		for i := 0; i < n; i++ {
			interest := remaining.Mul(rate).Round(4)
			p := decimal.Max(decimal.Zero, decimal.Min(payment.Sub(interest), remaining))
			remaining = remaining.Sub(p)
		}
		return remaining, nil
	}
}

func TestSolveLevelPayment_ZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(1200)
	sol, err := service.SolveLevelPayment(principal, interestFree(principal, 12), policy(t, 4), service.DefaultCalculationConfig())
	require.NoError(t, err)

	assert.True(t, sol.Payment.Equal(dec("100")), "payment %s", sol.Payment)
	assert.True(t, sol.Residual.IsZero())
	assert.Zero(t, sol.Expansions)
}

func TestSolveLevelPayment_MatchesClosedForm(t *testing.T) {
	// 100,000 at 0.5% a month over 360 months: 599.55.
	principal := decimal.NewFromInt(100000)
	sol, err := service.SolveLevelPayment(principal, monthlyRate(principal, dec("0.005"), 360), policy(t, 4), service.DefaultCalculationConfig())
	require.NoError(t, err)

	approxEqual(t, dec("599.5505"), sol.Payment, "0.01")
	approxEqual(t, decimal.Zero, sol.Residual, "0.1")
	assert.Positive(t, sol.Iterations)
}

func TestSolveLevelPayment_ExpandsBracket(t *testing.T) {
	// One period at 20,000%: the installment is far above principal + 1000.
	principal := decimal.NewFromInt(1000)
	sol, err := service.SolveLevelPayment(principal, monthlyRate(principal, dec("200"), 1), policy(t, 4), service.DefaultCalculationConfig())
	require.NoError(t, err)

	assert.Positive(t, sol.Expansions)
	approxEqual(t, dec("201000"), sol.Payment, "0.0001")
}

func TestSolveLevelPayment_BoundedIterations(t *testing.T) {
	cfg := service.DefaultCalculationConfig()
	cfg.MaxBisectionIterations = 5
	cfg.MaxBracketExpansions = 2

	principal := decimal.NewFromInt(1000)
	never := func(decimal.Decimal) (decimal.Decimal, error) { return principal, nil }

	sol, err := service.SolveLevelPayment(principal, never, policy(t, 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, sol.Expansions)
	assert.Equal(t, 5, sol.Iterations)
}

func TestSolveLevelPayment_SimulatorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := service.SolveLevelPayment(decimal.NewFromInt(1000),
		func(decimal.Decimal) (decimal.Decimal, error) { return decimal.Zero, boom },
		policy(t, 4), service.DefaultCalculationConfig())
	assert.ErrorIs(t, err, boom)
}
