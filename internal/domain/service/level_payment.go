package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

var (
	two             = decimal.NewFromInt(2)
	bracketHeadroom = decimal.NewFromInt(1000)
)

// BalanceSimulator runs a whole schedule at a fixed installment and returns
// the balance left after the last period, before any closing adjustment. It
// must be non-increasing in payment.
type BalanceSimulator func(payment decimal.Decimal) (decimal.Decimal, error)

// LevelPaymentSolution is the solved installment and the balance it leaves.
type LevelPaymentSolution struct {
	Payment    decimal.Decimal
	Residual   decimal.Decimal
	Expansions int
	Iterations int
}

// SolveLevelPayment finds the smallest installment that amortizes principal
// to zero. The upper bracket doubles until the simulated balance reaches zero,
// then bisection narrows [low, high] until it is no wider than the tolerance.
// Both loops are capped by cfg.
func SolveLevelPayment(
	principal decimal.Decimal,
	simulate BalanceSimulator,
	rounding valueobject.RoundingPolicy,
	cfg CalculationConfig,
) (LevelPaymentSolution, error) {
	cfg = cfg.withDefaults()

	low := decimal.Zero
	high := decimal.Max(principal, principal.Add(bracketHeadroom))

	var sol LevelPaymentSolution
	for ; sol.Expansions < cfg.MaxBracketExpansions; sol.Expansions++ {
		balance, err := simulate(high)
		if err != nil {
			return LevelPaymentSolution{}, fmt.Errorf("simulate payment %s: %w", high, err)
		}
		if !balance.IsPositive() {
			break
		}
		low = high
		high = high.Mul(two)
	}

	for ; sol.Iterations < cfg.MaxBisectionIterations; sol.Iterations++ {
		if high.Sub(low).LessThanOrEqual(cfg.LevelPaymentTolerance) {
			break
		}
		mid := low.Add(high).Div(two)
		balance, err := simulate(mid)
		if err != nil {
			return LevelPaymentSolution{}, fmt.Errorf("simulate payment %s: %w", mid, err)
		}
		if balance.IsPositive() {
			low = mid
		} else {
			high = mid
		}
	}

	sol.Payment = rounding.Round(low.Add(high).Div(two))
	residual, err := simulate(sol.Payment)
	if err != nil {
		return LevelPaymentSolution{}, fmt.Errorf("simulate payment %s: %w", sol.Payment, err)
	}
	sol.Residual = residual
	return sol, nil
}
