package service

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
)

const (
	aprInitialGuess      = 0.10
	aprNewtonIterations  = 50
	aprBisectIterations  = 200
	aprLowerBound        = -0.99
	aprNewtonUpperBound  = 10.0
	aprBisectUpperBound  = 1.0
	aprTolerance         = 1e-8
	aprDerivativeEpsilon = 1e-12
	aprDaysPerYear       = 365.0
	aprResultDecimals    = 4
)

type cashFlow struct {
	date   time.Time
	amount float64
	years  float64
}

// ComputeAnnualPercentageRate returns the effective annual rate, in percent,
// that discounts every installment of result back to the net disbursement.
// Newton-Raphson runs first; bisection takes over when it fails to converge.
// It returns zero for a schedule with no installments.
func ComputeAnnualPercentageRate(params model.CreditParameters, result model.ScheduleResult) decimal.Decimal {
	flows := aprCashFlows(params, result)
	if len(flows) < 2 {
		return decimal.Zero
	}

	rate, ok := aprNewton(flows)
	if !ok {
		rate = aprBisect(flows)
	}
	// Round rounds half away from zero.
	return decimal.NewFromFloat(rate * 100).Round(aprResultDecimals)
}

func aprCashFlows(params model.CreditParameters, result model.ScheduleResult) []cashFlow {
	start := model.Date(params.StartDate)
	disbursed, _ := params.Disbursement().Float64()

	flows := make([]cashFlow, 0, len(result.Items)+1)
	flows = append(flows, cashFlow{date: start, amount: disbursed})
	for _, it := range result.Items {
		amount, _ := it.TotalPayment.Float64()
		flows = append(flows, cashFlow{date: model.Date(it.PaymentDate), amount: -amount})
	}
	sort.SliceStable(flows, func(i, j int) bool { return flows[i].date.Before(flows[j].date) })

	for i := range flows {
		flows[i].years = float64(model.DaysBetween(start, flows[i].date)) / aprDaysPerYear
	}
	return flows
}

// npv returns Σ cf × (1+r)^(−t) and its derivative in r.
func npv(flows []cashFlow, r float64) (value, derivative float64) {
	for _, f := range flows {
		discount := math.Pow(1+r, -f.years)
		value += f.amount * discount
		derivative += -f.years * f.amount * discount / (1 + r)
	}
	return value, derivative
}

func aprNewton(flows []cashFlow) (float64, bool) {
	r := aprInitialGuess
	for i := 0; i < aprNewtonIterations; i++ {
		value, derivative := npv(flows, r)
		if math.Abs(value) < aprTolerance {
			return r, true
		}
		if math.Abs(derivative) < aprDerivativeEpsilon {
			return 0, false
		}
		next := r - value/derivative
		if math.IsNaN(next) || next <= aprLowerBound || next > aprNewtonUpperBound {
			return 0, false
		}
		if math.Abs(next-r) < aprTolerance {
			return next, true
		}
		r = next
	}
	return 0, false
}

func aprBisect(flows []cashFlow) float64 {
	low, high := aprLowerBound, aprBisectUpperBound
	lowValue, _ := npv(flows, low)
	for i := 0; i < aprBisectIterations; i++ {
		mid := (low + high) / 2
		value, _ := npv(flows, mid)
		if math.Abs(value) < aprTolerance {
			return mid
		}
		if (value > 0) == (lowValue > 0) {
			low, lowValue = mid, value
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}
