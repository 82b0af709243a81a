package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

// ScheduleCalculator is a domain service that turns credit parameters and a
// base-rate timeline into an amortization schedule. It holds only
// configuration and is safe for concurrent use.
type ScheduleCalculator struct {
	cfg         CalculationConfig
	newInterest func(valueobject.InterestMode) (InterestStrategy, error)
}

// NewScheduleCalculator creates a calculator; zero config fields take defaults.
func NewScheduleCalculator(cfg CalculationConfig) *ScheduleCalculator {
	return &ScheduleCalculator{cfg: cfg.withDefaults(), newInterest: NewInterestStrategy}
}

// Config returns the effective configuration.
func (c *ScheduleCalculator) Config() CalculationConfig { return c.cfg }

// run is the per-call state of one calculation.
type run struct {
	cfg       CalculationConfig
	params    model.CreditParameters
	timeline  model.RateTimeline
	dates     []time.Time
	interest  InterestStrategy
	principal PrincipalStrategy
	target    decimal.NullDecimal
	log       *model.CalculationLog

	// factors caches the principal-independent growth of each period for
	// compounding strategies, indexed by payment.
	factors []*periodFactor
}

// Calculate validates the input, generates payment dates, solves the level
// payment when installments are equal, and builds the schedule period by
// period. It returns either a complete schedule or an error; never both.
func (c *ScheduleCalculator) Calculate(
	params model.CreditParameters,
	periods []model.RatePeriod,
	includeLog bool,
) (model.ScheduleResult, error) {
	if err := params.Validate(); err != nil {
		return model.ScheduleResult{}, err
	}
	params.StartDate, params.EndDate = model.Date(params.StartDate), model.Date(params.EndDate)

	timeline, err := model.NewRateTimeline(periods, params.StartDate, params.EndDate)
	if err != nil {
		return model.ScheduleResult{}, err
	}

	dates, err := GeneratePaymentDates(params.StartDate, params.EndDate, params.Frequency, params.PaymentDay, c.cfg.MaxPayments)
	if err != nil {
		return model.ScheduleResult{}, err
	}

	newInterest := c.newInterest
	if newInterest == nil {
		newInterest = NewInterestStrategy
	}
	interest, err := newInterest(params.InterestMode)
	if err != nil {
		return model.ScheduleResult{}, err
	}
	principal, err := NewPrincipalStrategy(params.Repayment, params.Rounding.Round(params.Principal), len(dates), params.Rounding)
	if err != nil {
		return model.ScheduleResult{}, err
	}

	r := &run{
		cfg:       c.cfg,
		params:    params,
		timeline:  timeline,
		dates:     dates,
		interest:  interest,
		principal: principal,
		factors:   make([]*periodFactor, len(dates)),
	}
	if includeLog {
		r.log = model.NewCalculationLog()
	}
	r.log.Add(model.LogEntry{
		Description: "Payment dates generated",
		Formula:     "dates(start, end, frequency, day)",
		Substituted: fmt.Sprintf("dates(%s, %s, %s, %s)", model.FormatDate(params.StartDate),
			model.FormatDate(params.EndDate), params.Frequency, params.PaymentDay),
		Result: fmt.Sprintf("%d payments", len(dates)),
		Tags:   []string{"dates"},
	})

	if params.Repayment.Equal(valueobject.RepaymentEqualInstallments) {
		sol, err := SolveLevelPayment(r.opening(), r.endingBalance, params.Rounding, c.cfg)
		if err != nil {
			return model.ScheduleResult{}, fmt.Errorf("solve level payment: %w", err)
		}
		r.target = decimal.NewNullDecimal(sol.Payment)
		r.log.Add(model.LogEntry{
			Description: "Level payment solved by bisection",
			Formula:     "find P: balance_n(P) = 0",
			Substituted: fmt.Sprintf("%d expansions, %d iterations", sol.Expansions, sol.Iterations),
			Result:      fmt.Sprintf("P = %s (residual %s)", sol.Payment, sol.Residual),
			Tags:        []string{"level_payment"},
		})
	}

	return r.schedule()
}

func (r *run) opening() decimal.Decimal {
	return r.params.Rounding.Round(r.params.Principal)
}

// accrue computes rounded interest on remaining for payment i, the period
// from..to.
func (r *run) accrue(i int, from, to time.Time, remaining decimal.Decimal) (InterestResult, decimal.Decimal, error) {
	res, err := r.accrual(i, InterestInput{
		From:       from,
		To:         to,
		Principal:  remaining,
		MarginRate: r.params.MarginRate,
		Timeline:   r.timeline,
		DayCount:   r.params.DayCount,
	})
	if err != nil {
		return InterestResult{}, decimal.Zero, fmt.Errorf("interest for %s..%s: %w",
			model.FormatDate(from), model.FormatDate(to), err)
	}
	return res, r.params.Rounding.Round(res.Interest), nil
}

func (r *run) accrual(i int, in InterestInput) (InterestResult, error) {
	fa, ok := r.interest.(factoredAccrual)
	if !ok {
		return r.interest.Calculate(in)
	}
	if r.factors[i] == nil {
		f, err := fa.periodFactor(in)
		if err != nil {
			return InterestResult{}, err
		}
		r.factors[i] = &f
	}
	return fa.apply(*r.factors[i], in), nil
}

// endingBalance simulates every period at a fixed installment with principal
// clamp(payment − interest, 0, remaining) and no closing adjustment.
func (r *run) endingBalance(payment decimal.Decimal) (decimal.Decimal, error) {
	round := r.params.Rounding.Round
	remaining := r.opening()
	prev := r.params.StartDate
	for i, date := range r.dates {
		_, interest, err := r.accrue(i, prev, date, remaining)
		if err != nil {
			return decimal.Zero, err
		}
		principal := round(clamp(payment.Sub(interest), decimal.Zero, remaining))
		remaining = round(remaining.Sub(principal))
		prev = date
	}
	return remaining, nil
}

func (r *run) schedule() (model.ScheduleResult, error) {
	round := r.params.Rounding.Round
	result := model.ScheduleResult{
		Items:         make([]model.ScheduleItem, 0, len(r.dates)),
		TargetPayment: r.target,
		Log:           r.log,
	}

	remaining := r.opening()
	prev := r.params.StartDate
	for i, date := range r.dates {
		last := i == len(r.dates)-1
		days := model.DaysBetween(prev, date)
		r.log.Add(model.LogEntry{
			Description: fmt.Sprintf("Period %d: %s to %s", i+1, model.FormatDate(prev), model.FormatDate(date)),
			Formula:     "days = payment date - previous date",
			Substituted: fmt.Sprintf("%s - %s", model.FormatDate(date), model.FormatDate(prev)),
			Result:      fmt.Sprintf("%d", days),
			Tags:        []string{"period"},
		})

		accrual, interest, err := r.accrue(i, prev, date, remaining)
		if err != nil {
			return model.ScheduleResult{}, err
		}
		r.logInterest(remaining, accrual, interest)

		var warn model.Warning
		if r.target.Valid && !last && interest.GreaterThan(r.target.Decimal) {
			warn |= model.WarningInterestExceedsInstallment
		}

		raw, err := r.principal.Calculate(PrincipalContext{
			RemainingPrincipal: remaining,
			InterestAmount:     interest,
			PaymentIndex:       i,
			TotalPayments:      len(r.dates),
			IsLastPayment:      last,
			TargetTotalPayment: r.target,
		})
		if err != nil {
			return model.ScheduleResult{}, fmt.Errorf("principal for payment %d: %w", i+1, err)
		}
		if raw.IsNegative() {
			if r.cfg.Strict {
				return model.ScheduleResult{}, fmt.Errorf("payment %d on %s: %w", i+1, model.FormatDate(date), model.ErrNegativeAmortization)
			}
			warn |= model.WarningNegativeAmortization
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"payment %d on %s: installment does not cover interest %s; principal set to 0",
				i+1, model.FormatDate(date), interest))
			raw = decimal.Zero
		}

		principal := round(raw)
		remaining = round(remaining.Sub(principal))
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		total := interest.Add(principal)
		r.logPrincipal(principal, remaining, last)

		item := model.ScheduleItem{
			PaymentDate:          date,
			Days:                 days,
			EffectiveRate:        round(accrual.EffectiveRate),
			Interest:             interest,
			Principal:            principal,
			TotalPayment:         total,
			RemainingPrincipal:   remaining,
			Warnings:             warn,
		}
		if accrual.NominalRate.Valid {
			item.NominalRate = decimal.NewNullDecimal(round(accrual.NominalRate.Decimal))
		}
		if accrual.PeriodRate.Valid {
			item.PeriodRate = decimal.NewNullDecimal(round(accrual.PeriodRate.Decimal))
		}
		result.Items = append(result.Items, item)
		prev = date
	}

	return r.toCash(result)
}

// toCash re-rounds every amount to two decimals. The running balance is
// recomputed from the rounded principals, interest is accrued again on that
// reported balance, and the last row takes whatever is left, so every row is
// consistent with the balance printed above it and the schedule closes at
// zero. The final-payment flag is decided on the reported amounts.
func (r *run) toCash(result model.ScheduleResult) (model.ScheduleResult, error) {
	cash := valueobject.CashPolicy(r.params.Rounding.Mode())

	var target decimal.Decimal
	if r.target.Valid {
		target = cash.Round(r.target.Decimal)
		result.TargetPayment = decimal.NewNullDecimal(target)
	}

	remaining := cash.Round(r.params.Principal)
	prev := r.params.StartDate
	for i := range result.Items {
		it := &result.Items[i]
		_, accrued, err := r.accrue(i, prev, it.PaymentDate, remaining)
		if err != nil {
			return model.ScheduleResult{}, err
		}
		interest := cash.Round(accrued)
		prev = it.PaymentDate

		var principal decimal.Decimal
		switch {
		case i == len(result.Items)-1:
			principal = remaining
		case r.target.Valid && !it.Warnings.Has(model.WarningNegativeAmortization):
			principal = clamp(target.Sub(interest), decimal.Zero, remaining)
		default:
			principal = decimal.Min(cash.Round(it.Principal), remaining)
		}
		remaining = remaining.Sub(principal)

		it.Interest = interest
		it.Principal = principal
		it.TotalPayment = interest.Add(principal)
		it.RemainingPrincipal = remaining
		r.log.Add(model.LogEntry{
			Description: fmt.Sprintf("Payment %d reported", i+1),
			Formula:     "total = round2(interest on reported balance) + principal",
			Substituted: fmt.Sprintf("%s + %s", interest, principal),
			Result:      it.TotalPayment.String(),
			Tags:        []string{"cash"},
		})
	}

	if r.target.Valid && len(result.Items) > 0 {
		last := &result.Items[len(result.Items)-1]
		result.ActualFinalPayment = decimal.NewNullDecimal(last.TotalPayment)
		if last.TotalPayment.Sub(target).Abs().GreaterThan(r.cfg.FinalPaymentTolerance) {
			last.FinalPaymentAdjusted = true
			last.Warnings |= model.WarningFinalPaymentAdjusted
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"final payment %s differs from level payment %s", last.TotalPayment, target))
		}
	}
	return result, nil
}

func (r *run) logInterest(remaining decimal.Decimal, accrual InterestResult, rounded decimal.Decimal) {
	if r.log == nil {
		return
	}
	basis := r.params.DayCount.Denominator()
	for _, c := range accrual.Breakdown {
		formula := "principal × (base + margin) / 100 / basis × days"
		substituted := fmt.Sprintf("%s × (%s + %s) / 100 / %s × %d",
			remaining, c.BaseRate, c.MarginRate, basis, c.Days)
		switch r.interest.(type) {
		case CompoundDailyAccrual:
			formula = "compounded × ((1 + (base + margin) / 100 / basis)^days - 1)"
			substituted = fmt.Sprintf("%s × ((1 + (%s + %s) / 100 / %s)^%d - 1)",
				c.Compounded.Round(workingPrecision/2), c.BaseRate, c.MarginRate, basis, c.Days)
		case NextPeriodRateAccrual:
			formula = "principal × (opening base + margin) / 100 / basis × days"
		}
		r.log.Add(model.LogEntry{
			Description: fmt.Sprintf("Rate in effect from %s for %d days: base %s%% + margin %s%%",
				model.FormatDate(c.From), c.Days, c.BaseRate, c.MarginRate),
			Formula:     formula,
			Substituted: substituted,
			Result:      c.Interest.Round(workingPrecision / 2).String(),
			Tags:        []string{"interest", "chunk"},
		})
	}
	if accrual.PeriodRate.Valid {
		r.log.Add(model.LogEntry{
			Description: "Compounded period rate",
			Formula:     "interest = principal × period rate",
			Substituted: fmt.Sprintf("%s × %s", remaining, accrual.PeriodRate.Decimal.Round(workingPrecision/2)),
			Result:      accrual.Interest.Round(workingPrecision / 2).String(),
			Tags:        []string{"interest", "compound"},
		})
	}
	r.log.Add(model.LogEntry{
		Description: "Interest rounded",
		Formula:     "round(interest)",
		Substituted: fmt.Sprintf("round(%s, %s, %d)", accrual.Interest.Round(workingPrecision/2),
			r.params.Rounding.Mode(), r.params.Rounding.Decimals()),
		Result: rounded.String(),
		Tags:   []string{"interest", "rounding"},
	})
}

func (r *run) logPrincipal(principal, remaining decimal.Decimal, last bool) {
	if r.log == nil {
		return
	}
	formula := "principal = " + r.params.Repayment.String()
	if last {
		formula = "principal = remaining (final payment)"
	}
	r.log.Add(model.LogEntry{
		Description: "Principal repaid",
		Formula:     formula,
		Result:      principal.String(),
		Tags:        []string{"principal"},
	})
	r.log.Add(model.LogEntry{
		Description: "Remaining principal",
		Formula:     "remaining = round(remaining - principal)",
		Result:      remaining.String(),
		Tags:        []string{"balance"},
	})
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(v, hi))
}
