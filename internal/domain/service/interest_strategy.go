package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

// InterestInput is everything an accrual strategy needs for one period [From, To).
type InterestInput struct {
	From       time.Time
	To         time.Time
	Principal  decimal.Decimal
	MarginRate decimal.Decimal
	Timeline   model.RateTimeline
	DayCount   valueobject.DayCountBasis
}

// InterestChunk explains the contribution of one constant-rate run of days.
// Compounded is the balance the chunk's growth applies to; it is set only by
// daily compounding.
type InterestChunk struct {
	From          time.Time
	Days          int
	BaseRate      decimal.Decimal
	MarginRate    decimal.Decimal
	EffectiveRate decimal.Decimal
	Compounded    decimal.Decimal
	Interest      decimal.Decimal
}

// InterestResult is the unrounded outcome of an accrual strategy.
type InterestResult struct {
	Interest      decimal.Decimal
	EffectiveRate decimal.Decimal
	NominalRate   decimal.NullDecimal
	PeriodRate    decimal.NullDecimal
	Breakdown     []InterestChunk
}

// InterestStrategy computes the interest accrued over a single period.
type InterestStrategy interface {
	Calculate(in InterestInput) (InterestResult, error)
}

// NewInterestStrategy returns the strategy for an interest mode.
func NewInterestStrategy(mode valueobject.InterestMode) (InterestStrategy, error) {
	switch {
	case mode.Equal(valueobject.InterestSimpleDaily):
		return SimpleDailyAccrual{}, nil
	case mode.Equal(valueobject.InterestNextPeriodRate):
		return NextPeriodRateAccrual{}, nil
	case mode.Equal(valueobject.InterestCompoundDaily):
		return CompoundDailyAccrual{}, nil
	case mode.PeriodsPerYear() > 0:
		return CompoundPeriodicAccrual{PeriodsPerYear: mode.PeriodsPerYear()}, nil
	default:
		return nil, model.NewValidationError(model.ViolationUnsupportedValue, "unsupported interest mode %q", mode)
	}
}

// chunksFor splits the period by rate, failing when the timeline does not cover it.
func chunksFor(in InterestInput) ([]model.RateChunk, error) {
	chunks, ok := in.Timeline.Chunks(in.From, in.To)
	if !ok {
		return nil, model.NewValidationError(model.ViolationMissingCoverage,
			"no base rate for part of %s..%s", model.FormatDate(in.From), model.FormatDate(in.To))
	}
	return chunks, nil
}

// dailyRate converts an annual percentage into a per-day fraction.
func dailyRate(annualPercent decimal.Decimal, basis valueobject.DayCountBasis) decimal.Decimal {
	return annualPercent.DivRound(hundred.Mul(basis.Denominator()), workingPrecision)
}

// weightedRate is Σ(rate × days) / Σdays over the chunks, with margin added.
func weightedRate(chunks []model.RateChunk, margin decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	days := 0
	for _, c := range chunks {
		sum = sum.Add(c.BaseRate.Add(margin).Mul(decimal.NewFromInt(int64(c.Days))))
		days += c.Days
	}
	if days == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(days)), workingPrecision)
}

var hundred = decimal.NewFromInt(100)

// SimpleDailyAccrual charges principal × rate / basis for every day, using the
// rate in effect on that day.
type SimpleDailyAccrual struct{}

func (SimpleDailyAccrual) Calculate(in InterestInput) (InterestResult, error) {
	chunks, err := chunksFor(in)
	if err != nil {
		return InterestResult{}, err
	}

	total := decimal.Zero
	breakdown := make([]InterestChunk, 0, len(chunks))
	for _, c := range chunks {
		effective := c.BaseRate.Add(in.MarginRate)
		interest := in.Principal.Mul(dailyRate(effective, in.DayCount)).Mul(decimal.NewFromInt(int64(c.Days)))
		interest = interest.Round(workingPrecision)
		total = total.Add(interest)
		breakdown = append(breakdown, InterestChunk{
			From: c.From, Days: c.Days, BaseRate: c.BaseRate, MarginRate: in.MarginRate,
			EffectiveRate: effective, Interest: interest,
		})
	}

	return InterestResult{
		Interest:      total,
		EffectiveRate: weightedRate(chunks, in.MarginRate),
		Breakdown:     breakdown,
	}, nil
}

// NextPeriodRateAccrual applies the rate in effect on the first day of the
// period to the whole period; changes take effect from the next period.
type NextPeriodRateAccrual struct{}

func (NextPeriodRateAccrual) Calculate(in InterestInput) (InterestResult, error) {
	base, ok := in.Timeline.RateAt(in.From)
	if !ok {
		return InterestResult{}, model.NewValidationError(model.ViolationMissingCoverage,
			"no base rate on %s", model.FormatDate(in.From))
	}
	if _, err := chunksFor(in); err != nil {
		return InterestResult{}, err
	}

	days := model.DaysBetween(in.From, in.To)
	effective := base.Add(in.MarginRate)
	interest := in.Principal.Mul(dailyRate(effective, in.DayCount)).Mul(decimal.NewFromInt(int64(days)))
	interest = interest.Round(workingPrecision)

	return InterestResult{
		Interest:      interest,
		EffectiveRate: effective,
		Breakdown: []InterestChunk{{
			From: model.Date(in.From), Days: days, BaseRate: base, MarginRate: in.MarginRate,
			EffectiveRate: effective, Interest: interest,
		}},
	}, nil
}

// periodFactor holds the terms of a compounded period that depend only on
// the dates, the margin and the rate timeline.
type periodFactor struct {
	effective decimal.Decimal
	nominal   decimal.NullDecimal
	rate      decimal.Decimal
	chunks    []chunkFactor
}

// chunkFactor is one constant-rate run of a daily-compounded period. factor is
// cumulative over the period up to and including this chunk.
type chunkFactor struct {
	chunk     model.RateChunk
	effective decimal.Decimal
	factor    decimal.Decimal
}

// factoredAccrual is a strategy whose interest is principal × a period rate.
// The factor can be computed once per period and applied to any balance.
type factoredAccrual interface {
	InterestStrategy
	periodFactor(in InterestInput) (periodFactor, error)
	apply(f periodFactor, in InterestInput) InterestResult
}

// CompoundDailyAccrual compounds every day: Π(1 + r_d/basis)^days − 1.
type CompoundDailyAccrual struct{}

func (s CompoundDailyAccrual) Calculate(in InterestInput) (InterestResult, error) {
	f, err := s.periodFactor(in)
	if err != nil {
		return InterestResult{}, err
	}
	return s.apply(f, in), nil
}

func (CompoundDailyAccrual) periodFactor(in InterestInput) (periodFactor, error) {
	chunks, err := chunksFor(in)
	if err != nil {
		return periodFactor{}, err
	}

	factor := one
	out := make([]chunkFactor, 0, len(chunks))
	for _, c := range chunks {
		effective := c.BaseRate.Add(in.MarginRate)
		growth := DecimalPower(one.Add(dailyRate(effective, in.DayCount)), int64(c.Days))
		factor = factor.Mul(growth).Round(workingPrecision)
		out = append(out, chunkFactor{chunk: c, effective: effective, factor: factor})
	}

	return periodFactor{
		effective: weightedRate(chunks, in.MarginRate),
		rate:      factor.Sub(one),
		chunks:    out,
	}, nil
}

func (CompoundDailyAccrual) apply(f periodFactor, in InterestInput) InterestResult {
	accrued := decimal.Zero
	breakdown := make([]InterestChunk, 0, len(f.chunks))
	for _, c := range f.chunks {
		cumulative := in.Principal.Mul(c.factor.Sub(one)).Round(workingPrecision)
		breakdown = append(breakdown, InterestChunk{
			From: c.chunk.From, Days: c.chunk.Days, BaseRate: c.chunk.BaseRate, MarginRate: in.MarginRate,
			EffectiveRate: c.effective, Compounded: in.Principal.Add(accrued), Interest: cumulative.Sub(accrued),
		})
		accrued = cumulative
	}

	return InterestResult{
		Interest:      accrued,
		EffectiveRate: f.effective,
		PeriodRate:    decimal.NewNullDecimal(f.rate),
		Breakdown:     breakdown,
	}
}

// CompoundPeriodicAccrual compounds PeriodsPerYear times a year on the
// day-weighted nominal rate: (1 + r/n)^(n × days/basis) − 1.
type CompoundPeriodicAccrual struct {
	PeriodsPerYear int
}

func (s CompoundPeriodicAccrual) Calculate(in InterestInput) (InterestResult, error) {
	f, err := s.periodFactor(in)
	if err != nil {
		return InterestResult{}, err
	}
	return s.apply(f, in), nil
}

func (s CompoundPeriodicAccrual) periodFactor(in InterestInput) (periodFactor, error) {
	if s.PeriodsPerYear <= 0 {
		return periodFactor{}, fmt.Errorf("compounding periods per year must be positive, got %d", s.PeriodsPerYear)
	}
	chunks, err := chunksFor(in)
	if err != nil {
		return periodFactor{}, err
	}

	n := decimal.NewFromInt(int64(s.PeriodsPerYear))
	days := decimal.NewFromInt(int64(model.DaysBetween(in.From, in.To)))
	nominal := weightedRate(chunks, in.MarginRate)

	base := one.Add(nominal.DivRound(hundred.Mul(n), workingPrecision))
	exponent := n.Mul(days).DivRound(in.DayCount.Denominator(), workingPrecision)
	growth, err := decimalPowerFrac(base, exponent)
	if err != nil {
		return periodFactor{}, fmt.Errorf("compound growth for %s..%s: %w",
			model.FormatDate(in.From), model.FormatDate(in.To), err)
	}

	return periodFactor{
		effective: nominal,
		nominal:   decimal.NewNullDecimal(nominal),
		rate:      growth.Sub(one),
	}, nil
}

func (CompoundPeriodicAccrual) apply(f periodFactor, in InterestInput) InterestResult {
	return InterestResult{
		Interest:      in.Principal.Mul(f.rate).Round(workingPrecision),
		EffectiveRate: f.effective,
		NominalRate:   f.nominal,
		PeriodRate:    decimal.NewNullDecimal(f.rate),
	}
}
