package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

func unsupported(err error) error {
	return model.NewValidationError(model.ViolationUnsupportedValue, "%v", err)
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, model.NewValidationError(model.ViolationInvalidParameter, "%s: expected YYYY-MM-DD, got %q", field, s)
	}
	return d, nil
}

// toCreditParameters parses the external representation into domain values.
func toCreditParameters(in dto.CreditTerms) (model.CreditParameters, error) {
	var (
		p   model.CreditParameters
		err error
	)
	p.Principal = in.Principal
	p.MarginRate = in.MarginRate
	p.Fee = model.UpfrontFee{Percent: in.FeePercent, Flat: in.FeeFlat}

	if p.Frequency, err = valueobject.NewPaymentFrequency(in.Frequency); err != nil {
		return p, unsupported(err)
	}
	if in.PaymentDay != "" || p.Frequency.MonthStep() > 0 {
		if p.PaymentDay, err = valueobject.NewPaymentDay(in.PaymentDay); err != nil {
			return p, unsupported(err)
		}
	}
	if p.DayCount, err = valueobject.NewDayCountBasis(in.DayCount); err != nil {
		return p, unsupported(err)
	}
	if p.Repayment, err = valueobject.NewRepaymentStyle(in.RepaymentType); err != nil {
		return p, unsupported(err)
	}
	if p.InterestMode, err = valueobject.NewInterestMode(in.InterestMode); err != nil {
		return p, unsupported(err)
	}

	mode, err := valueobject.NewRoundingMode(in.RoundingMode)
	if err != nil {
		return p, unsupported(err)
	}
	if p.Rounding, err = valueobject.NewRoundingPolicy(mode, in.RoundingDecimals); err != nil {
		return p, model.NewValidationError(model.ViolationInvalidParameter, "%v", err)
	}

	if p.StartDate, err = parseDate("start_date", in.StartDate); err != nil {
		return p, err
	}
	if p.EndDate, err = parseDate("end_date", in.EndDate); err != nil {
		return p, err
	}
	return p, nil
}

func toRatePeriods(in []dto.RatePeriod) ([]model.RatePeriod, error) {
	out := make([]model.RatePeriod, 0, len(in))
	for i, rp := range in {
		from, err := parseDate(fmt.Sprintf("rate_periods[%d].date_from", i), rp.DateFrom)
		if err != nil {
			return nil, err
		}
		to, err := parseDate(fmt.Sprintf("rate_periods[%d].date_to", i), rp.DateTo)
		if err != nil {
			return nil, err
		}
		out = append(out, model.RatePeriod{DateFrom: from, DateTo: to, BaseRate: rp.BaseRate})
	}
	return out, nil
}

func fromRatePeriods(in []model.RatePeriod) []dto.RatePeriod {
	out := make([]dto.RatePeriod, 0, len(in))
	for _, rp := range in {
		out = append(out, dto.RatePeriod{
			DateFrom: model.FormatDate(rp.DateFrom),
			DateTo:   model.FormatDate(rp.DateTo),
			BaseRate: rp.BaseRate,
		})
	}
	return out
}

// resolveRatePeriods returns the inline periods, or loads the named benchmark.
func resolveRatePeriods(
	ctx context.Context,
	repo port.BenchmarkRateRepository,
	tenantID string,
	inline []dto.RatePeriod,
	benchmark string,
) ([]model.RatePeriod, error) {
	switch {
	case benchmark != "" && len(inline) > 0:
		return nil, model.NewValidationError(model.ViolationInvalidParameter,
			"rate_periods and benchmark are mutually exclusive")
	case benchmark == "":
		return toRatePeriods(inline)
	case repo == nil:
		return nil, fmt.Errorf("benchmark %q: %w", benchmark, model.ErrBenchmarkNotFound)
	}

	rates, err := repo.FindByName(ctx, tenantID, benchmark)
	if err != nil {
		return nil, fmt.Errorf("find benchmark %q: %w", benchmark, err)
	}
	return rates.Periods, nil
}

func toScheduleResponse(calculationID string, result model.ScheduleResult, apr decimal.Decimal) dto.ScheduleResponse {
	items := make([]dto.ScheduleItemResponse, 0, len(result.Items))
	for i, it := range result.Items {
		items = append(items, dto.ScheduleItemResponse{
			Number:               i + 1,
			PaymentDate:          model.FormatDate(it.PaymentDate),
			Days:                 it.Days,
			EffectiveRate:        it.EffectiveRate,
			NominalRate:          it.NominalRate,
			PeriodRate:           it.PeriodRate,
			Interest:             it.Interest,
			Principal:            it.Principal,
			TotalPayment:         it.TotalPayment,
			RemainingPrincipal:   it.RemainingPrincipal,
			FinalPaymentAdjusted: it.FinalPaymentAdjusted,
			Warnings:             it.Warnings.Names(),
		})
	}

	resp := dto.ScheduleResponse{
		CalculationID:      calculationID,
		Items:              items,
		PaymentCount:       len(items),
		TotalInterest:      result.TotalInterest(),
		TotalPrincipal:     result.TotalPrincipal(),
		TotalPayments:      result.TotalPayments(),
		TargetPayment:      result.TargetPayment,
		ActualFinalPayment: result.ActualFinalPayment,
		APR:                apr,
		Warnings:           result.Warnings,
	}
	for _, e := range result.Log.Entries() {
		resp.Log = append(resp.Log, dto.LogEntryResponse{
			Description: e.Description,
			Formula:     e.Formula,
			Substituted: e.Substituted,
			Result:      e.Result,
			Tags:        e.Tags,
		})
	}
	return resp
}

func toBenchmarkResponse(b model.BenchmarkRates) dto.BenchmarkRatesResponse {
	return dto.BenchmarkRatesResponse{
		TenantID:  b.TenantID,
		Name:      b.Name,
		Periods:   fromRatePeriods(b.Periods),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
