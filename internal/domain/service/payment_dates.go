package service

import (
	"time"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

// GeneratePaymentDates returns the due date closing each payment period. Dates
// strictly increase and the last one is always end; a cadence that would
// overshoot end is clamped, leaving a short final period.
func GeneratePaymentDates(
	start, end time.Time,
	frequency valueobject.PaymentFrequency,
	day valueobject.PaymentDay,
	maxPayments int,
) ([]time.Time, error) {
	start, end = model.Date(start), model.Date(end)
	if !end.After(start) {
		return nil, model.NewValidationError(model.ViolationInvalidParameter,
			"end date %s must be after start date %s", model.FormatDate(end), model.FormatDate(start))
	}
	if frequency.IsZero() {
		return nil, model.NewValidationError(model.ViolationUnsupportedValue, "payment frequency is required")
	}

	step := frequency.MonthStep()
	next := func(k int) time.Time {
		if step == 0 {
			return start.AddDate(0, 0, k)
		}
		first := time.Date(start.Year(), start.Month()+time.Month(k*step), 1, 0, 0, 0, 0, time.UTC)
		return day.In(first.Year(), first.Month())
	}

	var dates []time.Time
	for k := 1; ; k++ {
		if maxPayments > 0 && len(dates) >= maxPayments {
			return nil, model.NewValidationError(model.ViolationInvalidParameter,
				"schedule exceeds %d payments", maxPayments)
		}
		d := next(k)
		if !d.Before(end) {
			dates = append(dates, end)
			return dates, nil
		}
		dates = append(dates, d)
	}
}
