package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// UpfrontFee is charged at disbursement, as a percentage of principal, a flat
// amount, or both.
type UpfrontFee struct {
	Percent decimal.Decimal
	Flat    decimal.Decimal
}

// Amount returns the fee charged on the given principal.
func (f UpfrontFee) Amount(principal decimal.Decimal) decimal.Decimal {
	return principal.Mul(f.Percent).Div(hundred).Add(f.Flat)
}

// CreditParameters describes one loan to be scheduled. Rates are percentages
// (5 means 5% per year).
type CreditParameters struct {
	Principal    decimal.Decimal
	MarginRate   decimal.Decimal
	Frequency    valueobject.PaymentFrequency
	PaymentDay   valueobject.PaymentDay
	StartDate    time.Time
	EndDate      time.Time
	DayCount     valueobject.DayCountBasis
	Rounding     valueobject.RoundingPolicy
	Fee          UpfrontFee
	Repayment    valueobject.RepaymentStyle
	InterestMode valueobject.InterestMode
}

// Validate rejects parameters that no schedule can be computed for.
func (p CreditParameters) Validate() error {
	if !p.Principal.IsPositive() {
		return NewValidationError(ViolationInvalidParameter, "principal must be positive, got %s", p.Principal)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return NewValidationError(ViolationInvalidParameter, "credit start and end dates are required")
	}
	if !Date(p.EndDate).After(Date(p.StartDate)) {
		return NewValidationError(ViolationInvalidParameter, "end date %s must be after start date %s",
			FormatDate(p.EndDate), FormatDate(p.StartDate))
	}
	if p.Frequency.IsZero() {
		return NewValidationError(ViolationUnsupportedValue, "payment frequency is required")
	}
	if p.Frequency.MonthStep() > 0 && p.PaymentDay.IsZero() {
		return NewValidationError(ViolationUnsupportedValue, "payment day is required for %s payments", p.Frequency)
	}
	if p.DayCount.IsZero() {
		return NewValidationError(ViolationUnsupportedValue, "day count basis is required")
	}
	if p.Rounding.Mode().IsZero() {
		return NewValidationError(ViolationInvalidParameter, "rounding policy is required")
	}
	if p.Repayment.IsZero() {
		return NewValidationError(ViolationUnsupportedValue, "repayment style is required")
	}
	if p.InterestMode.IsZero() {
		return NewValidationError(ViolationUnsupportedValue, "interest mode is required")
	}
	if p.Fee.Percent.IsNegative() || p.Fee.Flat.IsNegative() {
		return NewValidationError(ViolationInvalidParameter, "upfront fees must not be negative")
	}
	if !p.Disbursement().IsPositive() {
		return NewValidationError(ViolationInvalidParameter, "upfront fees consume the whole principal")
	}
	return nil
}

// Disbursement is the cash actually handed to the borrower at the start date.
func (p CreditParameters) Disbursement() decimal.Decimal {
	return p.Principal.Sub(p.Fee.Amount(p.Principal))
}

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
