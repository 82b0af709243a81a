package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Warning is a bitset of soft conditions raised on a single schedule row.
type Warning uint8

const (
	WarningNegativeAmortization Warning = 1 << iota
	WarningInterestExceedsInstallment
	WarningFinalPaymentAdjusted
)

var warningNames = []struct {
	flag Warning
	name string
}{
	{WarningNegativeAmortization, "negative_amortization"},
	{WarningInterestExceedsInstallment, "interest_exceeds_installment"},
	{WarningFinalPaymentAdjusted, "final_payment_adjusted"},
}

// Has reports whether every bit of flag is set.
func (w Warning) Has(flag Warning) bool { return w&flag == flag }

// Names lists the set flags in declaration order.
func (w Warning) Names() []string {
	var out []string
	for _, n := range warningNames {
		if w.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

func (w Warning) String() string { return strings.Join(w.Names(), ",") }

// ScheduleItem is one installment row.
type ScheduleItem struct {
	PaymentDate          time.Time
	Days                 int
	EffectiveRate        decimal.Decimal
	NominalRate          decimal.NullDecimal
	PeriodRate           decimal.NullDecimal
	Interest             decimal.Decimal
	Principal            decimal.Decimal
	TotalPayment         decimal.Decimal
	RemainingPrincipal   decimal.Decimal
	FinalPaymentAdjusted bool
	Warnings             Warning
}

// ScheduleResult is the complete output of one calculation.
type ScheduleResult struct {
	Items              []ScheduleItem
	Warnings           []string
	TargetPayment      decimal.NullDecimal
	ActualFinalPayment decimal.NullDecimal
	Log                *CalculationLog
}

// TotalInterest sums interest over all rows.
func (r ScheduleResult) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Interest)
	}
	return total
}

// TotalPrincipal sums principal repaid over all rows.
func (r ScheduleResult) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Principal)
	}
	return total
}

// TotalPayments sums every installment.
func (r ScheduleResult) TotalPayments() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.TotalPayment)
	}
	return total
}
