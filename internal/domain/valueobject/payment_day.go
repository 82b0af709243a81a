package valueobject

import (
	"fmt"
	"strings"
	"time"
)

// PaymentDay selects the day of month a monthly or quarterly installment snaps to.
type PaymentDay struct {
	value string
}

const (
	paymentDayFirst = "FIRST"
	paymentDayTenth = "TENTH"
	paymentDayLast  = "LAST"
)

var (
	PaymentDayFirst = PaymentDay{value: paymentDayFirst}
	PaymentDayTenth = PaymentDay{value: paymentDayTenth}
	PaymentDayLast  = PaymentDay{value: paymentDayLast}
)

var validPaymentDays = map[string]PaymentDay{
	paymentDayFirst: PaymentDayFirst,
	paymentDayTenth: PaymentDayTenth,
	paymentDayLast:  PaymentDayLast,
}

// NewPaymentDay parses a payment day rule (case-insensitive).
func NewPaymentDay(s string) (PaymentDay, error) {
	v, ok := validPaymentDays[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return PaymentDay{}, fmt.Errorf("invalid payment day: %q", s)
	}
	return v, nil
}

// In returns the due date this rule selects within the given month,
// clamped to the length of the month.
func (d PaymentDay) In(year int, month time.Month) time.Time {
	last := DaysInMonth(year, month)
	day := 1
	switch d.value {
	case paymentDayTenth:
		day = 10
	case paymentDayLast:
		day = last
	}
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (d PaymentDay) String() string { return d.value }
func (d PaymentDay) IsZero() bool   { return d.value == "" }

// Equal returns true when both rules carry the same value.
func (d PaymentDay) Equal(other PaymentDay) bool { return d.value == other.value }

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
