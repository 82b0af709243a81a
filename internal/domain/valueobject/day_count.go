package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DayCountBasis fixes the denominator that turns an annual rate into a daily one.
type DayCountBasis struct {
	value string
	days  int64
}

const (
	dayCountActual365 = "ACT_365"
	dayCountActual360 = "ACT_360"
)

var (
	DayCountActual365 = DayCountBasis{value: dayCountActual365, days: 365}
	DayCountActual360 = DayCountBasis{value: dayCountActual360, days: 360}
)

var validDayCounts = map[string]DayCountBasis{
	dayCountActual365: DayCountActual365,
	dayCountActual360: DayCountActual360,
	"ACTUAL/365":      DayCountActual365,
	"ACTUAL/360":      DayCountActual360,
	"ACT/365":         DayCountActual365,
	"ACT/360":         DayCountActual360,
}

// NewDayCountBasis parses a day-count convention name.
func NewDayCountBasis(s string) (DayCountBasis, error) {
	v, ok := validDayCounts[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return DayCountBasis{}, fmt.Errorf("invalid day count basis: %q", s)
	}
	return v, nil
}

// Denominator returns the number of days in the convention's year.
func (b DayCountBasis) Denominator() decimal.Decimal { return decimal.NewFromInt(b.days) }

func (b DayCountBasis) String() string { return b.value }
func (b DayCountBasis) IsZero() bool   { return b.value == "" }

// Equal returns true when both conventions carry the same value.
func (b DayCountBasis) Equal(other DayCountBasis) bool { return b.value == other.value }
