package valueobject

import (
	"fmt"
	"strings"
)

// PaymentFrequency is the cadence at which installments fall due.
type PaymentFrequency struct {
	value string
}

const (
	frequencyDaily     = "DAILY"
	frequencyMonthly   = "MONTHLY"
	frequencyQuarterly = "QUARTERLY"
)

var (
	FrequencyDaily     = PaymentFrequency{value: frequencyDaily}
	FrequencyMonthly   = PaymentFrequency{value: frequencyMonthly}
	FrequencyQuarterly = PaymentFrequency{value: frequencyQuarterly}
)

var validFrequencies = map[string]PaymentFrequency{
	frequencyDaily:     FrequencyDaily,
	frequencyMonthly:   FrequencyMonthly,
	frequencyQuarterly: FrequencyQuarterly,
}

// NewPaymentFrequency parses a frequency name (case-insensitive).
func NewPaymentFrequency(s string) (PaymentFrequency, error) {
	v, ok := validFrequencies[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return PaymentFrequency{}, fmt.Errorf("invalid payment frequency: %q", s)
	}
	return v, nil
}

// MonthStep returns the number of calendar months between two due dates,
// or 0 for daily schedules.
func (f PaymentFrequency) MonthStep() int {
	switch f.value {
	case frequencyMonthly:
		return 1
	case frequencyQuarterly:
		return 3
	default:
		return 0
	}
}

func (f PaymentFrequency) String() string { return f.value }
func (f PaymentFrequency) IsZero() bool   { return f.value == "" }

// Equal returns true when both frequencies carry the same value.
func (f PaymentFrequency) Equal(other PaymentFrequency) bool { return f.value == other.value }
