package valueobject

import (
	"fmt"
	"strings"
)

// InterestMode selects how interest accrues within a payment period.
type InterestMode struct {
	value string
	// compounding periods per year; zero for the non-periodic modes
	periodsPerYear int
}

const (
	interestSimpleDaily       = "SIMPLE_DAILY"
	interestNextPeriodRate    = "NEXT_PERIOD_RATE"
	interestCompoundDaily     = "COMPOUND_DAILY"
	interestCompoundMonthly   = "COMPOUND_MONTHLY"
	interestCompoundQuarterly = "COMPOUND_QUARTERLY"
)

var (
	InterestSimpleDaily       = InterestMode{value: interestSimpleDaily}
	InterestNextPeriodRate    = InterestMode{value: interestNextPeriodRate}
	InterestCompoundDaily     = InterestMode{value: interestCompoundDaily}
	InterestCompoundMonthly   = InterestMode{value: interestCompoundMonthly, periodsPerYear: 12}
	InterestCompoundQuarterly = InterestMode{value: interestCompoundQuarterly, periodsPerYear: 4}
)

var validInterestModes = map[string]InterestMode{
	interestSimpleDaily:       InterestSimpleDaily,
	interestNextPeriodRate:    InterestNextPeriodRate,
	interestCompoundDaily:     InterestCompoundDaily,
	interestCompoundMonthly:   InterestCompoundMonthly,
	interestCompoundQuarterly: InterestCompoundQuarterly,
}

// NewInterestMode parses an interest application mode.
func NewInterestMode(s string) (InterestMode, error) {
	v, ok := validInterestModes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return InterestMode{}, fmt.Errorf("invalid interest mode: %q", s)
	}
	return v, nil
}

// PeriodsPerYear returns the compounding frequency of the periodic modes.
func (m InterestMode) PeriodsPerYear() int { return m.periodsPerYear }

func (m InterestMode) String() string { return m.value }
func (m InterestMode) IsZero() bool   { return m.value == "" }

// Equal returns true when both modes carry the same value.
func (m InterestMode) Equal(other InterestMode) bool { return m.value == other.value }
