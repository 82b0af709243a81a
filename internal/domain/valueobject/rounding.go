package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode is the tie-breaking rule applied when a value is rounded.
type RoundingMode struct {
	value string
}

const (
	roundingHalfEven         = "HALF_EVEN"
	roundingHalfAwayFromZero = "HALF_AWAY_FROM_ZERO"
)

var (
	RoundingHalfEven         = RoundingMode{value: roundingHalfEven}
	RoundingHalfAwayFromZero = RoundingMode{value: roundingHalfAwayFromZero}
)

var validRoundingModes = map[string]RoundingMode{
	roundingHalfEven:         RoundingHalfEven,
	roundingHalfAwayFromZero: RoundingHalfAwayFromZero,
	"BANKERS":                RoundingHalfEven,
	"TO_EVEN":                RoundingHalfEven,
	"AWAY_FROM_ZERO":         RoundingHalfAwayFromZero,
}

// NewRoundingMode parses a rounding mode name.
func NewRoundingMode(s string) (RoundingMode, error) {
	v, ok := validRoundingModes[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return RoundingMode{}, fmt.Errorf("invalid rounding mode: %q", s)
	}
	return v, nil
}

func (m RoundingMode) String() string { return m.value }
func (m RoundingMode) IsZero() bool   { return m.value == "" }

// Equal returns true when both modes carry the same value.
func (m RoundingMode) Equal(other RoundingMode) bool { return m.value == other.value }

// Bounds for the internal precision of a calculation.
const (
	MinRoundingDecimals = 4
	MaxRoundingDecimals = 10

	// CashDecimals is the precision of every amount reported to callers.
	CashDecimals = 2
)

// RoundingPolicy pairs a rounding mode with a number of decimal places.
// It is a plain value; every calculation carries its own.
type RoundingPolicy struct {
	mode     RoundingMode
	decimals int32
}

// NewRoundingPolicy builds a policy for internal precision. Decimals must lie in
// [MinRoundingDecimals, MaxRoundingDecimals].
func NewRoundingPolicy(mode RoundingMode, decimals int) (RoundingPolicy, error) {
	if mode.IsZero() {
		return RoundingPolicy{}, fmt.Errorf("rounding mode is required")
	}
	if decimals < MinRoundingDecimals || decimals > MaxRoundingDecimals {
		return RoundingPolicy{}, fmt.Errorf("rounding decimals must be between %d and %d, got %d",
			MinRoundingDecimals, MaxRoundingDecimals, decimals)
	}
	return RoundingPolicy{mode: mode, decimals: int32(decimals)}, nil
}

// CashPolicy returns the two-decimal policy used for reported amounts.
func CashPolicy(mode RoundingMode) RoundingPolicy {
	return RoundingPolicy{mode: mode, decimals: CashDecimals}
}

// Round applies the policy to v.
func (p RoundingPolicy) Round(v decimal.Decimal) decimal.Decimal {
	return Round(v, p.mode, p.decimals)
}

// Mode returns the rounding mode.
func (p RoundingPolicy) Mode() RoundingMode { return p.mode }

// Decimals returns the number of decimal places kept.
func (p RoundingPolicy) Decimals() int32 { return p.decimals }

// Round rounds v to the given number of decimal places using mode.
// An unset mode falls back to half away from zero.
func Round(v decimal.Decimal, mode RoundingMode, decimals int32) decimal.Decimal {
	if mode.Equal(RoundingHalfEven) {
		return v.RoundBank(decimals)
	}
	return v.Round(decimals)
}
