package service

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// DecimalPower raises base to an integer exponent by repeated squaring, in
// decimal arithmetic throughout. Each product is rounded to the working
// precision so operand size stays bounded.
func DecimalPower(base decimal.Decimal, exponent int64) decimal.Decimal {
	switch {
	case exponent == 0:
		return one
	case exponent == 1:
		return base
	case base.IsZero():
		return decimal.Zero
	case base.Equal(one):
		return one
	case exponent < 0:
		return one.DivRound(DecimalPower(base, -exponent), workingPrecision)
	}

	result := one
	factor := base
	for n := exponent; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(factor).Round(workingPrecision)
		}
		if n > 1 {
			factor = factor.Mul(factor).Round(workingPrecision)
		}
	}
	return result
}

// decimalPowerFrac handles a non-integer exponent: the integer part goes
// through DecimalPower, only the fractional remainder uses a series expansion.
func decimalPowerFrac(base, exponent decimal.Decimal) (decimal.Decimal, error) {
	whole := exponent.Truncate(0)
	result := DecimalPower(base, whole.IntPart())

	frac := exponent.Sub(whole)
	if frac.IsZero() {
		return result, nil
	}
	part, err := base.PowWithPrecision(frac, workingPrecision)
	if err != nil {
		return decimal.Zero, err
	}
	return result.Mul(part).Round(workingPrecision), nil
}
