package service

import "github.com/shopspring/decimal"

// workingPrecision is the number of decimal places kept by intermediate
// products and quotients before the rounding policy is applied.
const workingPrecision int32 = 28

// CalculationConfig bounds the numeric solvers and controls strictness.
type CalculationConfig struct {
	// LevelPaymentTolerance is the bracket width at which bisection stops.
	LevelPaymentTolerance decimal.Decimal
	// MaxBracketExpansions caps how often the upper bracket may double.
	MaxBracketExpansions int
	// MaxBisectionIterations caps the level-payment bisection.
	MaxBisectionIterations int
	// MaxPayments rejects schedules with more installments than this.
	MaxPayments int
	// FinalPaymentTolerance is how far the final installment may drift from
	// the level payment before it is flagged as adjusted.
	FinalPaymentTolerance decimal.Decimal
	// Strict turns negative amortization into an error.
	Strict bool
}

// DefaultCalculationConfig returns the configuration used when none is given.
func DefaultCalculationConfig() CalculationConfig {
	return CalculationConfig{
		LevelPaymentTolerance:  decimal.New(1, -6),
		MaxBracketExpansions:   64,
		MaxBisectionIterations: 200,
		MaxPayments:            40000,
		FinalPaymentTolerance:  decimal.New(1, -2),
	}
}

// withDefaults fills zero fields from DefaultCalculationConfig.
func (c CalculationConfig) withDefaults() CalculationConfig {
	d := DefaultCalculationConfig()
	if !c.LevelPaymentTolerance.IsPositive() {
		c.LevelPaymentTolerance = d.LevelPaymentTolerance
	}
	if c.MaxBracketExpansions <= 0 {
		c.MaxBracketExpansions = d.MaxBracketExpansions
	}
	if c.MaxBisectionIterations <= 0 {
		c.MaxBisectionIterations = d.MaxBisectionIterations
	}
	if c.MaxPayments <= 0 {
		c.MaxPayments = d.MaxPayments
	}
	if !c.FinalPaymentTolerance.IsPositive() {
		c.FinalPaymentTolerance = d.FinalPaymentTolerance
	}
	return c
}
