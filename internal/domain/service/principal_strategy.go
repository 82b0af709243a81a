package service

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/valueobject"
)

// ErrMissingTargetPayment is returned when the equal-installment rule runs
// without a solved level payment.
var ErrMissingTargetPayment = errors.New("equal installments require a target total payment")

// PrincipalContext describes the installment being computed.
type PrincipalContext struct {
	RemainingPrincipal decimal.Decimal
	InterestAmount     decimal.Decimal
	PaymentIndex       int
	TotalPayments      int
	IsLastPayment      bool
	TargetTotalPayment decimal.NullDecimal
}

// PrincipalStrategy decides how much principal an installment repays. A
// negative result means the installment does not cover interest; the caller
// decides how to treat it.
type PrincipalStrategy interface {
	Calculate(ctx PrincipalContext) (decimal.Decimal, error)
}

// NewPrincipalStrategy returns the rule for a repayment style. Decreasing
// installments need the original principal and payment count to fix their step.
func NewPrincipalStrategy(
	style valueobject.RepaymentStyle,
	principal decimal.Decimal,
	paymentCount int,
	rounding valueobject.RoundingPolicy,
) (PrincipalStrategy, error) {
	switch {
	case style.Equal(valueobject.RepaymentBullet):
		return BulletRepayment{}, nil
	case style.Equal(valueobject.RepaymentDecreasingInstallments):
		if paymentCount <= 0 {
			return nil, model.NewValidationError(model.ViolationInvalidParameter, "payment count must be positive")
		}
		step := rounding.Round(principal.DivRound(decimal.NewFromInt(int64(paymentCount)), workingPrecision))
		return DecreasingRepayment{Step: step}, nil
	case style.Equal(valueobject.RepaymentEqualInstallments):
		return AnnuityRepayment{}, nil
	default:
		return nil, model.NewValidationError(model.ViolationUnsupportedValue, "unsupported repayment style %q", style)
	}
}

// BulletRepayment defers all principal to the final installment.
type BulletRepayment struct{}

func (BulletRepayment) Calculate(ctx PrincipalContext) (decimal.Decimal, error) {
	if ctx.IsLastPayment {
		return ctx.RemainingPrincipal, nil
	}
	return decimal.Zero, nil
}

// DecreasingRepayment repays a fixed Step each period; the last installment
// takes whatever remains.
type DecreasingRepayment struct {
	Step decimal.Decimal
}

func (s DecreasingRepayment) Calculate(ctx PrincipalContext) (decimal.Decimal, error) {
	if ctx.IsLastPayment {
		return ctx.RemainingPrincipal, nil
	}
	return decimal.Min(s.Step, ctx.RemainingPrincipal), nil
}

// AnnuityRepayment repays target − interest so every installment totals the
// level payment; the last installment closes the balance exactly.
type AnnuityRepayment struct{}

func (AnnuityRepayment) Calculate(ctx PrincipalContext) (decimal.Decimal, error) {
	if !ctx.TargetTotalPayment.Valid {
		return decimal.Zero, ErrMissingTargetPayment
	}
	if ctx.IsLastPayment {
		return ctx.RemainingPrincipal, nil
	}
	return decimal.Min(ctx.TargetTotalPayment.Decimal.Sub(ctx.InterestAmount), ctx.RemainingPrincipal), nil
}
