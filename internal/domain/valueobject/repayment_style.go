package valueobject

import (
	"fmt"
	"strings"
)

// RepaymentStyle decides how principal is spread across installments.
type RepaymentStyle struct {
	value string
}

const (
	repaymentEqualInstallments      = "EQUAL_INSTALLMENTS"
	repaymentDecreasingInstallments = "DECREASING_INSTALLMENTS"
	repaymentBullet                 = "BULLET"
)

var (
	RepaymentEqualInstallments      = RepaymentStyle{value: repaymentEqualInstallments}
	RepaymentDecreasingInstallments = RepaymentStyle{value: repaymentDecreasingInstallments}
	RepaymentBullet                 = RepaymentStyle{value: repaymentBullet}
)

var validRepaymentStyles = map[string]RepaymentStyle{
	repaymentEqualInstallments:      RepaymentEqualInstallments,
	repaymentDecreasingInstallments: RepaymentDecreasingInstallments,
	repaymentBullet:                 RepaymentBullet,
	"ANNUITY":                       RepaymentEqualInstallments,
	"DECREASING":                    RepaymentDecreasingInstallments,
}

// NewRepaymentStyle parses a repayment style name.
func NewRepaymentStyle(s string) (RepaymentStyle, error) {
	v, ok := validRepaymentStyles[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return RepaymentStyle{}, fmt.Errorf("invalid repayment style: %q", s)
	}
	return v, nil
}

func (r RepaymentStyle) String() string { return r.value }
func (r RepaymentStyle) IsZero() bool   { return r.value == "" }

// Equal returns true when both styles carry the same value.
func (r RepaymentStyle) Equal(other RepaymentStyle) bool { return r.value == other.value }
