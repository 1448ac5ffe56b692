package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute calculates the discount the rule grants against a pre-tax
// subtotal. It returns ErrMinOrderNotMet when the subtotal is below the
// rule's minimum order amount. The returned amount is clamped to
// [0, subtotal] and rounded to two decimal places.
func Compute(rule *Rule, subtotal decimal.Decimal) (Discount, error) {
	if rule.MinOrder.IsPositive() && subtotal.LessThan(rule.MinOrder) {
		return Discount{}, ErrMinOrderNotMet
	}

	var amount decimal.Decimal
	switch rule.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(rule.Value).Div(hundred)
		if rule.MaxDiscount.IsPositive() {
			amount = decimal.Min(amount, rule.MaxDiscount)
		}
	case DiscountFixed:
		amount = rule.Value
	default:
		return Discount{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}

	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Discount{
		CouponID:    rule.ID,
		Code:        rule.Code,
		Name:        rule.Name,
		Description: rule.Description,
		Amount:      amount.Round(2),
		Type:        rule.DiscountType,
		Value:       rule.Value,
	}, nil
}
