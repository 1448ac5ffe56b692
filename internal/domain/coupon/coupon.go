// Package coupon implements coupon lookup, eligibility checks, and
// discount computation against a pre-tax order subtotal.
package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage discount to the subtotal,
	// optionally capped by the rule's MaxDiscount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed subtracts a fixed amount, capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

var (
	// ErrInvalidCoupon is returned when a coupon code is unknown or inactive.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrCouponExpired is returned when a coupon is outside its valid time window.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrUsageLimitReached is returned when a coupon has exhausted its total allowed uses.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrPerUserLimitReached is returned when this user has already used the
	// coupon its allowed number of times.
	ErrPerUserLimitReached = errors.New("coupon already used the maximum number of times")
	// ErrMinOrderNotMet is returned when the pre-tax subtotal is below the
	// coupon's minimum order amount.
	ErrMinOrderNotMet = errors.New("order does not meet the coupon minimum")
)

// Rule defines a coupon's discount behaviour and eligibility constraints.
// MaxUses and PerUserLimit of zero mean unlimited.
type Rule struct {
	ID           string
	Code         string
	Name         string
	Description  string
	DiscountType DiscountType
	Value        decimal.Decimal
	MinOrder     decimal.Decimal
	MaxDiscount  decimal.Decimal
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	Active       bool
	MaxUses      int
	Uses         int
	PerUserLimit int
}

// Discount is the outcome of a successful validation. Amount is already
// clamped to the subtotal and any MaxDiscount cap; callers subtract it
// from the running total without further clamping.
type Discount struct {
	CouponID    string          `json:"coupon_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"discount_amount"`
	Type        DiscountType    `json:"discount_type"`
	Value       decimal.Decimal `json:"discount_value"`
}

// Repository provides lookup and usage accounting for coupon rules.
// Usage recording happens inside order placement (same transaction as the
// order rows), not here.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	CountUserUsage(ctx context.Context, couponID, userID string) (int, error)
}

// AdminRepository extends Repository with the dashboard CRUD operations.
type AdminRepository interface {
	Repository
	List(ctx context.Context) ([]Rule, error)
	Create(ctx context.Context, rule *Rule) error
	Update(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id string) error
}
