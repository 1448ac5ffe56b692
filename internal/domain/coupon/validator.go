package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validator decides whether a coupon code applies to an order and computes
// the discount. userID is empty for guest checkout; subtotal is the
// pre-tax item total.
type Validator interface {
	Validate(ctx context.Context, code, userID string, subtotal decimal.Decimal) (*Discount, error)
}

// RepoValidator implements Validator by looking up coupon rules from a
// Repository. Validation is side-effect free: usage is recorded by the
// order service when the order is actually placed.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate upper-cases the code, looks up the rule, checks activity, the
// validity window, total and per-user usage limits, and the minimum order
// amount, then computes the discount.
func (v *RepoValidator) Validate(ctx context.Context, code, userID string, subtotal decimal.Decimal) (*Discount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidCoupon
	}

	rule, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}
	if !rule.Active {
		return nil, ErrInvalidCoupon
	}

	now := v.now()
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrCouponExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrCouponExpired
	}

	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrUsageLimitReached
	}

	if rule.PerUserLimit > 0 && userID != "" {
		used, err := v.repo.CountUserUsage(ctx, rule.ID, userID)
		if err != nil {
			return nil, errors.Wrap(err, "count coupon usage")
		}
		if used >= rule.PerUserLimit {
			return nil, ErrPerUserLimitReached
		}
	}

	d, err := Compute(rule, subtotal)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
