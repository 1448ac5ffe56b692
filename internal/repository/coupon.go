package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
)

const (
	couponColumns = `id, code, name, description, discount_type, value, min_order,
		max_discount, valid_from, valid_until, active, max_uses, uses, per_user_limit`

	getCouponByCodeSQL = `SELECT ` + couponColumns + `
		FROM coupons WHERE UPPER(code) = UPPER($1)`

	countUserUsageSQL = `SELECT COUNT(*) FROM coupon_usage WHERE coupon_id = $1 AND user_id = $2`

	listCouponsSQL = `SELECT ` + couponColumns + ` FROM coupons ORDER BY code`

	insertCouponSQL = `INSERT INTO coupons
		(id, code, name, description, discount_type, value, min_order, max_discount,
		 valid_from, valid_until, active, max_uses, per_user_limit)
		VALUES ($1, UPPER($2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateCouponSQL = `UPDATE coupons SET
		name = $2, description = $3, discount_type = $4, value = $5, min_order = $6,
		max_discount = $7, valid_from = $8, valid_until = $9, active = $10,
		max_uses = $11, per_user_limit = $12
		WHERE id = $1`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`
)

var _ coupon.AdminRepository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL,
// plus the admin CRUD operations.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its code (case-insensitive).
// Returns coupon.ErrInvalidCoupon when no matching coupon exists.
// Activity is checked by the validator so an inactive code reads the
// same as an unknown one to customers.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, scanCouponRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrInvalidCoupon
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &rule, nil
}

// CountUserUsage returns how many times the user has redeemed the coupon.
func (r *CouponRepository) CountUserUsage(ctx context.Context, couponID, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, countUserUsageSQL, couponID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting usage for coupon %q: %w", couponID, err)
	}
	return n, nil
}

// List returns all coupons for the admin dashboard.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Rule, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCouponRule)
}

// Create inserts a new coupon. The code is stored upper-cased.
func (r *CouponRepository) Create(ctx context.Context, rule *coupon.Rule) error {
	_, err := r.pool.Exec(ctx, insertCouponSQL,
		rule.ID, rule.Code, rule.Name, rule.Description, string(rule.DiscountType),
		rule.Value, rule.MinOrder, rule.MaxDiscount, rule.ValidFrom, rule.ValidUntil,
		rule.Active, rule.MaxUses, rule.PerUserLimit,
	)
	if err != nil {
		return fmt.Errorf("creating coupon %q: %w", rule.Code, err)
	}
	return nil
}

// Update replaces a coupon's editable fields. The code is immutable.
func (r *CouponRepository) Update(ctx context.Context, rule *coupon.Rule) error {
	tag, err := r.pool.Exec(ctx, updateCouponSQL,
		rule.ID, rule.Name, rule.Description, string(rule.DiscountType), rule.Value,
		rule.MinOrder, rule.MaxDiscount, rule.ValidFrom, rule.ValidUntil,
		rule.Active, rule.MaxUses, rule.PerUserLimit,
	)
	if err != nil {
		return fmt.Errorf("updating coupon %q: %w", rule.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrInvalidCoupon
	}
	return nil
}

// Delete removes a coupon.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrInvalidCoupon
	}
	return nil
}

func scanCouponRule(row pgx.CollectableRow) (coupon.Rule, error) {
	var (
		rule         coupon.Rule
		discountType string
		value        decimal.Decimal
		minOrder     decimal.Decimal
		maxDiscount  decimal.Decimal
		validFrom    *time.Time
		validUntil   *time.Time
		maxUses      int32
		uses         int32
		perUserLimit int32
	)
	err := row.Scan(
		&rule.ID, &rule.Code, &rule.Name, &rule.Description, &discountType,
		&value, &minOrder, &maxDiscount, &validFrom, &validUntil,
		&rule.Active, &maxUses, &uses, &perUserLimit,
	)
	rule.DiscountType = coupon.DiscountType(discountType)
	rule.Value = value
	rule.MinOrder = minOrder
	rule.MaxDiscount = maxDiscount
	rule.ValidFrom = validFrom
	rule.ValidUntil = validUntil
	rule.MaxUses = int(maxUses)
	rule.Uses = int(uses)
	rule.PerUserLimit = int(perUserLimit)
	return rule, err
}
