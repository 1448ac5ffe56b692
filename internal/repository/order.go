package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
)

const (
	orderColumns = `id, otp, customer_name, customer_phone, order_type, pickup_time,
		payment_method, payment_status, item_total, gst, platform_fee, packaging_fee,
		delivery_charge, discount, final_total, coupon_code, status, created_at`

	insertOrderSQL = `INSERT INTO orders
		(id, otp, customer_name, customer_phone, order_type, pickup_time,
		 payment_method, payment_status, item_total, gst, platform_fee, packaging_fee,
		 delivery_charge, discount, final_total, coupon_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at`

	insertOrderItemSQL = `INSERT INTO order_items
		(order_id, menu_item_id, name, price, quantity, packaging)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertCouponUsageSQL = `INSERT INTO coupon_usage (coupon_id, user_id, order_id)
		VALUES ($1, $2, $3)`

	incrementCouponUsesSQL = `UPDATE coupons SET uses = uses + 1 WHERE id = $1`

	getOrderByIDSQL  = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	getOrderByOTPSQL = `SELECT ` + orderColumns + ` FROM orders WHERE otp = $1
		ORDER BY created_at DESC LIMIT 1`

	getOrderItemsSQL = `SELECT menu_item_id, name, price, quantity, packaging
		FROM order_items WHERE order_id = $1 ORDER BY id`

	updateOrderStatusSQL  = `UPDATE orders SET status = $2 WHERE id = $1`
	updateOrderPaymentSQL = `UPDATE orders SET payment_status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header, its items, and any coupon usage in a
// single transaction. A failure at any step rolls everything back; a
// header row can never exist without its lines.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order, use *order.CouponUse) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.OTP, o.CustomerName, o.CustomerPhone, string(o.Type), o.PickupTime,
		string(o.PaymentMethod), string(o.PaymentStatus),
		o.ItemTotal, o.GST, o.PlatformFee, o.PackagingFee,
		o.DeliveryFee, o.Discount, o.FinalTotal, o.CouponCode, string(o.Status),
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			o.ID, it.MenuItemID, it.Name, it.Price, it.Quantity, it.Packaging,
		)
		if err != nil {
			return fmt.Errorf("creating order item for %q: %w", o.ID, err)
		}
	}

	if use != nil {
		userID := use.UserID
		if userID == "" {
			userID = "guest"
		}
		if _, err = tx.Exec(ctx, insertCouponUsageSQL, use.CouponID, userID, o.ID); err != nil {
			return fmt.Errorf("recording coupon usage for %q: %w", o.ID, err)
		}
		if _, err = tx.Exec(ctx, incrementCouponUsesSQL, use.CouponID); err != nil {
			return fmt.Errorf("incrementing coupon uses for %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return r.get(ctx, getOrderByIDSQL, id)
}

// GetByOTP returns the most recent order carrying the given pickup code.
func (r *OrderRepository) GetByOTP(ctx context.Context, otp string) (*order.Order, error) {
	return r.get(ctx, getOrderByOTPSQL, otp)
}

func (r *OrderRepository) get(ctx context.Context, sql, arg string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}

	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders matching the filter, newest first, with items.
func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]order.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	where := ""

	if f.Status != "" {
		args = append(args, string(f.Status))
		where = fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if f.Day != nil {
		day := f.Day.Truncate(24 * time.Hour)
		args = append(args, day, day.Add(24*time.Hour))
		clause := fmt.Sprintf("created_at >= $%d AND created_at < $%d", len(args)-1, len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	sql += where + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	for i := range out {
		if out[i].Items, err = r.items(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateStatus sets the order status. Legality of the transition is
// checked in the service layer.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating status of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdatePayment sets the payment status.
func (r *OrderRepository) UpdatePayment(ctx context.Context, id string, ps order.PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, updateOrderPaymentSQL, id, string(ps))
	if err != nil {
		return fmt.Errorf("updating payment of order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting items of order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var it order.Item
		err := row.Scan(&it.MenuItemID, &it.Name, &it.Price, &it.Quantity, &it.Packaging)
		return it, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o                          order.Order
		otype, pmethod, pstatus, s string
	)
	err := row.Scan(
		&o.ID, &o.OTP, &o.CustomerName, &o.CustomerPhone, &otype, &o.PickupTime,
		&pmethod, &pstatus, &o.ItemTotal, &o.GST, &o.PlatformFee, &o.PackagingFee,
		&o.DeliveryFee, &o.Discount, &o.FinalTotal, &o.CouponCode, &s, &o.CreatedAt,
	)
	o.Type = order.Type(otype)
	o.PaymentMethod = order.PaymentMethod(pmethod)
	o.PaymentStatus = order.PaymentStatus(pstatus)
	o.Status = order.Status(s)
	return o, err
}
