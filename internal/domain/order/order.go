// Package order implements order placement, the status flow, and the
// admin-side status operations (quick advance, kitchen ticket printing).
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
)

// Type is the fulfillment mode. The product is pickup-only; the delivery
// value survives for schema compatibility and is never produced by the
// checkout flow.
type Type string

const (
	TypePickup   Type = "pickup"
	TypeDelivery Type = "delivery"
)

// PaymentMethod selects how the customer pays.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// PaymentStatus tracks the gateway outcome for card orders.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

// PickupASAP is the sentinel pickup time for immediate orders.
const PickupASAP = "ASAP"

// Order is a persisted customer or counter order. The monetary components
// are stored individually so printed bills re-add exactly.
type Order struct {
	ID            string          `json:"id"`
	OTP           string          `json:"otp"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Type          Type            `json:"order_type"`
	PickupTime    string          `json:"pickup_time"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ItemTotal     decimal.Decimal `json:"item_total"`
	GST           decimal.Decimal `json:"gst"`
	PlatformFee   decimal.Decimal `json:"platform_fee"`
	PackagingFee  decimal.Decimal `json:"packaging_fee"`
	DeliveryFee   decimal.Decimal `json:"delivery_charge"`
	Discount      decimal.Decimal `json:"discount"`
	FinalTotal    decimal.Decimal `json:"final_total"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Status        Status          `json:"status"`
	Items         []Item          `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Item is a persisted order line with a name and price snapshot taken at
// placement. Never mutated after creation.
type Item struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Packaging  bool            `json:"packaging"`
}

// Line converts the order item into a pricing line.
func (i Item) Line() pricing.Line {
	return pricing.Line{
		MenuItemID: i.MenuItemID,
		Name:       i.Name,
		Price:      i.Price,
		Quantity:   i.Quantity,
		Packaging:  i.Packaging,
	}
}

// CouponUse records a coupon redemption written in the same transaction
// as the order it belongs to.
type CouponUse struct {
	CouponID string
	UserID   string
}

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status Status
	Day    *time.Time
	Limit  int
}

// Repository defines order persistence. Create writes the order header,
// its items, and any coupon usage in a single transaction so a failure
// can never leave a header without lines.
type Repository interface {
	Create(ctx context.Context, o *Order, use *CouponUse) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByOTP(ctx context.Context, otp string) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePayment(ctx context.Context, id string, ps PaymentStatus) error
}
