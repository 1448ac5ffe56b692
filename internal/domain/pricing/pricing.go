// Package pricing implements the order totals calculation shared by the
// customer checkout and the counter (POS) flow. Displayed prices are
// GST-inclusive; the calculator unwinds them into a pre-tax item total and
// a residual tax amount so that the two always re-add to the displayed gross.
package pricing

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// FeeConfig holds the fee schedule applied on top of the item total.
// GSTRate is a fraction (0.05 means 5%), never a whole percentage.
type FeeConfig struct {
	GSTRate               decimal.Decimal `json:"gst_rate"`
	PlatformFee           decimal.Decimal `json:"platform_fee"`
	PlatformFeeEnabled    bool            `json:"platform_fee_enabled"`
	PackagingFee          decimal.Decimal `json:"packaging_fee"`
	PackagingFeeEnabled   bool            `json:"packaging_fee_enabled"`
	DeliveryCharge        decimal.Decimal `json:"delivery_charge"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	MinimumOrder          decimal.Decimal `json:"minimum_order"`
}

// Defaults returns the fallback fee schedule used when the settings row
// cannot be read. Checkout must always be able to produce a total.
func Defaults() FeeConfig {
	return FeeConfig{
		GSTRate:               decimal.RequireFromString("0.05"),
		PlatformFee:           decimal.RequireFromString("15.00"),
		PlatformFeeEnabled:    true,
		PackagingFee:          decimal.Zero,
		PackagingFeeEnabled:   false,
		DeliveryCharge:        decimal.RequireFromString("40.00"),
		FreeDeliveryThreshold: decimal.RequireFromString("500.00"),
		MinimumOrder:          decimal.Zero,
	}
}

// NormalizeRate converts a whole-percentage tax rate (5 meaning 5%) to a
// fraction. Values already in fractional form (<= 1) pass through, so the
// conversion is applied exactly once no matter how the rate was stored.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(one) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// Line is a single cart line entering the calculation. Price is the
// GST-inclusive unit price snapshot taken when the item was added.
type Line struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Packaging  bool            `json:"packaging"`
}

// Totals is the full monetary breakdown of an order. Every field is
// independently rounded to two decimal places so displayed line items
// stay additive.
type Totals struct {
	ItemTotal      decimal.Decimal `json:"item_total"`
	GST            decimal.Decimal `json:"gst"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	PackagingFee   decimal.Decimal `json:"packaging_fee"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Discount       decimal.Decimal `json:"discount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}
