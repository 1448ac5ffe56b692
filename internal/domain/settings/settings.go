// Package settings provides access to the restaurant's singleton settings
// record and the cached fee configuration derived from it.
package settings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
)

// Restaurant is the singleton settings record. Fee fields feed the pricing
// calculator; the display fields feed printed tickets and the tracking page.
type Restaurant struct {
	GSTRate               decimal.Decimal `json:"gst_rate"`
	PlatformFee           decimal.Decimal `json:"platform_fee"`
	PlatformFeeEnabled    bool            `json:"platform_fee_enabled"`
	PackagingFee          decimal.Decimal `json:"packaging_fee"`
	PackagingFeeEnabled   bool            `json:"packaging_fee_enabled"`
	DeliveryCharge        decimal.Decimal `json:"delivery_charge"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	MinimumOrder          decimal.Decimal `json:"minimum_order"`
	RestaurantName        string          `json:"restaurant_name"`
	RestaurantAddress     string          `json:"restaurant_address"`
	BusinessHours         string          `json:"business_hours"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// FeeConfig projects the settings record onto the pricing fee schedule,
// normalizing a whole-percentage GST rate exactly once.
func (r Restaurant) FeeConfig() pricing.FeeConfig {
	return pricing.FeeConfig{
		GSTRate:               pricing.NormalizeRate(r.GSTRate),
		PlatformFee:           r.PlatformFee,
		PlatformFeeEnabled:    r.PlatformFeeEnabled,
		PackagingFee:          r.PackagingFee,
		PackagingFeeEnabled:   r.PackagingFeeEnabled,
		DeliveryCharge:        r.DeliveryCharge,
		FreeDeliveryThreshold: r.FreeDeliveryThreshold,
		MinimumOrder:          r.MinimumOrder,
	}
}

// Store defines persistence for the settings record.
type Store interface {
	Get(ctx context.Context) (*Restaurant, error)
	Update(ctx context.Context, r *Restaurant) error
}
