package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/settings"
)

const (
	getSettingsSQL = `SELECT gst_rate, platform_fee, platform_fee_enabled,
		packaging_fee, packaging_fee_enabled, delivery_charge, free_delivery_threshold,
		minimum_order, restaurant_name, restaurant_address, business_hours, updated_at
		FROM restaurant_settings WHERE id = 1`

	updateSettingsSQL = `UPDATE restaurant_settings SET
		gst_rate = $1, platform_fee = $2, platform_fee_enabled = $3,
		packaging_fee = $4, packaging_fee_enabled = $5, delivery_charge = $6,
		free_delivery_threshold = $7, minimum_order = $8,
		restaurant_name = $9, restaurant_address = $10, business_hours = $11,
		updated_at = now()
		WHERE id = 1`
)

var _ settings.Store = (*SettingsRepository)(nil)

// SettingsRepository reads and writes the singleton settings record.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository that uses the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get reads the settings row. The row always exists; the schema seeds it.
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Restaurant, error) {
	var s settings.Restaurant
	err := r.pool.QueryRow(ctx, getSettingsSQL).Scan(
		&s.GSTRate, &s.PlatformFee, &s.PlatformFeeEnabled,
		&s.PackagingFee, &s.PackagingFeeEnabled, &s.DeliveryCharge,
		&s.FreeDeliveryThreshold, &s.MinimumOrder,
		&s.RestaurantName, &s.RestaurantAddress, &s.BusinessHours, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return &s, nil
}

// Update writes the settings row.
func (r *SettingsRepository) Update(ctx context.Context, s *settings.Restaurant) error {
	_, err := r.pool.Exec(ctx, updateSettingsSQL,
		s.GSTRate, s.PlatformFee, s.PlatformFeeEnabled,
		s.PackagingFee, s.PackagingFeeEnabled, s.DeliveryCharge,
		s.FreeDeliveryThreshold, s.MinimumOrder,
		s.RestaurantName, s.RestaurantAddress, s.BusinessHours,
	)
	if err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}
	return nil
}
