package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiffinlabs/tiffin-pos/internal/report"
)

const dailySalesSQL = `SELECT
		COUNT(*),
		COALESCE(SUM(item_total + gst), 0),
		COALESCE(SUM(gst), 0),
		COALESCE(SUM(platform_fee + packaging_fee + delivery_charge), 0),
		COALESCE(SUM(discount), 0),
		COALESCE(SUM(final_total), 0),
		COALESCE(SUM(final_total) FILTER (WHERE payment_method = 'cash'), 0),
		COALESCE(SUM(final_total) FILTER (WHERE payment_method = 'card'), 0)
	FROM orders
	WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'`

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository aggregates order rows for sales reports.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// DailySales summarizes the given calendar day (UTC), excluding
// cancelled orders.
func (r *ReportRepository) DailySales(ctx context.Context, day time.Time) (*report.DailySales, error) {
	start := day.Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)

	s := report.DailySales{Day: start}
	err := r.pool.QueryRow(ctx, dailySalesSQL, start, end).Scan(
		&s.OrderCount, &s.Gross, &s.GST, &s.Fees, &s.Discounts,
		&s.Net, &s.CashNet, &s.CardNet,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales for %s: %w", start.Format("2006-01-02"), err)
	}
	return &s, nil
}
