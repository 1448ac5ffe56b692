// Package report builds sales summaries from order rows. It only
// aggregates totals already computed at order time; no pricing logic
// lives here.
package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DailySales is the per-day summary shown on the admin dashboard and
// exported for accounting. Cancelled orders are excluded.
type DailySales struct {
	Day        time.Time       `json:"day"`
	OrderCount int             `json:"order_count"`
	Gross      decimal.Decimal `json:"gross"`
	GST        decimal.Decimal `json:"gst"`
	Fees       decimal.Decimal `json:"fees"`
	Discounts  decimal.Decimal `json:"discounts"`
	Net        decimal.Decimal `json:"net"`
	CashNet    decimal.Decimal `json:"cash_net"`
	CardNet    decimal.Decimal `json:"card_net"`
}

// Repository supplies the aggregate rows.
type Repository interface {
	DailySales(ctx context.Context, day time.Time) (*DailySales, error)
}

// WriteCSV renders the summary as a two-row CSV document.
func WriteCSV(w io.Writer, s *DailySales) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"day", "orders", "gross", "gst", "fees", "discounts", "net", "cash_net", "card_net"},
		{
			s.Day.Format("2006-01-02"),
			strconv.Itoa(s.OrderCount),
			s.Gross.StringFixed(2),
			s.GST.StringFixed(2),
			s.Fees.StringFixed(2),
			s.Discounts.StringFixed(2),
			s.Net.StringFixed(2),
			s.CashNet.StringFixed(2),
			s.CardNet.StringFixed(2),
		},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
