package pricing

import "github.com/shopspring/decimal"

// CustomerTotals computes the totals for the customer-facing cart and
// checkout flow. The customer flow never charges a packaging fee; that
// line exists only on counter orders (see POSTotals).
func CustomerTotals(lines []Line, cfg FeeConfig, discount decimal.Decimal) Totals {
	if len(lines) == 0 {
		return zeroTotals()
	}
	t := unwind(lines, cfg)
	return finalize(t, discount)
}

// POSTotals computes the totals for the admin counter flow. It is
// CustomerTotals plus a per-item packaging fee over the lines that
// requested packaging.
func POSTotals(lines []Line, cfg FeeConfig, discount decimal.Decimal) Totals {
	if len(lines) == 0 {
		return zeroTotals()
	}
	t := unwind(lines, cfg)
	if cfg.PackagingFeeEnabled {
		qty := int64(0)
		for _, l := range lines {
			if l.Packaging {
				qty += int64(l.Quantity)
			}
		}
		t.PackagingFee = cfg.PackagingFee.Mul(decimal.NewFromInt(qty)).Round(2)
	}
	return finalize(t, discount)
}

// zeroTotals is the result for an empty cart: no fees apply to an order
// with nothing in it.
func zeroTotals() Totals {
	return Totals{
		ItemTotal:      decimal.Zero,
		GST:            decimal.Zero,
		PlatformFee:    decimal.Zero,
		PackagingFee:   decimal.Zero,
		DeliveryCharge: decimal.Zero,
		Discount:       decimal.Zero,
		FinalTotal:     decimal.Zero,
	}
}

// unwind recovers the pre-tax item total and the tax amount from the
// GST-inclusive gross. GST is computed as a residual, not as
// itemTotal*rate, so itemTotal+gst equals the rounded gross exactly.
func unwind(lines []Line, cfg FeeConfig) Totals {
	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	gross = gross.Round(2)

	rate := NormalizeRate(cfg.GSTRate)
	itemTotal := gross.Div(one.Add(rate)).Round(2)
	gst := gross.Sub(itemTotal).Round(2)

	t := Totals{
		ItemTotal:      itemTotal,
		GST:            gst,
		PlatformFee:    decimal.Zero,
		PackagingFee:   decimal.Zero,
		DeliveryCharge: decimal.Zero, // pickup-only, retained for display compatibility
		Discount:       decimal.Zero,
	}
	if cfg.PlatformFeeEnabled {
		t.PlatformFee = cfg.PlatformFee.Round(2)
	}
	return t
}

// finalize applies the discount and floors the payable total at zero.
func finalize(t Totals, discount decimal.Decimal) Totals {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	t.Discount = discount.Round(2)

	total := t.ItemTotal.
		Add(t.GST).
		Add(t.PlatformFee).
		Add(t.PackagingFee).
		Add(t.DeliveryCharge).
		Sub(t.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.FinalTotal = total.Round(2)
	return t
}
