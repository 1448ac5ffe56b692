// Package printing renders kitchen tickets and customer bills as HTML
// documents and spools them for the front-of-house client to print.
package printing

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/settings"
)

// maxSpooled bounds the pending-job queue; the oldest jobs are evicted
// first when the client stops polling.
const maxSpooled = 100

type kotData struct {
	OTP          string
	PrintedAt    string
	PickupTime   string
	CustomerName string
	Items        []lineView
}

type billData struct {
	RestaurantName    string
	RestaurantAddress string
	OTP               string
	PrintedAt         string
	PaymentMethod     string
	CouponCode        string
	Items             []lineView
	ItemTotal         string
	GST               string
	PlatformFee       string
	PackagingFee      string
	Discount          string
	FinalTotal        string
}

type lineView struct {
	Name      string
	Quantity  int
	Packaging bool
	LineTotal string
}

// Job is a spooled print document.
type Job struct {
	OrderID  string    `json:"order_id"`
	Kind     string    `json:"kind"` // "kot" or "bill"
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queued_at"`
}

// Spool renders print documents and queues them for pickup by the
// front-of-house client. It implements order.Printer.
type Spool struct {
	store settings.Store
	now   func() time.Time

	mu   sync.Mutex
	jobs []Job
}

var _ order.Printer = (*Spool)(nil)

// NewSpool creates a Spool reading the restaurant header from the given
// settings store.
func NewSpool(store settings.Store) *Spool {
	return &Spool{store: store, now: time.Now}
}

// PrintKOT renders a kitchen ticket and queues it.
func (s *Spool) PrintKOT(ctx context.Context, o *order.Order) error {
	html, err := s.RenderKOT(o)
	if err != nil {
		return err
	}
	s.enqueue(Job{OrderID: o.ID, Kind: "kot", HTML: html, QueuedAt: s.now()})
	return nil
}

// RenderKOT renders the kitchen ticket HTML for an order.
func (s *Spool) RenderKOT(o *order.Order) (string, error) {
	data := kotData{
		OTP:          o.OTP,
		PrintedAt:    s.now().Format("15:04 02-Jan"),
		PickupTime:   o.PickupTime,
		CustomerName: o.CustomerName,
		Items:        lineViews(o.Items),
	}
	var buf bytes.Buffer
	if err := kotTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render kot")
	}
	return buf.String(), nil
}

// RenderBill renders the customer bill HTML for an order. The restaurant
// header comes from settings; a read failure falls back to a blank header
// rather than failing the render.
func (s *Spool) RenderBill(ctx context.Context, o *order.Order) (string, error) {
	name, addr := "", ""
	if r, err := s.store.Get(ctx); err == nil {
		name, addr = r.RestaurantName, r.RestaurantAddress
	}

	data := billData{
		RestaurantName:    name,
		RestaurantAddress: addr,
		OTP:               o.OTP,
		PrintedAt:         s.now().Format("15:04 02-Jan-2006"),
		PaymentMethod:     string(o.PaymentMethod),
		CouponCode:        o.CouponCode,
		Items:             lineViews(o.Items),
		ItemTotal:         o.ItemTotal.StringFixed(2),
		GST:               o.GST.StringFixed(2),
		PlatformFee:       amountOrEmpty(o.PlatformFee),
		PackagingFee:      amountOrEmpty(o.PackagingFee),
		Discount:          amountOrEmpty(o.Discount),
		FinalTotal:        o.FinalTotal.StringFixed(2),
	}
	var buf bytes.Buffer
	if err := billTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "render bill")
	}
	return buf.String(), nil
}

// Drain returns and clears all queued jobs, oldest first.
func (s *Spool) Drain() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := s.jobs
	s.jobs = nil
	return jobs
}

func (s *Spool) enqueue(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	if len(s.jobs) > maxSpooled {
		s.jobs = s.jobs[len(s.jobs)-maxSpooled:]
	}
}

func lineViews(items []order.Item) []lineView {
	out := make([]lineView, len(items))
	for i, it := range items {
		out[i] = lineView{
			Name:      it.Name,
			Quantity:  it.Quantity,
			Packaging: it.Packaging,
			LineTotal: it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		}
	}
	return out
}

// amountOrEmpty renders a non-zero amount, or "" so the template can
// suppress the line entirely.
func amountOrEmpty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
