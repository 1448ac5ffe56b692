package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
)

// Sentinel errors for order operations.
var (
	ErrEmptyItems    = fmt.Errorf("items required")
	ErrNotFound      = fmt.Errorf("order not found")
	ErrNoAutoAdvance = fmt.Errorf("status has no quick-advance target")
)

// ItemNotFoundError indicates a requested menu item does not exist.
type ItemNotFoundError struct {
	MenuItemID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found", e.MenuItemID)
}

// ItemUnavailableError indicates a menu item is currently switched off.
type ItemUnavailableError struct {
	MenuItemID string
	Name       string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("%s is currently unavailable", e.Name)
}

// InvalidQuantityError indicates a line with a non-positive quantity.
type InvalidQuantityError struct {
	MenuItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for item %s", e.MenuItemID)
}

// TransitionError indicates a status change outside the allow-list.
type TransitionError struct {
	From, To Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}

// FeeProvider supplies the current fee configuration. It never fails;
// see settings.CachedProvider.
type FeeProvider interface {
	Fees(ctx context.Context) pricing.FeeConfig
}

// Printer renders and spools kitchen tickets. Print failures must never
// affect the order operation that triggered them.
type Printer interface {
	PrintKOT(ctx context.Context, o *Order) error
}

// Publisher emits order events for the admin realtime feed.
type Publisher interface {
	OrderCreated(ctx context.Context, o *Order)
	StatusChanged(ctx context.Context, o *Order, from, to Status)
}

// LineRequest is a requested order line. The price is never taken from
// the client; it is snapshotted from the menu at placement.
type LineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Packaging  bool   `json:"packaging,omitempty"`
}

// PlaceRequest holds the input for placing an order.
type PlaceRequest struct {
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	PickupTime    string        `json:"pickup_time"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Lines         []LineRequest `json:"items"`
	CouponCode    string        `json:"coupon_code,omitempty"`
	UserID        string        `json:"user_id,omitempty"`
}

// Service encapsulates order placement and status management.
type Service struct {
	menu    menu.Repository
	coupons coupon.Validator
	orders  Repository
	fees    FeeProvider
	printer Printer
	events  Publisher
	lg      *zap.Logger

	kotCopies int
}

// NewService creates an order Service with the required dependencies.
func NewService(
	menuRepo menu.Repository,
	coupons coupon.Validator,
	orders Repository,
	fees FeeProvider,
	printer Printer,
	events Publisher,
	lg *zap.Logger,
) *Service {
	return &Service{
		menu:      menuRepo,
		coupons:   coupons,
		orders:    orders,
		fees:      fees,
		printer:   printer,
		events:    events,
		lg:        lg,
		kotCopies: 2,
	}
}

// Place creates a customer order: items are validated against the menu,
// the coupon is re-validated server-side against the pre-tax subtotal,
// and the header, lines, and coupon usage are persisted in one
// transaction. Cash orders start pending; card orders await payment.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	return s.place(ctx, req, pricing.CustomerTotals)
}

// PlacePOS creates a counter order. It is Place with the POS totals
// variant, which charges the per-item packaging fee.
func (s *Service) PlacePOS(ctx context.Context, req PlaceRequest) (*Order, error) {
	return s.place(ctx, req, pricing.POSTotals)
}

type totalsFunc func([]pricing.Line, pricing.FeeConfig, decimal.Decimal) pricing.Totals

// linesFor validates the requested lines against the menu and snapshots
// names and prices into order items.
func (s *Service) linesFor(ctx context.Context, reqLines []LineRequest) ([]Item, []pricing.Line, error) {
	if len(reqLines) == 0 {
		return nil, nil, ErrEmptyItems
	}

	ids := make([]string, len(reqLines))
	for i, l := range reqLines {
		if l.Quantity <= 0 {
			return nil, nil, &InvalidQuantityError{MenuItemID: l.MenuItemID}
		}
		ids[i] = l.MenuItemID
	}

	fetched, err := s.menu.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("get menu items: %w", err)
	}
	byID := make(map[string]menu.Item, len(fetched))
	for _, it := range fetched {
		byID[it.ID] = it
	}

	items := make([]Item, len(reqLines))
	lines := make([]pricing.Line, len(reqLines))
	for i, l := range reqLines {
		it, ok := byID[l.MenuItemID]
		if !ok {
			return nil, nil, &ItemNotFoundError{MenuItemID: l.MenuItemID}
		}
		if !it.Available {
			return nil, nil, &ItemUnavailableError{MenuItemID: it.ID, Name: it.Name}
		}
		items[i] = Item{
			MenuItemID: it.ID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   l.Quantity,
			Packaging:  l.Packaging,
		}
		lines[i] = items[i].Line()
	}
	return items, lines, nil
}

// quote computes totals for the requested lines without persisting
// anything. The coupon, when given, is validated but not redeemed.
func (s *Service) quote(ctx context.Context, req PlaceRequest, totals totalsFunc) (pricing.Totals, *coupon.Discount, error) {
	_, lines, err := s.linesFor(ctx, req.Lines)
	if err != nil {
		return pricing.Totals{}, nil, err
	}

	cfg := s.fees.Fees(ctx)

	// The coupon is validated against the pre-tax subtotal, so the
	// GST-inclusive gross is unwound once without a discount first.
	base := totals(lines, cfg, decimal.Zero)

	var d *coupon.Discount
	discountAmount := decimal.Zero
	if req.CouponCode != "" {
		d, err = s.coupons.Validate(ctx, req.CouponCode, req.UserID, base.ItemTotal)
		if err != nil {
			return pricing.Totals{}, nil, fmt.Errorf("validate coupon: %w", err)
		}
		discountAmount = d.Amount
	}

	return totals(lines, cfg, discountAmount), d, nil
}

// Quote prices a customer cart. Nothing is written.
func (s *Service) Quote(ctx context.Context, req PlaceRequest) (pricing.Totals, *coupon.Discount, error) {
	return s.quote(ctx, req, pricing.CustomerTotals)
}

// QuotePOS prices a counter cart, including the packaging fee.
func (s *Service) QuotePOS(ctx context.Context, req PlaceRequest) (pricing.Totals, *coupon.Discount, error) {
	return s.quote(ctx, req, pricing.POSTotals)
}

func (s *Service) place(ctx context.Context, req PlaceRequest, totals totalsFunc) (*Order, error) {
	items, lines, err := s.linesFor(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	cfg := s.fees.Fees(ctx)

	base := totals(lines, cfg, decimal.Zero)

	discountAmount := decimal.Zero
	var use *CouponUse
	couponCode := ""
	if req.CouponCode != "" {
		d, err := s.coupons.Validate(ctx, req.CouponCode, req.UserID, base.ItemTotal)
		if err != nil {
			return nil, fmt.Errorf("validate coupon: %w", err)
		}
		discountAmount = d.Amount
		couponCode = d.Code
		use = &CouponUse{CouponID: d.CouponID, UserID: req.UserID}
	}

	t := totals(lines, cfg, discountAmount)

	status := StatusPending
	if req.PaymentMethod == PaymentCard {
		status = StatusAwaitingPayment
	}
	pickup := req.PickupTime
	if pickup == "" {
		pickup = PickupASAP
	}

	o := &Order{
		ID:            uuid.New().String(),
		OTP:           NewOTP(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Type:          TypePickup,
		PickupTime:    pickup,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: PaymentUnpaid,
		ItemTotal:     t.ItemTotal,
		GST:           t.GST,
		PlatformFee:   t.PlatformFee,
		PackagingFee:  t.PackagingFee,
		DeliveryFee:   t.DeliveryCharge,
		Discount:      t.Discount,
		FinalTotal:    t.FinalTotal,
		CouponCode:    couponCode,
		Status:        status,
		Items:         items,
	}

	if err := s.orders.Create(ctx, o, use); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.events.OrderCreated(ctx, o)
	return o, nil
}

// Get returns an order by its internal ID.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// Track returns an order by its customer-facing OTP.
func (s *Service) Track(ctx context.Context, otp string) (*Order, error) {
	return s.orders.GetByOTP(ctx, otp)
}

// List returns orders matching the filter for the admin dashboard.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	return s.orders.List(ctx, f)
}

// UpdateStatus applies a status change after checking the transition
// allow-list. Entering confirmed spools the kitchen ticket; a print
// failure is logged and swallowed, never rolling back the change.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (*Order, error) {
	if !to.Valid() {
		return nil, &TransitionError{To: to}
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if !CanTransition(from, to) {
		return nil, &TransitionError{From: from, To: to}
	}

	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	o.Status = to

	if to == StatusConfirmed {
		s.printKOT(ctx, o)
	}

	s.events.StatusChanged(ctx, o, from, to)
	return o, nil
}

// Advance applies the one-click quick advance from the order's current
// status. Statuses without an auto-next target return ErrNoAutoAdvance.
func (s *Service) Advance(ctx context.Context, id string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := AutoNext(o.Status)
	if !ok {
		return nil, ErrNoAutoAdvance
	}
	return s.UpdateStatus(ctx, id, next)
}

// RecordPayment applies a payment-gateway callback. A successful payment
// on an awaiting order moves it into the kitchen queue.
func (s *Service) RecordPayment(ctx context.Context, id string, paid bool) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ps := PaymentFailed
	if paid {
		ps = PaymentPaid
	}
	if err := s.orders.UpdatePayment(ctx, id, ps); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	o.PaymentStatus = ps

	if paid && o.Status == StatusAwaitingPayment {
		return s.UpdateStatus(ctx, id, StatusPending)
	}
	return o, nil
}

// printKOT spools the configured number of kitchen ticket copies.
func (s *Service) printKOT(ctx context.Context, o *Order) {
	for i := 0; i < s.kotCopies; i++ {
		if err := s.printer.PrintKOT(ctx, o); err != nil {
			s.lg.Warn("kitchen ticket print failed",
				zap.String("order_id", o.ID),
				zap.Int("copy", i+1),
				zap.Error(err),
			)
		}
	}
}
