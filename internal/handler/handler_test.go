package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/auth"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/feedback"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/settings"
	"github.com/tiffinlabs/tiffin-pos/internal/printing"
	"github.com/tiffinlabs/tiffin-pos/internal/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type mockMenu struct {
	items []menu.Item
	cats  []menu.Category
}

func (m *mockMenu) List(_ context.Context, availableOnly bool) ([]menu.Item, error) {
	if !availableOnly {
		return m.items, nil
	}
	var out []menu.Item
	for _, it := range m.items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockMenu) GetByIDs(_ context.Context, ids []string) ([]menu.Item, error) {
	var out []menu.Item
	for _, id := range ids {
		for _, it := range m.items {
			if it.ID == id {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (m *mockMenu) ListCategories(context.Context) ([]menu.Category, error) { return m.cats, nil }

func (m *mockMenu) Create(_ context.Context, it *menu.Item) error {
	m.items = append(m.items, *it)
	return nil
}

func (m *mockMenu) Update(_ context.Context, it *menu.Item) error {
	for i := range m.items {
		if m.items[i].ID == it.ID {
			m.items[i] = *it
			return nil
		}
	}
	return menu.ErrNotFound
}

func (m *mockMenu) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return menu.ErrNotFound
}

func (m *mockMenu) SetAvailability(_ context.Context, ids []string, available bool) error {
	for _, id := range ids {
		for i := range m.items {
			if m.items[i].ID == id {
				m.items[i].Available = available
			}
		}
	}
	return nil
}

func (m *mockMenu) CreateCategory(_ context.Context, c *menu.Category) error {
	m.cats = append(m.cats, *c)
	return nil
}

func (m *mockMenu) DeleteCategory(_ context.Context, id string) error {
	for i := range m.cats {
		if m.cats[i].ID == id {
			m.cats = append(m.cats[:i], m.cats[i+1:]...)
			return nil
		}
	}
	return menu.ErrNotFound
}

type mockCoupons struct {
	rules []coupon.Rule
}

func (m *mockCoupons) FindByCode(_ context.Context, code string) (*coupon.Rule, error) {
	for i := range m.rules {
		if m.rules[i].Code == code {
			return &m.rules[i], nil
		}
	}
	return nil, coupon.ErrInvalidCoupon
}

func (m *mockCoupons) CountUserUsage(context.Context, string, string) (int, error) { return 0, nil }
func (m *mockCoupons) List(context.Context) ([]coupon.Rule, error)                 { return m.rules, nil }
func (m *mockCoupons) Create(_ context.Context, rule *coupon.Rule) error {
	m.rules = append(m.rules, *rule)
	return nil
}
func (m *mockCoupons) Update(_ context.Context, rule *coupon.Rule) error {
	for i := range m.rules {
		if m.rules[i].ID == rule.ID {
			m.rules[i] = *rule
			return nil
		}
	}
	return coupon.ErrInvalidCoupon
}
func (m *mockCoupons) Delete(_ context.Context, id string) error {
	for i := range m.rules {
		if m.rules[i].ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return coupon.ErrInvalidCoupon
}

type mockOrders struct {
	byID map[string]*order.Order
}

func newMockOrders() *mockOrders { return &mockOrders{byID: make(map[string]*order.Order)} }

func (m *mockOrders) Create(_ context.Context, o *order.Order, _ *order.CouponUse) error {
	o.CreatedAt = time.Now()
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *mockOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrders) GetByOTP(_ context.Context, otp string) (*order.Order, error) {
	for _, o := range m.byID {
		if o.OTP == otp {
			cp := *o
			return &cp, nil
		}
	}
	return nil, order.ErrNotFound
}

func (m *mockOrders) List(context.Context, order.ListFilter) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrders) UpdateStatus(_ context.Context, id string, status order.Status) error {
	o, ok := m.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrders) UpdatePayment(_ context.Context, id string, ps order.PaymentStatus) error {
	o, ok := m.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.PaymentStatus = ps
	return nil
}

type staticFees struct{ cfg pricing.FeeConfig }

func (f staticFees) Fees(context.Context) pricing.FeeConfig { return f.cfg }

type nopPublisher struct{}

func (nopPublisher) OrderCreated(context.Context, *order.Order)                              {}
func (nopPublisher) StatusChanged(context.Context, *order.Order, order.Status, order.Status) {}

type mockSettings struct {
	row     settings.Restaurant
	updated int
}

func (m *mockSettings) Get(context.Context) (*settings.Restaurant, error) {
	cp := m.row
	return &cp, nil
}

func (m *mockSettings) Update(_ context.Context, r *settings.Restaurant) error {
	m.row = *r
	m.updated++
	return nil
}

type mockFeedback struct {
	created []feedback.Feedback
}

func (m *mockFeedback) Create(_ context.Context, f *feedback.Feedback) error {
	f.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *f)
	return nil
}

func (m *mockFeedback) ListByOrder(_ context.Context, orderID string) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	for _, f := range m.created {
		if f.OrderID == orderID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockReports struct{ sales report.DailySales }

func (m *mockReports) DailySales(_ context.Context, day time.Time) (*report.DailySales, error) {
	s := m.sales
	s.Day = day
	return &s, nil
}

// passAuth is the no-op admin guard used by tests not about auth.
func passAuth(next http.Handler) http.Handler { return next }

type fixture struct {
	menu     *mockMenu
	coupons  *mockCoupons
	orders   *mockOrders
	settings *mockSettings
	feedback *mockFeedback
	changed  int
	srv      http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mm := &mockMenu{
		items: []menu.Item{
			{ID: "thali", Name: "Executive Veg Thali", Price: dec("210.00"), CategoryID: "meals", Available: true, Vegetarian: true},
			{ID: "chaas", Name: "Masala Chaas", Price: dec("40.00"), CategoryID: "sides", Available: true, Vegetarian: true},
			{ID: "offmenu", Name: "Seasonal Special", Price: dec("150.00"), CategoryID: "meals", Available: false},
		},
		cats: []menu.Category{{ID: "meals", Name: "Meal Boxes", SortOrder: 1}},
	}
	mc := &mockCoupons{rules: []coupon.Rule{{
		ID:           "save40",
		Code:         "SAVE40",
		Name:         "Flat 40 off",
		DiscountType: coupon.DiscountFixed,
		Value:        dec("40.00"),
		Active:       true,
	}}}
	mo := newMockOrders()
	ms := &mockSettings{row: settings.Restaurant{
		GSTRate:        dec("0.05"),
		PlatformFee:    dec("15.00"),
		RestaurantName: "Tiffin Labs",
	}}
	mf := &mockFeedback{}

	fees := staticFees{cfg: pricing.FeeConfig{
		GSTRate:             dec("0.05"),
		PlatformFee:         dec("15.00"),
		PlatformFeeEnabled:  true,
		PackagingFee:        dec("5.00"),
		PackagingFeeEnabled: true,
	}}

	spool := printing.NewSpool(ms)
	svc := order.NewService(
		mm, coupon.NewRepoValidator(mc), mo, fees, spool, nopPublisher{}, zap.NewNop(),
	)

	f := &fixture{menu: mm, coupons: mc, orders: mo, settings: ms, feedback: mf}
	h := New(Config{
		Menu:             mm,
		Coupons:          mc,
		Validator:        coupon.NewRepoValidator(mc),
		Orders:           svc,
		Settings:         ms,
		OnSettingsChange: func() { f.changed++ },
		Feedback:         mf,
		Reports:          &mockReports{sales: report.DailySales{OrderCount: 3, Net: dec("1200.00")}},
		Spool:            spool,
	})
	f.srv = h.Routes(passAuth)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestMenu_AvailableOnly(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeBody[[]menu.Item](t, w)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.True(t, it.Available)
	}
}

func TestAdminMenu_IncludesUnavailable(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/admin/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]menu.Item](t, w), 3)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		CustomerName:  "Asha",
		PaymentMethod: order.PaymentCash,
		Lines: []order.LineRequest{
			{MenuItemID: "thali", Quantity: 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	o := decodeBody[order.Order](t, w)
	assert.True(t, dec("400.00").Equal(o.ItemTotal), "item total %s", o.ItemTotal)
	assert.True(t, dec("20.00").Equal(o.GST))
	assert.True(t, dec("15.00").Equal(o.PlatformFee))
	assert.True(t, dec("435.00").Equal(o.FinalTotal))
	assert.Equal(t, order.StatusPending, o.Status)
	assert.NotEmpty(t, o.OTP)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrder_UnknownItem(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "nope", Quantity: 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPlaceOrder_UnavailableItem(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "offmenu", Quantity: 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPlacePOSOrder_PackagingFee(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines: []order.LineRequest{
			{MenuItemID: "thali", Quantity: 2, Packaging: true},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	o := decodeBody[order.Order](t, w)
	assert.True(t, dec("10.00").Equal(o.PackagingFee), "packaging fee %s", o.PackagingFee)
	assert.True(t, dec("445.00").Equal(o.FinalTotal))
}

func TestCartTotals_WithCoupon(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/cart/totals", order.PlaceRequest{
		CouponCode: "SAVE40",
		Lines:      []order.LineRequest{{MenuItemID: "thali", Quantity: 2}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[quoteResponse](t, w)
	assert.True(t, dec("40.00").Equal(resp.Discount))
	assert.True(t, dec("395.00").Equal(resp.FinalTotal))
	require.NotNil(t, resp.Coupon)
	assert.Equal(t, "SAVE40", resp.Coupon.Code)

	// A quote must not create anything.
	assert.Empty(t, f.orders.byID)
}

func TestTrackOrder(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "chaas", Quantity: 1}},
	}))

	w := f.do(t, http.MethodGet, "/api/orders/"+placed.OTP, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[order.Order](t, w)
	assert.Equal(t, placed.ID, got.ID)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/orders/000000", nil).Code)
}

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/coupons/validate", map[string]any{
		"code":     "save40",
		"subtotal": "400.00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[validateCouponResponse](t, w)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.Discount)
	assert.True(t, dec("40.00").Equal(resp.Discount.Amount))
}

func TestValidateCoupon_Rejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/coupons/validate", map[string]any{
		"code":     "NOSUCH",
		"subtotal": "400.00",
	})
	require.Equal(t, http.StatusOK, w.Code, "rejections are not transport errors")
	resp := decodeBody[validateCouponResponse](t, w)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Error)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "chaas", Quantity: 1}},
	}))

	w := f.do(t, http.MethodPatch, "/api/admin/orders/"+placed.ID+"/status",
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, order.StatusConfirmed, decodeBody[order.Order](t, w).Status)

	// delivered is not reachable from confirmed.
	w = f.do(t, http.MethodPatch, "/api/admin/orders/"+placed.ID+"/status",
		map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdvanceOrder(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "chaas", Quantity: 1}},
	}))

	w := f.do(t, http.MethodPost, "/api/admin/orders/"+placed.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.StatusConfirmed, decodeBody[order.Order](t, w).Status)
}

func TestCreateFeedback(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "chaas", Quantity: 1}},
	}))

	w := f.do(t, http.MethodPost, "/api/orders/"+placed.OTP+"/feedback",
		map[string]any{"rating": 5, "comments": "great"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.feedback.created, 1)
	assert.Equal(t, placed.ID, f.feedback.created[0].OrderID)

	w = f.do(t, http.MethodPost, "/api/orders/"+placed.OTP+"/feedback",
		map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentCallback(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCard,
		Lines:         []order.LineRequest{{MenuItemID: "chaas", Quantity: 1}},
	}))
	require.Equal(t, order.StatusAwaitingPayment, placed.Status)

	w := f.do(t, http.MethodPost, "/api/payments/callback",
		map[string]string{"order_id": placed.ID, "status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[order.Order](t, w)
	assert.Equal(t, order.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, order.StatusPending, got.Status)

	w = f.do(t, http.MethodPost, "/api/payments/callback",
		map[string]string{"order_id": placed.ID, "status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/api/admin/settings", map[string]any{
		"gst_rate":     "0.05",
		"platform_fee": "20.00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, f.settings.updated)
	assert.Equal(t, 1, f.changed, "fee cache must be invalidated")

	w = f.do(t, http.MethodPut, "/api/admin/settings", map[string]any{
		"platform_fee": "-1.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, f.changed)
}

func TestSetAvailability(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/admin/menu/availability", map[string]any{
		"ids":       []string{"thali", "chaas"},
		"available": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	items, _ := f.menu.List(context.Background(), true)
	assert.Empty(t, items)

	w = f.do(t, http.MethodPost, "/api/admin/menu/availability", map[string]any{
		"ids": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDailyReport_CSV(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/admin/reports/daily?date=2026-02-14&format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "2026-02-14")
	assert.Contains(t, w.Body.String(), "1200.00")
}

func TestOrderKOT_Render(t *testing.T) {
	f := newFixture(t)

	placed := decodeBody[order.Order](t, f.do(t, http.MethodPost, "/api/orders", order.PlaceRequest{
		PaymentMethod: order.PaymentCash,
		Lines:         []order.LineRequest{{MenuItemID: "thali", Quantity: 2}},
	}))

	w := f.do(t, http.MethodGet, "/api/admin/orders/"+placed.ID+"/kot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Executive Veg Thali")
	assert.Contains(t, w.Body.String(), placed.OTP)
}

func TestAPIKeyAuth(t *testing.T) {
	pepper := []byte("test-pepper")
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte("secret-key"))
	hash := hex.EncodeToString(mac.Sum(nil))

	repo := &mockAPIKeys{hash: hash}
	guarded := APIKeyAuth(repo, pepper)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No key.
	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong key.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "wrong-key")
	guarded.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct key in the header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "secret-key")
	guarded.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Correct key as a query parameter, the websocket path.
	w = httptest.NewRecorder()
	guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/admin?api_key=secret-key", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type mockAPIKeys struct{ hash string }

func (m *mockAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	if hash != m.hash {
		return nil, order.ErrNotFound
	}
	return &auth.APIKeyInfo{ID: "admin", KeyHash: m.hash}, nil
}
