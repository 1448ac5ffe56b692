package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/feedback"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
)

type quoteFunc func(context.Context, order.PlaceRequest) (pricing.Totals, *coupon.Discount, error)

// quoteResponse is the totals breakdown plus the applied coupon, if any.
type quoteResponse struct {
	pricing.Totals
	Coupon *coupon.Discount `json:"coupon,omitempty"`
}

// PlaceOrder creates a customer order from the cart.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.Place(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// CartTotals prices the cart without placing an order, so the checkout
// page can show the breakdown the server will charge.
func (h *Handler) CartTotals(w http.ResponseWriter, r *http.Request) {
	h.cartTotals(w, r, h.orders.Quote)
}

// POSCartTotals is CartTotals for the counter flow, packaging fee included.
func (h *Handler) POSCartTotals(w http.ResponseWriter, r *http.Request) {
	h.cartTotals(w, r, h.orders.QuotePOS)
}

func (h *Handler) cartTotals(w http.ResponseWriter, r *http.Request, quote quoteFunc) {
	var req order.PlaceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, d, err := quote(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Totals: t, Coupon: d})
}

// TrackOrder returns the order matching the customer-facing OTP.
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Track(r.Context(), chi.URLParam(r, "otp"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// CreateFeedback records a rating for the order behind the OTP.
func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Track(r.Context(), chi.URLParam(r, "otp"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	fb := &feedback.Feedback{
		OrderID:  o.ID,
		Rating:   req.Rating,
		Comments: req.Comments,
	}
	if err := fb.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.feedback.Create(r.Context(), fb); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// PaymentCallback applies a payment-gateway result to an order.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}
	switch req.Status {
	case "paid", "failed":
	default:
		writeError(w, http.StatusBadRequest, "status must be paid or failed")
		return
	}

	o, err := h.orders.RecordPayment(r.Context(), req.OrderID, req.Status == "paid")
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
