package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
)

// validateCouponResponse is returned with 200 for both outcomes so the
// checkout page can show a rejection inline without error handling.
type validateCouponResponse struct {
	Valid    bool             `json:"valid"`
	Error    string           `json:"error,omitempty"`
	Discount *coupon.Discount `json:"discount,omitempty"`
}

// ValidateCoupon checks a code against the given pre-tax subtotal.
// Side-effect free: usage is only recorded when an order is placed.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string          `json:"code"`
		UserID   string          `json:"user_id"`
		Subtotal decimal.Decimal `json:"subtotal"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.validator.Validate(r.Context(), req.Code, req.UserID, req.Subtotal)
	if err != nil {
		if couponStatus(err) {
			writeJSON(w, http.StatusOK, validateCouponResponse{Valid: false, Error: err.Error()})
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateCouponResponse{Valid: true, Discount: d})
}

// ListCoupons returns all coupon rules for the dashboard.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	rules, err := h.coupons.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// CreateCoupon adds a coupon rule. An omitted ID is generated.
func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var rule coupon.Rule
	if err := decode(r, &rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rule.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	switch rule.DiscountType {
	case coupon.DiscountPercentage, coupon.DiscountFixed:
	default:
		writeError(w, http.StatusBadRequest, "discount_type must be percentage or fixed")
		return
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	if err := h.coupons.Create(r.Context(), &rule); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// UpdateCoupon replaces a coupon rule's editable fields. The code is
// immutable once created.
func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var rule coupon.Rule
	if err := decode(r, &rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rule.ID = chi.URLParam(r, "id")
	if err := h.coupons.Update(r.Context(), &rule); err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// DeleteCoupon removes a coupon rule.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			writeError(w, http.StatusNotFound, "coupon not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
