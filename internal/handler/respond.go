package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/feedback"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// Headers are already sent, an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondError converts domain errors to HTTP status codes. Anything
// unrecognized becomes a 500 with the detail kept out of the body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch status, msg := classifyError(err); status {
	case http.StatusInternalServerError:
		zctx.From(r.Context()).Error("Handler error", zap.Error(err))
		writeError(w, status, "internal error")
	default:
		writeError(w, status, msg)
	}
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, menu.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, feedback.ErrInvalidRating):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, order.ErrNoAutoAdvance):
		return http.StatusConflict, err.Error()
	}

	var transitionErr *order.TransitionError
	if errors.As(err, &transitionErr) {
		return http.StatusConflict, transitionErr.Error()
	}

	var quantityErr *order.InvalidQuantityError
	if errors.As(err, &quantityErr) {
		return http.StatusUnprocessableEntity, quantityErr.Error()
	}

	var notFoundErr *order.ItemNotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusUnprocessableEntity, notFoundErr.Error()
	}

	var unavailableErr *order.ItemUnavailableError
	if errors.As(err, &unavailableErr) {
		return http.StatusUnprocessableEntity, unavailableErr.Error()
	}

	if couponStatus(err) {
		return http.StatusUnprocessableEntity, err.Error()
	}

	return http.StatusInternalServerError, ""
}

// couponStatus reports whether err is one of the coupon rejection sentinels.
func couponStatus(err error) bool {
	return errors.Is(err, coupon.ErrInvalidCoupon) ||
		errors.Is(err, coupon.ErrCouponExpired) ||
		errors.Is(err, coupon.ErrUsageLimitReached) ||
		errors.Is(err, coupon.ErrPerUserLimitReached) ||
		errors.Is(err, coupon.ErrMinOrderNotMet)
}
