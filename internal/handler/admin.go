package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/settings"
	"github.com/tiffinlabs/tiffin-pos/internal/report"
)

const dayFormat = "2006-01-02"

// ListOrders returns orders for the dashboard, filterable by status,
// day (YYYY-MM-DD), and limit.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var f order.ListFilter
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		st := order.Status(s)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status "+s)
			return
		}
		f.Status = st
	}
	if d := q.Get("day"); d != "" {
		day, err := time.Parse(dayFormat, d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
		f.Day = &day
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	orders, err := h.orders.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// PlacePOSOrder creates a counter order, the packaging-fee variant of
// the customer checkout.
func (h *Handler) PlacePOSOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.PlacePOS(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// UpdateOrderStatus applies an explicit status change.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status order.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// AdvanceOrder applies the one-click quick advance.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// OrderKOT renders the kitchen ticket for reprinting.
func (h *Handler) OrderKOT(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	doc, err := h.spool.RenderKOT(o)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeHTML(w, doc)
}

// OrderBill renders the customer bill with the restaurant header.
func (h *Handler) OrderBill(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	doc, err := h.spool.RenderBill(r.Context(), o)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeHTML(w, doc)
}

// PrintJobs drains the print spool, handing queued documents to the
// dashboard's print bridge.
func (h *Handler) PrintJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.spool.Drain())
}

func writeHTML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// GetSettings returns the restaurant settings row.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings replaces the settings row and invalidates the fee
// cache so the next checkout uses the new schedule.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s settings.Restaurant
	if err := decode(r, &s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.GSTRate.IsNegative() || s.PlatformFee.IsNegative() || s.PackagingFee.IsNegative() {
		writeError(w, http.StatusBadRequest, "fees must not be negative")
		return
	}
	if err := h.settings.Update(r.Context(), &s); err != nil {
		respondError(w, r, err)
		return
	}
	if h.onSettingsChange != nil {
		h.onSettingsChange()
	}
	writeJSON(w, http.StatusOK, s)
}

// DailyReport returns the sales summary for a day, JSON by default or
// CSV with ?format=csv. The day defaults to today.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(dayFormat, d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	s, err := h.reports.DailySales(r.Context(), day)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="sales-`+day.Format(dayFormat)+`.csv"`)
		if err := report.WriteCSV(w, s); err != nil {
			respondError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, s)
}
