package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the API router. The auth middleware guards every
// /api/admin route and the websocket feed.
func (h *Handler) Routes(auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.Menu)
		r.Get("/categories", h.Categories)
		r.Post("/cart/totals", h.CartTotals)
		r.Post("/coupons/validate", h.ValidateCoupon)
		r.Post("/orders", h.PlaceOrder)
		r.Get("/orders/{otp}", h.TrackOrder)
		r.Post("/orders/{otp}/feedback", h.CreateFeedback)
		r.Post("/payments/callback", h.PaymentCallback)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)

			r.Get("/orders", h.ListOrders)
			r.Post("/orders", h.PlacePOSOrder)
			r.Post("/cart/totals", h.POSCartTotals)
			r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
			r.Post("/orders/{id}/advance", h.AdvanceOrder)
			r.Get("/orders/{id}/kot", h.OrderKOT)
			r.Get("/orders/{id}/bill", h.OrderBill)
			r.Get("/print-jobs", h.PrintJobs)

			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)

			r.Get("/menu", h.AdminMenu)
			r.Post("/menu", h.CreateMenuItem)
			r.Put("/menu/{id}", h.UpdateMenuItem)
			r.Delete("/menu/{id}", h.DeleteMenuItem)
			r.Post("/menu/availability", h.SetAvailability)
			r.Post("/categories", h.CreateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Get("/coupons", h.ListCoupons)
			r.Post("/coupons", h.CreateCoupon)
			r.Put("/coupons/{id}", h.UpdateCoupon)
			r.Delete("/coupons/{id}", h.DeleteCoupon)

			r.Get("/reports/daily", h.DailyReport)
		})
	})

	if h.ws != nil {
		r.With(auth).Get("/ws/admin", h.ws.ServeHTTP)
	}

	return r
}
