// Package handler implements the HTTP API surface: the public ordering
// endpoints and the key-protected admin dashboard endpoints.
package handler

import (
	"net/http"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/coupon"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/feedback"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
	"github.com/tiffinlabs/tiffin-pos/internal/domain/settings"
	"github.com/tiffinlabs/tiffin-pos/internal/printing"
	"github.com/tiffinlabs/tiffin-pos/internal/report"
)

// Handler carries the dependencies shared by all routes.
type Handler struct {
	menu             menu.Repository
	coupons          coupon.AdminRepository
	validator        coupon.Validator
	orders           *order.Service
	settings         settings.Store
	onSettingsChange func()
	feedback         feedback.Repository
	reports          report.Repository
	spool            *printing.Spool
	ws               http.Handler
}

// Config collects the wiring for New.
type Config struct {
	Menu             menu.Repository
	Coupons          coupon.AdminRepository
	Validator        coupon.Validator
	Orders           *order.Service
	Settings         settings.Store
	OnSettingsChange func()
	Feedback         feedback.Repository
	Reports          report.Repository
	Spool            *printing.Spool
	WS               http.Handler
}

func New(cfg Config) *Handler {
	return &Handler{
		menu:             cfg.Menu,
		coupons:          cfg.Coupons,
		validator:        cfg.Validator,
		orders:           cfg.Orders,
		settings:         cfg.Settings,
		onSettingsChange: cfg.OnSettingsChange,
		feedback:         cfg.Feedback,
		reports:          cfg.Reports,
		spool:            cfg.Spool,
		ws:               cfg.WS,
	}
}
