// Package notify pushes order events to the admin dashboard: a Redis
// pub/sub channel carries the events between processes, and a websocket
// hub fans them out to connected dashboard clients.
package notify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
)

// Channel is the Redis pub/sub channel carrying order events.
const Channel = "tiffin:orders"

// Event types published on Channel.
const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
)

// Event is the wire format for an order notification. The admin UI
// re-fetches the order list on receipt; the payload carries just enough
// to render a toast and play the new-order sound.
type Event struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	OTP        string          `json:"otp"`
	Status     order.Status    `json:"status"`
	PrevStatus order.Status    `json:"prev_status,omitempty"`
	FinalTotal decimal.Decimal `json:"final_total"`
	OccurredAt time.Time       `json:"occurred_at"`
}
