package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/order"
)

// Publisher emits order events to Redis. Publish failures are logged and
// swallowed: notifications are best-effort and must never fail the order
// operation that produced them.
type Publisher struct {
	rdb *redis.Client
	lg  *zap.Logger
	now func() time.Time
}

// NewPublisher creates a Publisher on the given Redis client.
func NewPublisher(rdb *redis.Client, lg *zap.Logger) *Publisher {
	return &Publisher{rdb: rdb, lg: lg, now: time.Now}
}

var _ order.Publisher = (*Publisher)(nil)

// OrderCreated publishes an order.created event.
func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) {
	p.publish(ctx, Event{
		Type:       EventOrderCreated,
		OrderID:    o.ID,
		OTP:        o.OTP,
		Status:     o.Status,
		FinalTotal: o.FinalTotal,
		OccurredAt: p.now(),
	})
}

// StatusChanged publishes an order.status_changed event.
func (p *Publisher) StatusChanged(ctx context.Context, o *order.Order, from, to order.Status) {
	p.publish(ctx, Event{
		Type:       EventStatusChanged,
		OrderID:    o.ID,
		OTP:        o.OTP,
		Status:     to,
		PrevStatus: from,
		FinalTotal: o.FinalTotal,
		OccurredAt: p.now(),
	})
}

func (p *Publisher) publish(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.lg.Warn("marshal order event", zap.Error(err))
		return
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		p.lg.Warn("publish order event",
			zap.String("type", e.Type),
			zap.String("order_id", e.OrderID),
			zap.Error(err),
		)
	}
}

// NopPublisher discards all events. Used when Redis is not configured.
type NopPublisher struct{}

var _ order.Publisher = NopPublisher{}

func (NopPublisher) OrderCreated(context.Context, *order.Order)                              {}
func (NopPublisher) StatusChanged(context.Context, *order.Order, order.Status, order.Status) {}
