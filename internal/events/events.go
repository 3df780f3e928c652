// Package events publishes order lifecycle notifications after the owning
// transaction has committed. Publishing is best effort: the database is the
// source of truth and a lost event never undoes a committed order.
package events

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	OrderCreated   Type = "order.created"
	OrderCancelled Type = "order.cancelled"
	OrderStatus    Type = "order.status_changed"
	CODCollected   Type = "cod.collected"
)

type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	OrderID    string    `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(t Type, orderID string, payload any) Event {
	return Event{ID: uuid.New(), Type: t, OrderID: orderID, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Emit publishes e and only logs a failure.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("[events] publish %s order=%s failed: %v", e.Type, e.OrderID, err)
	}
}
