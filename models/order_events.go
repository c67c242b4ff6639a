package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEventItem is a single line within an order event payload.
type OrderEventItem struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

// OrderEvent is published on order lifecycle changes. The order id is the
// partition key so events for one order keep their relative order.
type OrderEvent struct {
	EventID     string           `json:"event_id"`
	EventType   string           `json:"event_type"`
	OrderID     uuid.UUID        `json:"order_id"`
	UserID      uuid.UUID        `json:"user_id"`
	Status      OrderStatus      `json:"status"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderEventItem `json:"items,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}
