// Package events contains the order lifecycle events published to the broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/retailcore/pkg/messaging"
	"github.com/google/uuid"
)

type OrderPlacedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	CustomerID  int64     `json:"customer_id"`
	TotalAmount int64     `json:"total_amount"`
	PlacedAt    time.Time `json:"placed_at"`
}

func (e OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (e OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type OrderCancelledEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	CustomerID  int64     `json:"customer_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

func (e OrderCancelledEvent) Subject() string {
	return messaging.OrdersCancelledSubject
}

func (e OrderCancelledEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type OrderCompletedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	CustomerID  int64     `json:"customer_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e OrderCompletedEvent) Subject() string {
	return messaging.OrdersCompletedSubject
}

func (e OrderCompletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
