package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type StoreEventType string

const (
	OrderCreatedEvent       StoreEventType = "order.created"
	OrderStatusChangedEvent StoreEventType = "order.status_changed"
	InventoryAdjustedEvent  StoreEventType = "inventory.adjusted"
)

// StoreEvent is the envelope published for every storefront side effect.
type StoreEvent struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"order_id,omitempty"`
	EventType     StoreEventType `json:"event_type"`
	Payload       interface{}    `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
	Service       string         `json:"service"`
	CorrelationID uuid.UUID      `json:"correlation_id"`
}

type OrderCreatedPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	ItemCount     int       `json:"item_count"`
	Total         string    `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID        uuid.UUID `json:"order_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	CustomerEmail  string    `json:"customer_email"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	PaymentStatus  string    `json:"payment_status"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
}

type InventoryAdjustedPayload struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Action        string    `json:"action"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Available     int       `json:"available"`
	Reason        string    `json:"reason,omitempty"`
}

// DecodePayload maps the wire payload back into its typed form. Payloads
// arrive as generic JSON after transport, so a round trip is the least
// fragile way to recover the struct.
func DecodePayload(event StoreEvent, out interface{}) error {
	raw, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("payload serialization error: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payload mapping error for %s: %w", event.EventType, err)
	}
	return nil
}
