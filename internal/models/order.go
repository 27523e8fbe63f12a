package models

import "time"

const OrderPlacedEvent = "order.placed"

// OrderPlaced is published to kafka once an order document has been stored.
type OrderPlaced struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Items     []any     `json:"items"`
	ItemCount int       `json:"item_count"`
	PlacedAt  time.Time `json:"placed_at"`
}
