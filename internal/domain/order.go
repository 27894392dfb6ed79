package domain

import "time"

type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// Forward-only fulfillment path plus cancellation out of IN_PROGRESS.
// Cancellation does not restock artwork quantities.
var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusInProgress: {OrderStatusShipped: true, OrderStatusCanceled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCanceled:   {},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return orderNext[s][to]
}

type OrderItem struct {
	ArtworkID string
	Quantity  int
	// PriceCents is the unit price captured at reservation time.
	PriceCents int64
}

type Order struct {
	ID         string
	UserID     string
	Items      []OrderItem
	TotalCents int64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
