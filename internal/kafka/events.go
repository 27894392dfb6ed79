package kafka

import "time"

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	WorkshopID string    `json:"workshop_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

type OrderEvent struct {
	Type       string           `json:"type"`
	OrderID    string           `json:"order_id"`
	UserID     string           `json:"user_id"`
	Status     string           `json:"status"`
	TotalCents int64            `json:"total_cents"`
	Items      []OrderEventItem `json:"items,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type OrderEventItem struct {
	ArtworkID string `json:"artwork_id"`
	Quantity  int    `json:"quantity"`
}
