package domain

import "time"

type Artwork struct {
	ID         string
	ArtistID   string
	Title      string
	Quantity   int
	PriceCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
