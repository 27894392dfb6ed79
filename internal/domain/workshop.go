package domain

import "time"

type Workshop struct {
	ID           string
	ArtistID     string
	Name         string
	Location     string
	PriceCents   int64
	StartTime    time.Time
	EndTime      time.Time
	Capacity     int
	Availability bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Overlaps reports whether the half-open windows [w.StartTime, w.EndTime) and
// [other.StartTime, other.EndTime) intersect. A window overlaps itself.
func (w *Workshop) Overlaps(other *Workshop) bool {
	return w.StartTime.Before(other.EndTime) && other.StartTime.Before(w.EndTime)
}
