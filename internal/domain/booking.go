package domain

import "time"

type BookingStatus string

const (
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCanceled   BookingStatus = "CANCELED"
)

// CONFIRMED and CANCELED are terminal; re-booking requires a new Booking.
var bookingNext = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusInProgress: {BookingStatusConfirmed: true, BookingStatusCanceled: true},
	BookingStatusConfirmed:  {},
	BookingStatusCanceled:   {},
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return bookingNext[s][to]
}

// Active reports whether the booking still counts against duplicate and
// time-conflict checks.
func (s BookingStatus) Active() bool {
	return s == BookingStatusInProgress || s == BookingStatusConfirmed
}

type Booking struct {
	ID         string
	UserID     string
	WorkshopID string
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
