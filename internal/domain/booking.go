package domain

import (
	"context"
	"time"
)

// Booking represents one user's reservation of one seat at an event.
// The booking write path lives outside this service; bookings are read here
// to derive availability and attendee rosters.
type Booking struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

// Attendee is one row of an event's attendee roster: the booking joined to
// its user.
// swagger:model Attendee
type Attendee struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	BookingDate time.Time `json:"booking_date"`
	Status      string    `json:"status"`
}

// AttendeeReport is the attendee roster for an event plus revenue. Revenue is
// count-based (attendee count times the event price); bookings carry no
// per-booking price.
type AttendeeReport struct {
	EventID        string      `json:"event_id"`
	Attendees      []*Attendee `json:"attendees"`
	TotalAttendees int         `json:"total_attendees"`
	TotalRevenue   float64     `json:"total_revenue"`
}

// BookingRepository defines read access to bookings.
type BookingRepository interface {
	// ListAttendeesByEventID returns one page of the event's attendees ordered
	// by booking date ascending, plus the total attendee count.
	ListAttendeesByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Attendee, int, error)
	// ListEmailsByEventID returns the distinct emails of the event's attendees.
	ListEmailsByEventID(ctx context.Context, eventID string) ([]string, error)
}
