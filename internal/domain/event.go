package domain

import (
	"context"
	"time"
)

// Event modes.
const (
	ModePhysical = "physical"
	ModeVirtual  = "virtual"
)

// DefaultCapacity is applied when an event is created without a capacity.
const DefaultCapacity = 100

// Event represents a bookable event owned by an organizer.
//
// AvailableSeats is written once at creation (equal to Capacity) and is not
// maintained afterwards. Listings overwrite it with the live derived value
// (capacity minus booking count); single-event lookups return the stored
// column as-is.
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Price          float64   `json:"price"`
	ImageURL       string    `json:"image_url"`
	Mode           string    `json:"mode"`
	MeetingLink    string    `json:"meeting_link"`
	Capacity       int       `json:"capacity"`
	OrganizerID    string    `json:"organizer_id"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEvent returns a new Event with creation defaults applied: capacity
// defaults to DefaultCapacity, mode to ModePhysical, and AvailableSeats is
// initialized to the capacity. ID is set by the repository on create.
func NewEvent(title, description string, date time.Time, location string, price float64, mode, meetingLink string, capacity int, organizerID string, createdAt time.Time) *Event {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if mode == "" {
		mode = ModePhysical
	}
	if price < 0 {
		price = 0
	}
	return &Event{
		Title:          title,
		Description:    description,
		Date:           date,
		Location:       location,
		Price:          price,
		Mode:           mode,
		MeetingLink:    meetingLink,
		Capacity:       capacity,
		OrganizerID:    organizerID,
		AvailableSeats: capacity,
		CreatedAt:      createdAt,
	}
}

// EventFilter narrows the public event listing. Zero values are no-ops:
// an empty Location applies no location predicate, a nil Date applies no
// date predicate.
type EventFilter struct {
	// Location is matched as a case-insensitive substring.
	Location string
	// Date is matched on the calendar date component only.
	Date *time.Time
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListWithAvailability returns all events matching the filter ordered by
	// date ascending, with AvailableSeats set to the derived value
	// capacity - count(bookings). Events with no bookings are included.
	ListWithAvailability(ctx context.Context, filter EventFilter) ([]*Event, error)
	// ListByOrganizerID returns the organizer's events, date descending, with
	// stored columns only (no availability derivation).
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	// GetOwned fetches an event scoped by both id and organizer in one query.
	// It returns ErrForbidden whether the event is missing or owned by
	// someone else.
	GetOwned(ctx context.Context, id, organizerID string) (*Event, error)
	// Delete removes the event when the caller owns it, or unconditionally
	// when admin is true. ErrNotFound covers both the missing and the
	// not-owned case.
	Delete(ctx context.Context, id, callerID string, admin bool) error
}

// CreateEventInput carries the fields accepted for event creation. ImageURL
// is resolved by the service before the row is written.
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Price       float64
	Mode        string
	MeetingLink string
	Capacity    int
	ImageURL    string
}

// AnnouncementResult reports the outcome of an attendee announcement.
type AnnouncementResult struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
}

// EventService defines the business logic for events.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput, identity Identity) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
	DeleteEvent(ctx context.Context, id string, identity Identity) error
	GetAttendeeReport(ctx context.Context, eventID, organizerID string, params PaginationParams) (*AttendeeReport, error)
	AnnounceToAttendees(ctx context.Context, eventID, organizerID, subject, message string) (*AnnouncementResult, error)
}
