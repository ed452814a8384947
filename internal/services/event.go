package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

// placeholderImageURL is stored when an event is created without a cover image.
const placeholderImageURL = "https://placehold.co/600x400?text=event"

type eventService struct {
	eventRepo            domain.EventRepository
	bookingRepo          domain.BookingRepository
	mailer               domain.Mailer
	renderer             domain.EmailTemplateRenderer
	requireOrganizerRole bool
	contextTimeout       time.Duration
}

// NewEventService creates an EventService. requireOrganizerRole gates event
// creation on the organizer/admin role; the upstream deployment runs with it
// disabled, so any authenticated identity may create events by default.
func NewEventService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	requireOrganizerRole bool,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:            eventRepo,
		bookingRepo:          bookingRepo,
		mailer:               mailer,
		renderer:             renderer,
		requireOrganizerRole: requireOrganizerRole,
		contextTimeout:       timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput, identity domain.Identity) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if s.requireOrganizerRole && identity.Role != domain.RoleOrganizer && identity.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if in.Mode != "" && in.Mode != domain.ModePhysical && in.Mode != domain.ModeVirtual {
		return nil, fmt.Errorf("%w: mode must be %q or %q", domain.ErrInvalidInput, domain.ModePhysical, domain.ModeVirtual)
	}

	event := domain.NewEvent(in.Title, in.Description, in.Date, in.Location, in.Price,
		in.Mode, in.MeetingLink, in.Capacity, identity.UserID, time.Now())
	event.ImageURL = in.ImageURL
	if event.ImageURL == "" {
		event.ImageURL = placeholderImageURL
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListWithAvailability(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// GetEvent returns the stored row, including the stale available_seats
// column. Availability is only derived on the listing path.
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string, identity domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.eventRepo.Delete(ctx, id, identity.UserID, identity.Role == domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// GetAttendeeReport verifies ownership and the event's existence in a single
// owner-scoped lookup, so unauthorized callers get ErrForbidden either way.
// TotalRevenue is attendee count times the event price, regardless of the
// requested page.
func (s *eventService) GetAttendeeReport(ctx context.Context, eventID, organizerID string, params domain.PaginationParams) (*domain.AttendeeReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetOwned(ctx, eventID, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get owned event: %w", err)
	}

	attendees, total, err := s.bookingRepo.ListAttendeesByEventID(ctx, eventID, params)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	if attendees == nil {
		attendees = []*domain.Attendee{}
	}

	return &domain.AttendeeReport{
		EventID:        eventID,
		Attendees:      attendees,
		TotalAttendees: total,
		TotalRevenue:   float64(total) * event.Price,
	}, nil
}

func (s *eventService) AnnounceToAttendees(ctx context.Context, eventID, organizerID, subject, message string) (*domain.AnnouncementResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetOwned(ctx, eventID, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get owned event: %w", err)
	}

	emails, err := s.bookingRepo.ListEmailsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendee emails: %w", err)
	}

	data := struct {
		EventTitle string
		EventDate  string
		Subject    string
		Message    string
	}{
		EventTitle: event.Title,
		EventDate:  event.Date.Format("2006-01-02"),
		Subject:    subject,
		Message:    message,
	}
	renderedSubject, html, text, err := s.renderer.Render("announcement", data)
	if err != nil {
		return nil, fmt.Errorf("render announcement: %w", err)
	}

	result := &domain.AnnouncementResult{Failed: []string{}}
	for _, to := range emails {
		if err := s.mailer.Send(to, renderedSubject, html, text); err != nil {
			result.Failed = append(result.Failed, to)
			continue
		}
		result.Sent++
	}
	return result, nil
}
