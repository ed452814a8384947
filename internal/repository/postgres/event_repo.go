package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbooking/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, price, image_url, mode, meeting_link, capacity, organizer_id, available_seats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Location, e.Price, e.ImageURL,
		e.Mode, e.MeetingLink, e.Capacity, e.OrganizerID, e.AvailableSeats, e.CreatedAt,
	).Scan(&e.ID)
}

const eventColumns = `id, title, description, date, location, price, image_url, mode, meeting_link, capacity, organizer_id, available_seats, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, locNull, imgNull, linkNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &descNull, &e.Date, &locNull, &e.Price, &imgNull,
		&e.Mode, &linkNull, &e.Capacity, &e.OrganizerID, &e.AvailableSeats, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = descNull.String
	e.Location = locNull.String
	e.ImageURL = imgNull.String
	e.MeetingLink = linkNull.String
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListWithAvailability derives available_seats as capacity minus the booking
// count. The LEFT JOIN keeps events with zero bookings in the result, and the
// difference is not clamped: overbooked events surface a negative value.
// Blank filters are neutralized inside the predicate rather than by building
// the query string dynamically.
func (r *eventRepository) ListWithAvailability(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.date, e.location, e.price, e.image_url,
		       e.mode, e.meeting_link, e.capacity, e.organizer_id,
		       e.capacity - COUNT(b.id) AS available_seats, e.created_at
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE ($1 = '' OR e.location ILIKE '%' || $1 || '%')
		  AND ($2::date IS NULL OR e.date::date = $2::date)
		GROUP BY e.id
		ORDER BY e.date ASC
	`
	var date sql.NullTime
	if filter.Date != nil {
		date = sql.NullTime{Time: *filter.Date, Valid: true}
	}
	rows, err := r.DB.QueryContext(ctx, query, filter.Location, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY date DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetOwned scopes the lookup by event id and organizer id in a single query,
// so a missing event and a not-owned event are indistinguishable to the
// caller. Both come back as ErrForbidden.
func (r *eventRepository) GetOwned(ctx context.Context, id, organizerID string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND organizer_id = $2
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id, organizerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return e, nil
}

// Delete removes the event. Non-admin deletes are scoped by organizer_id, so
// zero rows affected covers both "does not exist" and "not yours"; that
// collapsed case is reported as ErrNotFound.
func (r *eventRepository) Delete(ctx context.Context, id, callerID string, admin bool) error {
	var result sql.Result
	var err error
	if admin {
		result, err = r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	} else {
		result, err = r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND organizer_id = $2`, id, callerID)
	}
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
