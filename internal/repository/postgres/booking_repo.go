package postgres

import (
	"context"
	"database/sql"

	"eventbooking/internal/domain"
)

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func (r *bookingRepository) ListAttendeesByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendee, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM bookings WHERE event_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.name, u.email, b.booking_date, b.status
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.event_id = $1
		ORDER BY b.booking_date ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.Name, &a.Email, &a.BookingDate, &a.Status); err != nil {
			return nil, 0, err
		}
		attendees = append(attendees, a)
	}
	return attendees, total, rows.Err()
}

func (r *bookingRepository) ListEmailsByEventID(ctx context.Context, eventID string) ([]string, error) {
	query := `
		SELECT DISTINCT u.email
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		WHERE b.event_id = $1
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
