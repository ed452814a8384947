package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "date", "location", "price", "image_url", "mode", "meeting_link", "capacity", "organizer_id", "available_seats", "created_at"}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Title:          "Go Meetup",
				Description:    "monthly meetup",
				Date:           time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
				Location:       "Berlin",
				Price:          15,
				ImageURL:       "http://localhost:8080/images/x.png",
				Mode:           domain.ModePhysical,
				Capacity:       50,
				OrganizerID:    "user-1",
				AvailableSeats: 50,
				CreatedAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, date, location, price, image_url, mode, meeting_link, capacity, organizer_id, available_seats, created_at\)`).
					WithArgs("Go Meetup", "monthly meetup", time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), "Berlin", 15.0,
						"http://localhost:8080/images/x.png", domain.ModePhysical, "", 50, "user-1", 50, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID:  "ev-1",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				Title:       "Broken",
				Date:        time.Now(),
				Capacity:    100,
				OrganizerID: "user-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success returns stored available_seats untouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// Stored available_seats (50) is returned even though the event has
		// bookings; only the listing derives the live value.
		mock.ExpectQuery(`SELECT id, title, description, date, location, price, image_url, mode, meeting_link, capacity, organizer_id, available_seats, created_at\s+FROM events\s+WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "Go Meetup", "desc", date, "Berlin", 15.0, "img", domain.ModePhysical, nil, 50, "user-1", 50, created))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.Equal(t, 50, e.Capacity)
		require.Equal(t, 50, e.AvailableSeats)
		require.Equal(t, "", e.MeetingLink)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events\s+WHERE id = \$1`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_ListWithAvailability(t *testing.T) {
	ctx := context.Background()
	d1 := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	listQuery := `SELECT e\.id, e\.title, .* e\.capacity - COUNT\(b\.id\) AS available_seats.*FROM events e\s+LEFT JOIN bookings b ON b\.event_id = e\.id`

	t.Run("no filters pass blank args and keep derived seats", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(listQuery).
			WithArgs("", nil).
			WillReturnRows(sqlmock.NewRows(eventCols).
				// 3 of 50 seats booked
				AddRow("ev-1", "A", nil, d1, "Berlin", 10.0, nil, domain.ModePhysical, nil, 50, "u1", 47, created).
				// zero bookings: left join keeps the row, availability == capacity
				AddRow("ev-2", "B", nil, d2, "Hamburg", 0.0, nil, domain.ModeVirtual, "https://meet.example", 50, "u1", 50, created))

		repo := NewEventRepository(db)
		events, err := repo.ListWithAvailability(ctx, domain.EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, 47, events[0].AvailableSeats)
		require.Equal(t, 50, events[1].AvailableSeats)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("location and date filters are bound as arguments", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(listQuery).
			WithArgs("berl", day).
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "A", nil, d1, "Berlin", 10.0, nil, domain.ModePhysical, nil, 50, "u1", 47, created))

		repo := NewEventRepository(db)
		events, err := repo.ListWithAvailability(ctx, domain.EventFilter{Location: "berl", Date: &day})
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overbooked event surfaces a negative value", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(listQuery).
			WithArgs("", nil).
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "Oversold", nil, d1, "Berlin", 10.0, nil, domain.ModePhysical, nil, 50, "u1", -3, created))

		repo := NewEventRepository(db)
		events, err := repo.ListWithAvailability(ctx, domain.EventFilter{})
		require.NoError(t, err)
		require.Equal(t, -3, events[0].AvailableSeats)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(listQuery).WillReturnError(sql.ErrConnDone)

		repo := NewEventRepository(db)
		_, err = repo.ListWithAvailability(ctx, domain.EventFilter{})
		require.Error(t, err)
	})
}

func TestEventRepository_ListByOrganizerID(t *testing.T) {
	ctx := context.Background()
	d := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM events\s+WHERE organizer_id = \$1\s+ORDER BY date DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow("ev-1", "A", nil, d, "Berlin", 10.0, nil, domain.ModePhysical, nil, 50, "u1", 50, created))

	repo := NewEventRepository(db)
	events, err := repo.ListByOrganizerID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "u1", events[0].OrganizerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetOwned(t *testing.T) {
	ctx := context.Background()
	d := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("owner gets the event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events\s+WHERE id = \$1 AND organizer_id = \$2`).
			WithArgs("ev-1", "u1").
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "A", nil, d, "Berlin", 10.0, nil, domain.ModePhysical, nil, 50, "u1", 50, created))

		repo := NewEventRepository(db)
		e, err := repo.GetOwned(ctx, "ev-1", "u1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
	})

	// A missing event and someone else's event both come back as
	// ErrForbidden; callers cannot tell the cases apart.
	t.Run("missing or not owned is forbidden", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events\s+WHERE id = \$1 AND organizer_id = \$2`).
			WithArgs("ev-1", "u2").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetOwned(ctx, "ev-1", "u2")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		caller  string
		admin   bool
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "owner delete succeeds",
			id:     "ev-1",
			caller: "u1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1 AND organizer_id = \$2`).
					WithArgs("ev-1", "u1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "non-owner delete affects nothing and collapses to not found",
			id:     "ev-1",
			caller: "u2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1 AND organizer_id = \$2`).
					WithArgs("ev-1", "u2").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "admin delete ignores ownership",
			id:     "ev-1",
			caller: "admin-1",
			admin:  true,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1$`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "admin delete of missing event is not found",
			id:     "ev-missing",
			caller: "admin-1",
			admin:  true,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1$`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id, tt.caller, tt.admin)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
