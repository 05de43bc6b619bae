package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"concertline/internal/models"
	"concertline/internal/validate"
)

var concertColumns = []string{
	"id", "artist_id", "venue_id", "tour_id", "start_datetime", "status", "total_income", "img",
	"artist_name", "venue_name", "city_name", "city_country", "tour_name",
}

func TestListConcertsOrdering(t *testing.T) {
	tests := []struct {
		name      string
		filter    models.ConcertFilter
		wantWhere string
		wantOrder string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filter orders by artist",
			wantOrder: "ORDER BY a.name, c.start_datetime, c.id",
		},
		{
			name:      "text query orders by start time",
			filter:    models.ConcertFilter{Query: "madrid"},
			wantWhere: "WHERE (a.name ILIKE $1 OR v.name ILIKE $1 OR ci.name ILIKE $1 OR ci.country ILIKE $1)",
			wantOrder: "ORDER BY c.start_datetime, c.id",
			wantArgs:  []driver.Value{"%madrid%"},
		},
		{
			name:      "status only keeps artist ordering",
			filter:    models.ConcertFilter{Status: models.ConcertCompleted},
			wantWhere: "WHERE c.status = $1",
			wantOrder: "ORDER BY a.name, c.start_datetime, c.id",
			wantArgs:  []driver.Value{"completed"},
		},
		{
			name:      "query and status combine",
			filter:    models.ConcertFilter{Query: "spain", Status: models.ConcertScheduled},
			wantWhere: "ci.country ILIKE $1) AND c.status = $2",
			wantOrder: "ORDER BY c.start_datetime, c.id",
			wantArgs:  []driver.Value{"%spain%", "scheduled"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, mock := newMock(t)

			pattern := "LEFT JOIN tours t ON t.id = c.tour_id\\s+"
			if tc.wantWhere != "" {
				pattern += ".*" + regexp.QuoteMeta(tc.wantWhere) + ".*"
			}
			pattern += regexp.QuoteMeta(tc.wantOrder) + "$"

			start := time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)
			expect := mock.ExpectQuery(pattern)
			if len(tc.wantArgs) > 0 {
				expect = expect.WithArgs(tc.wantArgs...)
			}
			expect.WillReturnRows(sqlmock.NewRows(concertColumns).
				AddRow(int64(1), int64(2), int64(3), nil, start, "scheduled", nil, "",
					"Rosalía", "WiZink Center", "Madrid", "Spain", ""))

			concerts, err := s.ListConcerts(context.Background(), tc.filter)
			if err != nil {
				t.Fatalf("ListConcerts: %v", err)
			}
			if len(concerts) != 1 || concerts[0].ArtistName != "Rosalía" || concerts[0].TourID != nil {
				t.Fatalf("unexpected concerts %#v", concerts)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestGetConcertNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("WHERE c.id = \\$1").
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows(concertColumns))

	if _, err := s.GetConcert(context.Background(), 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
}

func TestCreateConcertNamesMissingVenue(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO concerts").
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	mock.ExpectQuery("FROM artists WHERE id").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM venues WHERE id").WithArgs(int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := s.CreateConcert(context.Background(), &models.Concert{
		ArtistID: 1, VenueID: 50, StartDateTime: time.Now(), Status: models.ConcertScheduled,
	})
	fe, ok := validate.AsFieldErrors(err)
	if !ok || !fe.Has("venue") || fe.Has("artist") {
		t.Fatalf("expected only a venue error, got %v", err)
	}
}

func TestCreateVenueDuplicateNameInCity(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO venues").
		WithArgs("Luna Park", "", nil, int64(1)).
		WillReturnError(uniqueViolation())

	_, err := s.CreateVenue(context.Background(), &models.Venue{Name: "Luna Park", CityID: 1})
	fe, ok := validate.AsFieldErrors(err)
	if !ok || fe["name"] != msgDuplicateVenue {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestDeleteVenueInUse(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("DELETE FROM venues").
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := s.DeleteVenue(context.Background(), 1)
	if !errors.Is(err, ErrVenueInUse) || !errors.Is(err, ErrInUse) {
		t.Fatalf("expected ErrVenueInUse, got %v", err)
	}
}

func TestFindArtistByNameIsCaseInsensitive(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(a.name) = LOWER($1) ORDER BY a.id LIMIT 1`)).
		WithArgs("soda stereo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "country", "debut_year", "genre"}).
			AddRow(int64(8), "Soda Stereo", "Argentina", 1982, "Rock"))

	artist, err := s.FindArtistByName(context.Background(), "  soda stereo ")
	if err != nil {
		t.Fatalf("FindArtistByName: %v", err)
	}
	if artist.ID != 8 || artist.DebutYear == nil || *artist.DebutYear != 1982 {
		t.Fatalf("unexpected artist %+v", artist)
	}
}

func TestListToursFilters(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE (a.name ILIKE $1 OR t.name ILIKE $1) AND t.status = $2 ORDER BY a.name, t.start_date NULLS LAST, t.id`)).
		WithArgs("%world%", "ongoing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "artist_id", "name", "start_date", "end_date", "status", "total_income", "artist_name"}).
			AddRow(int64(1), int64(2), "World Tour", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), nil, "ongoing", 1500.5, "Band"))

	tours, err := s.ListTours(context.Background(), models.TourFilter{Query: "world", Status: models.TourOngoing})
	if err != nil {
		t.Fatalf("ListTours: %v", err)
	}
	if len(tours) != 1 {
		t.Fatalf("expected one tour, got %d", len(tours))
	}
	tour := tours[0]
	if tour.StartDate == nil || tour.StartDate.String() != "2024-01-10" || tour.EndDate != nil {
		t.Fatalf("unexpected dates %+v", tour)
	}
	if tour.TotalIncome == nil || *tour.TotalIncome != 1500.5 {
		t.Fatalf("unexpected income %v", tour.TotalIncome)
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := likePattern(" 100%_rock "); got != `%100\%\_rock%` {
		t.Fatalf("unexpected pattern %q", got)
	}
}
