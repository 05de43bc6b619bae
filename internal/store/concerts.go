package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"concertline/internal/models"
	"concertline/internal/validate"
)

const concertSelect = `
	SELECT
		c.id, c.artist_id, c.venue_id, c.tour_id, c.start_datetime, c.status,
		c.total_income::float8, c.img,
		a.name AS artist_name, v.name AS venue_name,
		ci.name AS city_name, ci.country AS city_country,
		COALESCE(t.name, '') AS tour_name
	FROM concerts c
	INNER JOIN artists a ON a.id = c.artist_id
	INNER JOIN venues v ON v.id = c.venue_id
	INNER JOIN cities ci ON ci.id = v.city_id
	LEFT JOIN tours t ON t.id = c.tour_id
`

func scanConcert(row interface{ Scan(...any) error }) (*models.ConcertWithDetails, error) {
	var (
		c      models.ConcertWithDetails
		tourID sql.Null[int64]
		income sql.Null[float64]
	)
	err := row.Scan(
		&c.ID, &c.ArtistID, &c.VenueID, &tourID, &c.StartDateTime, &c.Status,
		&income, &c.Img,
		&c.ArtistName, &c.VenueName, &c.CityName, &c.CityCountry, &c.TourName,
	)
	if err != nil {
		return nil, err
	}
	c.TourID = nullPtr(tourID)
	c.TotalIncome = nullPtr(income)
	return &c, nil
}

func scanConcerts(rows *sql.Rows) ([]*models.ConcertWithDetails, error) {
	defer rows.Close()

	var concerts []*models.ConcertWithDetails
	for rows.Next() {
		c, err := scanConcert(rows)
		if err != nil {
			return nil, err
		}
		concerts = append(concerts, c)
	}
	return concerts, rows.Err()
}

// concertWriteError names the missing reference behind a foreign key failure.
func (s *Store) concertWriteError(ctx context.Context, concert *models.Concert, err error) error {
	if !isForeignKeyViolation(err) {
		return err
	}
	fe := validate.FieldErrors{}
	var exists bool
	if qerr := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM artists WHERE id = $1)`, concert.ArtistID).Scan(&exists); qerr == nil && !exists {
		fe.Add("artist", "select a valid artist")
	}
	if qerr := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`, concert.VenueID).Scan(&exists); qerr == nil && !exists {
		fe.Add("venue", "select a valid venue")
	}
	if concert.TourID != nil {
		if qerr := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tours WHERE id = $1)`, *concert.TourID).Scan(&exists); qerr == nil && !exists {
			fe.Add("tour", "select a valid tour")
		}
	}
	if len(fe) == 0 {
		fe.Add(validate.NonFieldKey, "a referenced record no longer exists")
	}
	return fe
}

// CreateConcert inserts a concert.
func (s *Store) CreateConcert(ctx context.Context, concert *models.Concert) (*models.Concert, error) {
	query := `
		INSERT INTO concerts (artist_id, venue_id, tour_id, start_datetime, status, total_income, img)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		concert.ArtistID, concert.VenueID, concert.TourID, concert.StartDateTime,
		string(concert.Status), concert.TotalIncome, concert.Img,
	).Scan(&concert.ID)
	if err != nil {
		return nil, s.concertWriteError(ctx, concert, err)
	}
	return concert, nil
}

// UpdateConcert overwrites a concert's editable columns.
func (s *Store) UpdateConcert(ctx context.Context, id int64, concert *models.Concert) (*models.Concert, error) {
	query := `
		UPDATE concerts
		SET artist_id = $1, venue_id = $2, tour_id = $3, start_datetime = $4,
		    status = $5, total_income = $6, img = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		concert.ArtistID, concert.VenueID, concert.TourID, concert.StartDateTime,
		string(concert.Status), concert.TotalIncome, concert.Img, id,
	)
	if err != nil {
		return nil, s.concertWriteError(ctx, concert, err)
	}
	if err := affectedOne(result, ErrConcertNotFound); err != nil {
		return nil, err
	}
	concert.ID = id
	return concert, nil
}

// GetConcert retrieves a single concert with artist, venue, city and tour names.
func (s *Store) GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error) {
	c, err := scanConcert(s.db.QueryRowContext(ctx, concertSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConcertNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListConcerts searches artist, venue, city and country and filters by exact
// status. Without a text query results are ordered by artist name; with one,
// by start time.
func (s *Store) ListConcerts(ctx context.Context, filter models.ConcertFilter) ([]*models.ConcertWithDetails, error) {
	var (
		where []string
		args  []any
	)
	q := strings.TrimSpace(filter.Query)
	if q != "" {
		args = append(args, likePattern(q))
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(a.name ILIKE $%d OR v.name ILIKE $%d OR ci.name ILIKE $%d OR ci.country ILIKE $%d)", n, n, n, n))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("c.status = $%d", len(args)))
	}

	query := concertSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if q != "" {
		query += ` ORDER BY c.start_datetime, c.id`
	} else {
		query += ` ORDER BY a.name, c.start_datetime, c.id`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanConcerts(rows)
}

// ListConcertsByTour returns a tour's concerts in date order.
func (s *Store) ListConcertsByTour(ctx context.Context, tourID int64) ([]*models.ConcertWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, concertSelect+` WHERE c.tour_id = $1 ORDER BY c.start_datetime, c.id`, tourID)
	if err != nil {
		return nil, err
	}
	return scanConcerts(rows)
}

// ListUpcomingConcerts returns up to limit scheduled concerts starting after now.
func (s *Store) ListUpcomingConcerts(ctx context.Context, now time.Time, limit int) ([]*models.ConcertWithDetails, error) {
	query := concertSelect + `
		WHERE c.status = 'scheduled' AND c.start_datetime >= $1
		ORDER BY c.start_datetime, c.id
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	return scanConcerts(rows)
}

// DeleteConcert removes the concert along with its setlist, attendances and interests.
func (s *Store) DeleteConcert(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM concerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete concert: %w", err)
	}
	return affectedOne(result, ErrConcertNotFound)
}
