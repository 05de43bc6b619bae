package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"concertline/internal/models"
	"concertline/internal/validate"
)

const tourSelect = `
	SELECT t.id, t.artist_id, t.name, t.start_date, t.end_date, t.status,
	       t.total_income::float8, a.name
	FROM tours t
	INNER JOIN artists a ON a.id = t.artist_id
`

func scanTour(row interface{ Scan(...any) error }) (*models.Tour, error) {
	var (
		t          models.Tour
		start, end sql.Null[models.Date]
		income     sql.Null[float64]
	)
	if err := row.Scan(&t.ID, &t.ArtistID, &t.Name, &start, &end, &t.Status, &income, &t.ArtistName); err != nil {
		return nil, err
	}
	t.StartDate = nullPtr(start)
	t.EndDate = nullPtr(end)
	t.TotalIncome = nullPtr(income)
	return &t, nil
}

func tourWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return validate.FieldErrors{"artist": "select a valid artist"}
	}
	return err
}

// CreateTour inserts a tour.
func (s *Store) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	query := `
		INSERT INTO tours (artist_id, name, start_date, end_date, status, total_income)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		tour.ArtistID, tour.Name, tour.StartDate, tour.EndDate, string(tour.Status), tour.TotalIncome,
	).Scan(&tour.ID)
	if err != nil {
		return nil, tourWriteError(err)
	}
	return tour, nil
}

// UpdateTour overwrites a tour's editable columns.
func (s *Store) UpdateTour(ctx context.Context, id int64, tour *models.Tour) (*models.Tour, error) {
	query := `
		UPDATE tours
		SET artist_id = $1, name = $2, start_date = $3, end_date = $4,
		    status = $5, total_income = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(ctx, query,
		tour.ArtistID, tour.Name, tour.StartDate, tour.EndDate, string(tour.Status), tour.TotalIncome, id,
	)
	if err != nil {
		return nil, tourWriteError(err)
	}
	if err := affectedOne(result, ErrTourNotFound); err != nil {
		return nil, err
	}
	tour.ID = id
	return tour, nil
}

// GetTour loads a tour with its artist name.
func (s *Store) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	tour, err := scanTour(s.db.QueryRowContext(ctx, tourSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTourNotFound
	}
	if err != nil {
		return nil, err
	}
	return tour, nil
}

// ListTours searches artist and tour name and filters by exact status.
// Results are ordered by artist name then start date, undated tours last.
func (s *Store) ListTours(ctx context.Context, filter models.TourFilter) ([]*models.Tour, error) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		where = append(where, fmt.Sprintf("(a.name ILIKE $%d OR t.name ILIKE $%d)", len(args), len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}

	query := tourSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a.name, t.start_date NULLS LAST, t.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tours []*models.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	return tours, rows.Err()
}

// DeleteTour removes a tour. Its concerts stay and lose the tour reference.
func (s *Store) DeleteTour(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tour: %w", err)
	}
	return affectedOne(result, ErrTourNotFound)
}
