package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concertline/internal/models"
	"concertline/internal/validate"
)

const msgDuplicateVenue = "a venue with this name already exists in this city"

const venueSelect = `
	SELECT v.id, v.name, v.address, v.capacity, v.city_id, c.name, c.country
	FROM venues v
	INNER JOIN cities c ON c.id = v.city_id
`

func scanVenue(row interface{ Scan(...any) error }) (*models.Venue, error) {
	var (
		v        models.Venue
		capacity sql.Null[int]
	)
	if err := row.Scan(&v.ID, &v.Name, &v.Address, &capacity, &v.CityID, &v.CityName, &v.CityCountry); err != nil {
		return nil, err
	}
	v.Capacity = nullPtr(capacity)
	return &v, nil
}

// venueWriteError maps constraint violations on venues to form errors.
func venueWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return validate.FieldErrors{"name": msgDuplicateVenue}
	case isForeignKeyViolation(err):
		return validate.FieldErrors{"city": "select a valid city"}
	}
	return err
}

// CreateVenue inserts a venue. A duplicate (name, city) pair is reported as a
// name error.
func (s *Store) CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	query := `
		INSERT INTO venues (name, address, capacity, city_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		venue.Name, venue.Address, venue.Capacity, venue.CityID,
	).Scan(&venue.ID)
	if err != nil {
		return nil, venueWriteError(err)
	}
	return venue, nil
}

// UpdateVenue overwrites a venue's editable columns.
func (s *Store) UpdateVenue(ctx context.Context, id int64, venue *models.Venue) (*models.Venue, error) {
	query := `
		UPDATE venues
		SET name = $1, address = $2, capacity = $3, city_id = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		venue.Name, venue.Address, venue.Capacity, venue.CityID, id,
	)
	if err != nil {
		return nil, venueWriteError(err)
	}
	if err := affectedOne(result, ErrVenueNotFound); err != nil {
		return nil, err
	}
	venue.ID = id
	return venue, nil
}

// GetVenue retrieves a venue with its city.
func (s *Store) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	venue, err := scanVenue(s.db.QueryRowContext(ctx, venueSelect+` WHERE v.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	return venue, nil
}

// ListVenues returns all venues, optionally restricted to one city.
func (s *Store) ListVenues(ctx context.Context, cityID *int64) ([]*models.Venue, error) {
	query := venueSelect
	var args []any
	if cityID != nil {
		query += ` WHERE v.city_id = $1`
		args = append(args, *cityID)
	}
	query += ` ORDER BY v.name, c.name, v.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []*models.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

// DeleteVenue removes a venue. Venues with concerts cannot be deleted.
func (s *Store) DeleteVenue(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return ErrVenueInUse
	}
	if err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	return affectedOne(result, ErrVenueNotFound)
}
