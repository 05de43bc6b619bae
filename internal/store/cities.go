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

// CreateCity inserts a city.
func (s *Store) CreateCity(ctx context.Context, city *models.City) (*models.City, error) {
	if err := s.db.QueryRowContext(ctx,
		`INSERT INTO cities (name, country) VALUES ($1, $2) RETURNING id`,
		city.Name, city.Country,
	).Scan(&city.ID); err != nil {
		return nil, fmt.Errorf("insert city: %w", err)
	}
	return city, nil
}

// GetCity loads one city.
func (s *Store) GetCity(ctx context.Context, id int64) (*models.City, error) {
	var c models.City
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, country FROM cities WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCities returns every city ordered by name.
func (s *Store) ListCities(ctx context.Context) ([]*models.City, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, country FROM cities ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Country); err != nil {
			return nil, err
		}
		cities = append(cities, &c)
	}
	return cities, rows.Err()
}

// resolveCity turns a registration's city choice into a city id, creating the
// city when a free-text name matches none.
func resolveCity(ctx context.Context, q queryer, choice models.CityChoice) (*int64, error) {
	var id int64
	switch c := choice.(type) {
	case nil:
		return nil, nil
	case models.CityRef:
		err := q.QueryRowContext(ctx, `SELECT id FROM cities WHERE id = $1`, c.ID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, validate.FieldErrors{"city": "select a valid city"}
		}
		if err != nil {
			return nil, fmt.Errorf("lookup city: %w", err)
		}
	case models.CityName:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, nil
		}
		err := q.QueryRowContext(ctx,
			`SELECT id FROM cities WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, name,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			err = q.QueryRowContext(ctx,
				`INSERT INTO cities (name, country) VALUES ($1, $2) RETURNING id`,
				name, strings.TrimSpace(c.Country),
			).Scan(&id)
		}
		if err != nil {
			return nil, fmt.Errorf("resolve city: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported city choice %T", choice)
	}
	return &id, nil
}
