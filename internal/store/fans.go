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

const fanSelect = `
	SELECT f.id, f.user_id, f.full_name, f.email, f.city_id, f.birthdate, COALESCE(c.name, '')
	FROM fans f
	LEFT JOIN cities c ON c.id = f.city_id
`

func scanFan(row interface{ Scan(...any) error }) (*models.Fan, error) {
	var (
		f         models.Fan
		userID    sql.Null[int64]
		cityID    sql.Null[int64]
		birthdate sql.Null[models.Date]
	)
	if err := row.Scan(&f.ID, &userID, &f.FullName, &f.Email, &cityID, &birthdate, &f.CityName); err != nil {
		return nil, err
	}
	f.UserID = nullPtr(userID)
	f.CityID = nullPtr(cityID)
	f.Birthdate = nullPtr(birthdate)
	return &f, nil
}

// GetFan loads one fan profile.
func (s *Store) GetFan(ctx context.Context, id int64) (*models.Fan, error) {
	fan, err := scanFan(s.db.QueryRowContext(ctx, fanSelect+` WHERE f.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFanNotFound
	}
	if err != nil {
		return nil, err
	}
	return fan, nil
}

// FanByUserID returns the fan profile bound to an account.
func (s *Store) FanByUserID(ctx context.Context, userID int64) (*models.Fan, error) {
	fan, err := scanFan(s.db.QueryRowContext(ctx, fanSelect+` WHERE f.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFanNotFound
	}
	if err != nil {
		return nil, err
	}
	return fan, nil
}

// ListFans returns fans ordered by name, optionally searching full name and city.
func (s *Store) ListFans(ctx context.Context, filter models.FanFilter) ([]*models.Fan, error) {
	query := fanSelect
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		query += ` WHERE f.full_name ILIKE $1 OR c.name ILIKE $1`
		args = append(args, likePattern(q))
	}
	query += ` ORDER BY f.full_name, f.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fans []*models.Fan
	for rows.Next() {
		fan, err := scanFan(rows)
		if err != nil {
			return nil, err
		}
		fans = append(fans, fan)
	}
	return fans, rows.Err()
}

// fanConstraintErrors turns constraint violations from a profile write into
// field errors, or returns nil. Email is the only unique column such writes
// touch.
func fanConstraintErrors(err error) validate.FieldErrors {
	switch {
	case isUniqueViolation(err):
		return validate.FieldErrors{"email": msgEmailTaken}
	case isForeignKeyViolation(err):
		return validate.FieldErrors{"city": "select a valid city"}
	default:
		return nil
	}
}

// CreateFan inserts a profile that is not bound to any account.
func (s *Store) CreateFan(ctx context.Context, fan *models.Fan) (*models.Fan, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO fans (full_name, email, city_id, birthdate)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, fan.FullName, fan.Email, fan.CityID, fan.Birthdate).Scan(&fan.ID)
	if err != nil {
		if fe := fanConstraintErrors(err); fe != nil {
			return nil, fe
		}
		return nil, fmt.Errorf("insert fan: %w", err)
	}
	fan.UserID = nil
	return fan, nil
}

// UpdateFan rewrites a profile's details. The bound account never changes.
func (s *Store) UpdateFan(ctx context.Context, id int64, fan *models.Fan) (*models.Fan, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE fans
		SET full_name = $2, email = $3, city_id = $4, birthdate = $5
		WHERE id = $1
	`, id, fan.FullName, fan.Email, fan.CityID, fan.Birthdate)
	if err != nil {
		if fe := fanConstraintErrors(err); fe != nil {
			return nil, fe
		}
		return nil, fmt.Errorf("update fan: %w", err)
	}
	if err := affectedOne(result, ErrFanNotFound); err != nil {
		return nil, err
	}
	return s.GetFan(ctx, id)
}
