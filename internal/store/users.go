package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concertline/internal/logging"
	"concertline/internal/models"
	"concertline/internal/validate"
)

// CreateUser inserts a bare account, used for staff accounts and seeding.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, isStaff bool) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash, IsStaff: isStaff}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, is_staff) VALUES ($1, $2, $3) RETURNING id, created_at`,
		username, passwordHash, isStaff,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, validate.FieldErrors{"username": msgUsernameTaken}
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

const (
	msgUsernameTaken = "a user with that username already exists"
	msgEmailTaken    = "a fan with this email already exists"
)

// RegisterFan creates the account and its fan profile in one transaction, so
// either both exist afterwards or neither does.
func (s *Store) RegisterFan(ctx context.Context, reg *models.Registration, passwordHash string) (*models.User, *models.Fan, error) {
	user := &models.User{Username: reg.Username, PasswordHash: passwordHash}
	fan := &models.Fan{FullName: reg.FullName, Email: reg.Email, Birthdate: reg.Birthdate}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
			user.Username, user.PasswordHash,
		).Scan(&user.ID, &user.CreatedAt); err != nil {
			return err
		}

		cityID, err := resolveCity(ctx, tx, reg.City)
		if err != nil {
			return err
		}
		fan.CityID = cityID
		fan.UserID = &user.ID

		return tx.QueryRowContext(ctx, `
			INSERT INTO fans (user_id, full_name, email, city_id, birthdate)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, fan.UserID, fan.FullName, fan.Email, fan.CityID, fan.Birthdate).Scan(&fan.ID)
	})
	if isUniqueViolation(err) {
		return nil, nil, s.classifyRegistrationConflict(ctx, reg)
	}
	if err != nil {
		return nil, nil, err
	}
	return user, fan, nil
}

// classifyRegistrationConflict works out whether the username or the email
// collided after the transaction was rolled back.
func (s *Store) classifyRegistrationConflict(ctx context.Context, reg *models.Registration) error {
	var usernameTaken, emailTaken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE username = $1),
			EXISTS (SELECT 1 FROM fans WHERE LOWER(email) = LOWER($2))
	`, reg.Username, reg.Email).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return fmt.Errorf("reload registration conflicts: %w", err)
	}

	fe := validate.FieldErrors{}
	if usernameTaken {
		fe.Add("username", msgUsernameTaken)
	}
	if emailTaken {
		fe.Add("email", msgEmailTaken)
	}
	if len(fe) == 0 {
		fe.Add(validate.NonFieldKey, "registration conflicted with another sign-up; try again")
	}
	logging.FromContext(ctx).Warn().Str("conflict", fe.Error()).Msg("registration rejected by unique constraint")
	return fe
}

// UserByUsername loads an account for sign-in.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_staff, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByID loads an account.
func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_staff, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
