package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is wrapped by every entity-specific not-found error.
	ErrNotFound = errors.New("not found")

	ErrArtistNotFound  = fmt.Errorf("artist %w", ErrNotFound)
	ErrCityNotFound    = fmt.Errorf("city %w", ErrNotFound)
	ErrVenueNotFound   = fmt.Errorf("venue %w", ErrNotFound)
	ErrTourNotFound    = fmt.Errorf("tour %w", ErrNotFound)
	ErrConcertNotFound = fmt.Errorf("concert %w", ErrNotFound)
	ErrSongNotFound    = fmt.Errorf("song %w", ErrNotFound)
	ErrEntryNotFound   = fmt.Errorf("setlist entry %w", ErrNotFound)
	ErrFanNotFound     = fmt.Errorf("fan %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	// ErrInUse signals a delete blocked by rows that still reference the target.
	ErrInUse = errors.New("still referenced")
	// ErrVenueInUse is returned when deleting a venue that has concerts.
	ErrVenueInUse = fmt.Errorf("venue has concerts: %w", ErrInUse)
	// ErrConcertNotCompleted is returned when rating a concert that has not happened.
	ErrConcertNotCompleted = errors.New("concert is not completed")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// likePattern wraps q for a substring ILIKE match, escaping wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

func nullPtr[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

// affectedOne maps a zero-row result to notFound.
func affectedOne(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// countRows runs a COUNT(*) style query.
func (s *Store) countRows(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
