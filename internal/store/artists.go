package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"concertline/internal/models"
)

const artistColumns = `a.id, a.name, a.country, a.debut_year, a.genre`

func scanArtist(row interface{ Scan(...any) error }) (*models.Artist, error) {
	var (
		a         models.Artist
		debutYear sql.Null[int]
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Country, &debutYear, &a.Genre); err != nil {
		return nil, err
	}
	a.DebutYear = nullPtr(debutYear)
	return &a, nil
}

// CreateArtist inserts an artist and fills in its id.
func (s *Store) CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	query := `
		INSERT INTO artists (name, country, debut_year, genre)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := s.db.QueryRowContext(ctx, query,
		artist.Name, artist.Country, artist.DebutYear, artist.Genre,
	).Scan(&artist.ID); err != nil {
		return nil, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

// UpdateArtist overwrites every editable column of the artist.
func (s *Store) UpdateArtist(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error) {
	query := `
		UPDATE artists
		SET name = $1, country = $2, debut_year = $3, genre = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		artist.Name, artist.Country, artist.DebutYear, artist.Genre, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update artist: %w", err)
	}
	if err := affectedOne(result, ErrArtistNotFound); err != nil {
		return nil, err
	}
	artist.ID = id
	return artist, nil
}

// GetArtist loads one artist.
func (s *Store) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists a WHERE a.id = $1`, id)
	artist, err := scanArtist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, err
	}
	return artist, nil
}

// FindArtistByName matches an artist name case-insensitively. The lowest id
// wins when several artists share a name.
func (s *Store) FindArtistByName(ctx context.Context, name string) (*models.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists a WHERE LOWER(a.name) = LOWER($1) ORDER BY a.id LIMIT 1`
	artist, err := scanArtist(s.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtistNotFound
	}
	if err != nil {
		return nil, err
	}
	return artist, nil
}

// ListArtists returns artists ordered by name, optionally searching name,
// country and genre.
func (s *Store) ListArtists(ctx context.Context, filter models.ArtistFilter) ([]*models.Artist, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT ` + artistColumns + ` FROM artists a`)
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		query.WriteString(` WHERE a.name ILIKE $1 OR a.country ILIKE $1 OR a.genre ILIKE $1`)
	}
	query.WriteString(` ORDER BY a.name, a.id`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// DeleteArtist removes the artist. Its tours and concerts go with it.
func (s *Store) DeleteArtist(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	return affectedOne(result, ErrArtistNotFound)
}
