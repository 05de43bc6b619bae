package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"concertline/internal/models"
)

const songSelect = `
	SELECT s.id, s.title, s.original_artist_id,
	       COALESCE(a.name, s.original_artist_name), s.release_year
	FROM songs s
	LEFT JOIN artists a ON a.id = s.original_artist_id
`

func scanSong(row interface{ Scan(...any) error }) (*models.Song, error) {
	var (
		song     models.Song
		artistID sql.Null[int64]
		year     sql.Null[int]
	)
	if err := row.Scan(&song.ID, &song.Title, &artistID, &song.OriginalArtistName, &year); err != nil {
		return nil, err
	}
	song.OriginalArtistID = nullPtr(artistID)
	song.ReleaseYear = nullPtr(year)
	return &song, nil
}

// CreateSong inserts a song. When OriginalArtistID is set the free-text name
// is stored empty and read back from the artist.
func (s *Store) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	freeText := song.OriginalArtistName
	if song.OriginalArtistID != nil {
		freeText = ""
	}
	query := `
		INSERT INTO songs (title, original_artist_id, original_artist_name, release_year)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := s.db.QueryRowContext(ctx, query,
		song.Title, song.OriginalArtistID, freeText, song.ReleaseYear,
	).Scan(&song.ID); err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

// GetSong loads one song.
func (s *Store) GetSong(ctx context.Context, id int64) (*models.Song, error) {
	song, err := scanSong(s.db.QueryRowContext(ctx, songSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSongNotFound
	}
	if err != nil {
		return nil, err
	}
	return song, nil
}

// ListSongs returns songs ordered by title, optionally matching title.
func (s *Store) ListSongs(ctx context.Context, query string) ([]*models.Song, error) {
	sqlQuery := songSelect
	var args []any
	if q := strings.TrimSpace(query); q != "" {
		sqlQuery += ` WHERE s.title ILIKE $1`
		args = append(args, likePattern(q))
	}
	sqlQuery += ` ORDER BY s.title, s.id`

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
