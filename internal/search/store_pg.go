package search

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Store defines the persistence operations required by the search handler.
type Store interface {
	Search(ctx context.Context, query string, limit int) (Results, error)
}

// Results captures the different result buckets surfaced by the handler.
type Results struct {
	Artists  []ArtistResult
	Concerts []ConcertResult
	Tours    []TourResult
	Songs    []SongResult
}

// ArtistResult summarises an artist match.
type ArtistResult struct {
	ID           int64
	Name         string
	Country      string
	Genre        string
	ConcertCount int
	Href         string
}

// ConcertResult summarises a concert match.
type ConcertResult struct {
	ID      int64
	Artist  string
	Venue   string
	City    string
	StartAt time.Time
	Status  string
	Img     string
	Href    string
}

// TourResult summarises a tour match.
type TourResult struct {
	ID     int64
	Name   string
	Artist string
	Status string
	Href   string
}

// SongResult summarises a song match.
type SongResult struct {
	ID     int64
	Title  string
	Artist string
	Year   int
	Href   string
}

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// NewPGStore creates a Store backed by the supplied database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search performs a fan-out query across artists, concerts, tours and songs.
func (s *PGStore) Search(ctx context.Context, query string, limit int) (Results, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"

	artists, err := s.fetchArtists(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	concerts, err := s.fetchConcerts(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	tours, err := s.fetchTours(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	songs, err := s.fetchSongs(ctx, like, limit)
	if err != nil {
		return Results{}, err
	}

	return Results{
		Artists:  artists,
		Concerts: concerts,
		Tours:    tours,
		Songs:    songs,
	}, nil
}

func (s *PGStore) fetchArtists(ctx context.Context, like string, limit int) ([]ArtistResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.country, a.genre, COUNT(c.id) AS concert_count
		FROM artists a
		LEFT JOIN concerts c ON c.artist_id = a.id
		WHERE a.name ILIKE $1 OR a.genre ILIKE $1
		GROUP BY a.id, a.name, a.country, a.genre
		ORDER BY concert_count DESC, a.name ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()

	results := make([]ArtistResult, 0)
	for rows.Next() {
		var r ArtistResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Country, &r.Genre, &r.ConcertCount); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		r.Href = "/artists/" + strconv.FormatInt(r.ID, 10)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}

	return results, nil
}

func (s *PGStore) fetchConcerts(ctx context.Context, like string, limit int) ([]ConcertResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, a.name, v.name, ci.name, c.start_datetime, c.status, c.img
		FROM concerts c
		JOIN artists a ON a.id = c.artist_id
		JOIN venues v ON v.id = c.venue_id
		JOIN cities ci ON ci.id = v.city_id
		WHERE a.name ILIKE $1 OR v.name ILIKE $1 OR ci.name ILIKE $1
		ORDER BY c.start_datetime DESC, c.id
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search concerts: %w", err)
	}
	defer rows.Close()

	results := make([]ConcertResult, 0)
	for rows.Next() {
		var r ConcertResult
		if err := rows.Scan(&r.ID, &r.Artist, &r.Venue, &r.City, &r.StartAt, &r.Status, &r.Img); err != nil {
			return nil, fmt.Errorf("scan concert: %w", err)
		}
		r.Href = "/conciertos/" + strconv.FormatInt(r.ID, 10)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate concerts: %w", err)
	}

	return results, nil
}

func (s *PGStore) fetchTours(ctx context.Context, like string, limit int) ([]TourResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, a.name, t.status
		FROM tours t
		JOIN artists a ON a.id = t.artist_id
		WHERE t.name ILIKE $1 OR a.name ILIKE $1
		ORDER BY t.start_date DESC NULLS LAST, t.id
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search tours: %w", err)
	}
	defer rows.Close()

	results := make([]TourResult, 0)
	for rows.Next() {
		var r TourResult
		if err := rows.Scan(&r.ID, &r.Name, &r.Artist, &r.Status); err != nil {
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		r.Href = "/conciertos/tours/" + strconv.FormatInt(r.ID, 10)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tours: %w", err)
	}

	return results, nil
}

func (s *PGStore) fetchSongs(ctx context.Context, like string, limit int) ([]SongResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, COALESCE(a.name, s.original_artist_name), COALESCE(s.release_year, 0)
		FROM songs s
		LEFT JOIN artists a ON a.id = s.original_artist_id
		WHERE s.title ILIKE $1 OR a.name ILIKE $1 OR s.original_artist_name ILIKE $1
		ORDER BY s.title ASC
		LIMIT $2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	results := make([]SongResult, 0)
	for rows.Next() {
		var r SongResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &r.Year); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		r.Href = "/conciertos/songs/" + strconv.FormatInt(r.ID, 10)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return results, nil
}
