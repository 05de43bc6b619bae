package songs

import (
	"context"
	"errors"
	"strings"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

// Store describes the persistence operations required by the song service.
type Store interface {
	CreateSong(ctx context.Context, song *models.Song) (*models.Song, error)
	GetSong(ctx context.Context, id int64) (*models.Song, error)
	ListSongs(ctx context.Context, query string) ([]*models.Song, error)
	FindArtistByName(ctx context.Context, name string) (*models.Artist, error)
}

// Service exposes song catalogue workflows.
type Service interface {
	Create(ctx context.Context, song *models.Song) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	List(ctx context.Context, query string) ([]*models.Song, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// Create validates and stores a song. A free-text original artist that
// matches a catalogue artist (ignoring case) is linked to it; otherwise the
// text is kept as given.
func (s *service) Create(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Song(song); err != nil {
		return nil, err
	}

	song.OriginalArtistName = strings.TrimSpace(song.OriginalArtistName)
	if song.OriginalArtistID == nil && song.OriginalArtistName != "" {
		artist, err := s.store.FindArtistByName(ctx, song.OriginalArtistName)
		switch {
		case err == nil:
			song.OriginalArtistID = &artist.ID
			song.OriginalArtistName = artist.Name
		case !errors.Is(err, store.ErrArtistNotFound):
			return nil, err
		}
	}

	return s.store.CreateSong(ctx, song)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetSong(ctx, id)
}

func (s *service) List(ctx context.Context, query string) ([]*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx, query)
}
