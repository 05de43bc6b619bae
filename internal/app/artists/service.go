package artists

import (
	"context"

	"concertline/internal/models"
	"concertline/internal/validate"
)

// Store describes the persistence operations required by the artist service.
type Store interface {
	CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	ListArtists(ctx context.Context, filter models.ArtistFilter) ([]*models.Artist, error)
	DeleteArtist(ctx context.Context, id int64) error
	ArtistRatings(ctx context.Context) ([]models.ArtistRating, error)
}

// Service provides artist-centric operations.
type Service interface {
	Create(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	Update(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	List(ctx context.Context, filter models.ArtistFilter) ([]*models.Artist, error)
	Delete(ctx context.Context, id int64) error
	Ratings(ctx context.Context) ([]models.ArtistRating, error)
}

type service struct {
	store Store
}

// New constructs an artist Service backed by the supplied store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, artist *models.Artist) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Artist(artist); err != nil {
		return nil, err
	}
	return s.store.CreateArtist(ctx, artist)
}

func (s *service) Update(ctx context.Context, id int64, artist *models.Artist) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Artist(artist); err != nil {
		return nil, err
	}
	return s.store.UpdateArtist(ctx, id, artist)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetArtist(ctx, id)
}

func (s *service) List(ctx context.Context, filter models.ArtistFilter) ([]*models.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteArtist(ctx, id)
}

// Ratings lists artists by their average concert rating, best first.
func (s *service) Ratings(ctx context.Context) ([]models.ArtistRating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ratings, err := s.store.ArtistRatings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ratings {
		ratings[i].Average = models.RoundAverage(ratings[i].Average)
	}
	return ratings, nil
}
