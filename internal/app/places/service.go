package places

import (
	"context"

	"concertline/internal/models"
	"concertline/internal/validate"
)

// Store defines persistence operations for places (cities & venues)
type Store interface {
	// City operations
	CreateCity(ctx context.Context, city *models.City) (*models.City, error)
	GetCity(ctx context.Context, id int64) (*models.City, error)
	ListCities(ctx context.Context) ([]*models.City, error)

	// Venue operations
	CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	ListVenues(ctx context.Context, cityID *int64) ([]*models.Venue, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	UpdateVenue(ctx context.Context, id int64, venue *models.Venue) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error
}

// Service coordinates place-related operations (cities and venues)
type Service interface {
	CreateCity(ctx context.Context, city *models.City) (*models.City, error)
	GetCity(ctx context.Context, id int64) (*models.City, error)
	ListCities(ctx context.Context) ([]*models.City, error)

	CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	ListVenues(ctx context.Context, cityID *int64) ([]*models.Venue, error)
	GetVenue(ctx context.Context, id int64) (*models.Venue, error)
	UpdateVenue(ctx context.Context, id int64, venue *models.Venue) (*models.Venue, error)
	DeleteVenue(ctx context.Context, id int64) error
}

type service struct {
	store Store
}

// New constructs a places Service backed by the provided Store
func New(store Store) Service {
	return &service{store: store}
}

// City implementations
func (s *service) CreateCity(ctx context.Context, city *models.City) (*models.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.City(city); err != nil {
		return nil, err
	}
	return s.store.CreateCity(ctx, city)
}

func (s *service) GetCity(ctx context.Context, id int64) (*models.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetCity(ctx, id)
}

func (s *service) ListCities(ctx context.Context) ([]*models.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListCities(ctx)
}

// Venue implementations
func (s *service) CreateVenue(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Venue(venue); err != nil {
		return nil, err
	}
	return s.store.CreateVenue(ctx, venue)
}

func (s *service) ListVenues(ctx context.Context, cityID *int64) ([]*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListVenues(ctx, cityID)
}

func (s *service) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetVenue(ctx, id)
}

func (s *service) UpdateVenue(ctx context.Context, id int64, venue *models.Venue) (*models.Venue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Venue(venue); err != nil {
		return nil, err
	}
	return s.store.UpdateVenue(ctx, id, venue)
}

func (s *service) DeleteVenue(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteVenue(ctx, id)
}
