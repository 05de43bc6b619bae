package concerts

import (
	"context"
	"time"

	"concertline/internal/models"
	"concertline/internal/validate"
)

// Store defines persistence operations for tours and concerts
type Store interface {
	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	UpdateTour(ctx context.Context, id int64, tour *models.Tour) (*models.Tour, error)
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	ListTours(ctx context.Context, filter models.TourFilter) ([]*models.Tour, error)
	DeleteTour(ctx context.Context, id int64) error

	CreateConcert(ctx context.Context, concert *models.Concert) (*models.Concert, error)
	UpdateConcert(ctx context.Context, id int64, concert *models.Concert) (*models.Concert, error)
	GetConcert(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	ListConcerts(ctx context.Context, filter models.ConcertFilter) ([]*models.ConcertWithDetails, error)
	ListConcertsByTour(ctx context.Context, tourID int64) ([]*models.ConcertWithDetails, error)
	DeleteConcert(ctx context.Context, id int64) error
}

// Service coordinates tour and concert operations
type Service interface {
	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	UpdateTour(ctx context.Context, id int64, tour *models.Tour) (*models.Tour, error)
	GetTour(ctx context.Context, id int64) (*models.Tour, error)
	ListTours(ctx context.Context, filter models.TourFilter) ([]*models.Tour, error)
	TourConcerts(ctx context.Context, tourID int64) ([]*models.ConcertWithDetails, error)
	DeleteTour(ctx context.Context, id int64) error

	Create(ctx context.Context, concert *models.Concert) (*models.Concert, error)
	Update(ctx context.Context, id int64, concert *models.Concert) (*models.Concert, error)
	Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error)
	List(ctx context.Context, filter models.ConcertFilter) ([]*models.ConcertWithDetails, error)
	Delete(ctx context.Context, id int64) error
}

// Option customises the service.
type Option func(*service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the zone "today" is computed in for tour dates.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type service struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

// New constructs a concerts Service
func New(store Store, opts ...Option) Service {
	s := &service{store: store, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) today() models.Date {
	return models.DateOf(s.now().In(s.loc))
}

func (s *service) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tour.Status == "" {
		tour.Status = models.TourPlanned
	}
	if err := validate.Tour(*tour, s.today()); err != nil {
		return nil, err
	}
	return s.store.CreateTour(ctx, tour)
}

// UpdateTour keeps the stored status when the edit leaves it blank.
func (s *service) UpdateTour(ctx context.Context, id int64, tour *models.Tour) (*models.Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tour.Status == "" {
		current, err := s.store.GetTour(ctx, id)
		if err != nil {
			return nil, err
		}
		tour.Status = current.Status
	}
	if err := validate.Tour(*tour, s.today()); err != nil {
		return nil, err
	}
	return s.store.UpdateTour(ctx, id, tour)
}

func (s *service) GetTour(ctx context.Context, id int64) (*models.Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetTour(ctx, id)
}

func (s *service) ListTours(ctx context.Context, filter models.TourFilter) ([]*models.Tour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListTours(ctx, filter)
}

func (s *service) TourConcerts(ctx context.Context, tourID int64) ([]*models.ConcertWithDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTour(ctx, tourID); err != nil {
		return nil, err
	}
	return s.store.ListConcertsByTour(ctx, tourID)
}

func (s *service) DeleteTour(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteTour(ctx, id)
}

func (s *service) Create(ctx context.Context, concert *models.Concert) (*models.Concert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if concert.Status == "" {
		concert.Status = models.ConcertScheduled
	}
	if err := validate.Concert(*concert, s.now()); err != nil {
		return nil, err
	}
	return s.store.CreateConcert(ctx, concert)
}

func (s *service) Update(ctx context.Context, id int64, concert *models.Concert) (*models.Concert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if concert.Status == "" {
		current, err := s.store.GetConcert(ctx, id)
		if err != nil {
			return nil, err
		}
		concert.Status = current.Status
	}
	if err := validate.Concert(*concert, s.now()); err != nil {
		return nil, err
	}
	return s.store.UpdateConcert(ctx, id, concert)
}

func (s *service) Get(ctx context.Context, id int64) (*models.ConcertWithDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.GetConcert(ctx, id)
}

func (s *service) List(ctx context.Context, filter models.ConcertFilter) ([]*models.ConcertWithDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListConcerts(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteConcert(ctx, id)
}
