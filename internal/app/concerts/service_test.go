package concerts

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/models"
	"concertline/internal/store"
	"concertline/internal/validate"
)

type fakeStore struct {
	Store
	tours    []*models.Tour
	concerts []*models.Concert
}

func (f *fakeStore) CreateTour(_ context.Context, tour *models.Tour) (*models.Tour, error) {
	tour.ID = int64(len(f.tours) + 1)
	f.tours = append(f.tours, tour)
	return tour, nil
}

func (f *fakeStore) CreateConcert(_ context.Context, concert *models.Concert) (*models.Concert, error) {
	concert.ID = int64(len(f.concerts) + 1)
	f.concerts = append(f.concerts, concert)
	return concert, nil
}

func (f *fakeStore) GetTour(_ context.Context, id int64) (*models.Tour, error) {
	for _, tour := range f.tours {
		if tour.ID == id {
			copied := *tour
			return &copied, nil
		}
	}
	return nil, store.ErrTourNotFound
}

func (f *fakeStore) UpdateTour(_ context.Context, id int64, tour *models.Tour) (*models.Tour, error) {
	tour.ID = id
	f.tours[id-1] = tour
	return tour, nil
}

func (f *fakeStore) GetConcert(_ context.Context, id int64) (*models.ConcertWithDetails, error) {
	for _, concert := range f.concerts {
		if concert.ID == id {
			return &models.ConcertWithDetails{Concert: *concert}, nil
		}
	}
	return nil, store.ErrConcertNotFound
}

func (f *fakeStore) UpdateConcert(_ context.Context, id int64, concert *models.Concert) (*models.Concert, error) {
	concert.ID = id
	f.concerts[id-1] = concert
	return concert, nil
}

func date(y int, m time.Month, d int) *models.Date {
	v := models.NewDate(y, m, d)
	return &v
}

func TestCreateTourUsesLocalToday(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 23:30 UTC on 31 Dec is already 1 Jan in Madrid.
	clock := func() time.Time { return time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC) }
	f := &fakeStore{}
	svc := New(f, WithClock(clock), WithLocation(madrid))

	_, err = svc.CreateTour(context.Background(), &models.Tour{
		ArtistID: 1, Name: "New Year", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 3), Status: models.TourOngoing,
	})
	require.NoError(t, err)

	_, err = New(f, WithClock(clock)).CreateTour(context.Background(), &models.Tour{
		ArtistID: 1, Name: "New Year", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 3), Status: models.TourOngoing,
	})
	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok, "expected field errors, got %v", err)
	assert.Contains(t, fe["status"], `"planned"`)
}

func TestCreateTourDefaultsToPlanned(t *testing.T) {
	f := &fakeStore{}
	svc := New(f, WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }))

	tour, err := svc.CreateTour(context.Background(), &models.Tour{ArtistID: 1, Name: "Future", StartDate: date(2025, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, models.TourPlanned, tour.Status)
}

func TestCreateConcertRejectsFutureCompleted(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeStore{}
	svc := New(f, WithClock(func() time.Time { return now }))

	_, err := svc.Create(context.Background(), &models.Concert{
		ArtistID: 1, VenueID: 1, StartDateTime: now.Add(time.Hour), Status: models.ConcertCompleted,
	})
	fe, ok := validate.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("status"))
	assert.Empty(t, f.concerts)

	concert, err := svc.Create(context.Background(), &models.Concert{
		ArtistID: 1, VenueID: 1, StartDateTime: now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConcertScheduled, concert.Status)
}

func TestUpdateKeepsStoredStatusWhenBlank(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeStore{
		tours: []*models.Tour{{
			ID: 1, ArtistID: 1, Name: "Gira", StartDate: date(2023, 1, 1), EndDate: date(2023, 3, 1), Status: models.TourFinished,
		}},
		concerts: []*models.Concert{{
			ID: 1, ArtistID: 1, VenueID: 1, StartDateTime: now.AddDate(0, -2, 0), Status: models.ConcertCompleted,
		}},
	}
	svc := New(f, WithClock(func() time.Time { return now }))

	tour, err := svc.UpdateTour(context.Background(), 1, &models.Tour{
		ArtistID: 1, Name: "Gira (remaster)", StartDate: date(2023, 1, 1), EndDate: date(2023, 3, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TourFinished, tour.Status)

	income := 900.0
	concert, err := svc.Update(context.Background(), 1, &models.Concert{
		ArtistID: 1, VenueID: 1, StartDateTime: now.AddDate(0, -2, 0), TotalIncome: &income,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConcertCompleted, concert.Status)

	_, err = svc.Update(context.Background(), 7, &models.Concert{ArtistID: 1, VenueID: 1, StartDateTime: now})
	assert.ErrorIs(t, err, store.ErrConcertNotFound)
}

func TestCanceledContextShortCircuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeStore{}).List(ctx, models.ConcertFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
