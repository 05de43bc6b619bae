package analytics

import (
	"context"
	"time"

	"concertline/internal/models"
)

// UpcomingOnDashboard is how many scheduled concerts the dashboard lists.
const UpcomingOnDashboard = 5

// Store exposes the aggregate queries.
type Store interface {
	Analytics(ctx context.Context) (*models.AnalyticsReport, error)
	Dashboard(ctx context.Context, now time.Time, upcoming int) (*models.Dashboard, error)
}

// Service builds the analytics page and the dashboard.
type Service interface {
	Report(ctx context.Context) (*models.AnalyticsReport, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

type service struct {
	store Store
	now   func() time.Time
}

// New constructs an analytics Service. A nil clock means time.Now.
func New(store Store, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{store: store, now: now}
}

func (s *service) Report(ctx context.Context) (*models.AnalyticsReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report, err := s.store.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	for i := range report.ArtistsByRating {
		report.ArtistsByRating[i].Value = models.RoundAverage(report.ArtistsByRating[i].Value)
	}
	return report, nil
}

func (s *service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Dashboard(ctx, s.now(), UpcomingOnDashboard)
}
