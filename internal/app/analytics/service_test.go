package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/models"
)

type fakeStore struct {
	report   *models.AnalyticsReport
	gotNow   time.Time
	gotLimit int
}

func (f *fakeStore) Analytics(context.Context) (*models.AnalyticsReport, error) {
	return f.report, nil
}

func (f *fakeStore) Dashboard(_ context.Context, now time.Time, upcoming int) (*models.Dashboard, error) {
	f.gotNow, f.gotLimit = now, upcoming
	return &models.Dashboard{Artists: 1}, nil
}

func TestReportRoundsAverages(t *testing.T) {
	f := &fakeStore{report: &models.AnalyticsReport{
		ArtistsByRating: []models.MetricRow{{ID: 1, Label: "A", Value: 8.3333, Count: 3}},
		ArtistsByIncome: []models.MetricRow{{ID: 1, Label: "A", Value: 1234.567}},
	}}

	report, err := New(f, nil).Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8.33, report.ArtistsByRating[0].Value)
	assert.Equal(t, 1234.567, report.ArtistsByIncome[0].Value)
}

func TestDashboardAsksForFiveUpcoming(t *testing.T) {
	now := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	f := &fakeStore{}

	_, err := New(f, func() time.Time { return now }).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now, f.gotNow)
	assert.Equal(t, UpcomingOnDashboard, f.gotLimit)
}
