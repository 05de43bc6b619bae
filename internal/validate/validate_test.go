package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concertline/internal/models"
)

func datePtr(y int, m time.Month, d int) *models.Date {
	v := models.NewDate(y, m, d)
	return &v
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestTourStatusMustMatchDates(t *testing.T) {
	today := models.NewDate(2021, time.June, 1)
	base := models.Tour{
		ArtistID:  1,
		Name:      "World Tour",
		StartDate: datePtr(2020, time.January, 1),
		EndDate:   datePtr(2020, time.December, 31),
	}

	tests := []struct {
		name      string
		mutate    func(*models.Tour)
		wantField string
	}{
		{
			name:      "past tour marked ongoing",
			mutate:    func(tr *models.Tour) { tr.Status = models.TourOngoing },
			wantField: "status",
		},
		{
			name:   "past tour marked finished",
			mutate: func(tr *models.Tour) { tr.Status = models.TourFinished },
		},
		{
			name: "future tour must be planned",
			mutate: func(tr *models.Tour) {
				tr.StartDate = datePtr(2021, time.July, 1)
				tr.EndDate = datePtr(2021, time.August, 1)
				tr.Status = models.TourOngoing
			},
			wantField: "status",
		},
		{
			name: "running tour is ongoing",
			mutate: func(tr *models.Tour) {
				tr.StartDate = datePtr(2021, time.May, 1)
				tr.EndDate = datePtr(2021, time.June, 1)
				tr.Status = models.TourOngoing
			},
		},
		{
			name: "end before start",
			mutate: func(tr *models.Tour) {
				tr.EndDate = datePtr(2019, time.December, 31)
				tr.Status = models.TourFinished
			},
			wantField: "end_date",
		},
		{
			name: "only future start requires planned",
			mutate: func(tr *models.Tour) {
				tr.StartDate = datePtr(2022, time.January, 1)
				tr.EndDate = nil
				tr.Status = models.TourFinished
			},
			wantField: "status",
		},
		{
			name: "only past end requires finished",
			mutate: func(tr *models.Tour) {
				tr.StartDate = nil
				tr.Status = models.TourPlanned
			},
			wantField: "status",
		},
		{
			name: "no dates accepts any status",
			mutate: func(tr *models.Tour) {
				tr.StartDate, tr.EndDate = nil, nil
				tr.Status = models.TourOngoing
			},
		},
		{
			name: "negative income",
			mutate: func(tr *models.Tour) {
				tr.Status = models.TourFinished
				tr.TotalIncome = floatPtr(-1)
			},
			wantField: "total_income",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tour := base
			tc.mutate(&tour)
			err := Tour(tour, today)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			fe, ok := AsFieldErrors(err)
			require.True(t, ok, "expected FieldErrors, got %v", err)
			assert.Contains(t, fe, tc.wantField)
		})
	}
}

func TestTourErrorNamesExpectedStatus(t *testing.T) {
	err := Tour(models.Tour{
		ArtistID:  1,
		Name:      "Tour",
		StartDate: datePtr(2020, time.January, 1),
		EndDate:   datePtr(2020, time.December, 31),
		Status:    models.TourOngoing,
	}, models.NewDate(2021, time.June, 1))

	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe["status"], `"finished"`)
}

func TestConcertCoherence(t *testing.T) {
	now := time.Date(2024, time.March, 10, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		concert   models.Concert
		wantField string
	}{
		{
			name: "completed in the future",
			concert: models.Concert{
				ArtistID: 1, VenueID: 1,
				StartDateTime: now.Add(time.Hour),
				Status:        models.ConcertCompleted,
			},
			wantField: "status",
		},
		{
			name: "income on scheduled concert",
			concert: models.Concert{
				ArtistID: 1, VenueID: 1,
				StartDateTime: now.Add(-time.Hour),
				Status:        models.ConcertScheduled,
				TotalIncome:   floatPtr(500),
			},
			wantField: "total_income",
		},
		{
			name: "income on completed past concert",
			concert: models.Concert{
				ArtistID: 1, VenueID: 1,
				StartDateTime: now.Add(-time.Hour),
				Status:        models.ConcertCompleted,
				TotalIncome:   floatPtr(500),
			},
		},
		{
			name: "scheduled future concert",
			concert: models.Concert{
				ArtistID: 1, VenueID: 1,
				StartDateTime: now.Add(48 * time.Hour),
				Status:        models.ConcertScheduled,
			},
		},
		{
			name: "bad image url",
			concert: models.Concert{
				ArtistID: 1, VenueID: 1,
				StartDateTime: now.Add(48 * time.Hour),
				Status:        models.ConcertScheduled,
				Img:           "not a url",
			},
			wantField: "img",
		},
		{
			name:      "missing venue",
			concert:   models.Concert{ArtistID: 1, StartDateTime: now, Status: models.ConcertCanceled},
			wantField: "venue",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Concert(tc.concert, now)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			fe, ok := AsFieldErrors(err)
			require.True(t, ok, "expected FieldErrors, got %v", err)
			assert.Contains(t, fe, tc.wantField)
		})
	}
}

func TestSetlistConflictsDistinguishesFields(t *testing.T) {
	existing := []models.SetlistEntry{
		{ID: 1, ConcertID: 7, SongID: 100, Position: 1},
		{ID: 2, ConcertID: 7, SongID: 200, Position: 2},
	}

	fe := SetlistConflicts(models.SetlistEntry{ConcertID: 7, SongID: 300, Position: 2}, existing)
	assert.Equal(t, FieldErrors{"position": msgDuplicatePosition}, fe)

	fe = SetlistConflicts(models.SetlistEntry{ConcertID: 7, SongID: 100, Position: 3}, existing)
	assert.Equal(t, FieldErrors{"song": msgDuplicateSong}, fe)

	fe = SetlistConflicts(models.SetlistEntry{ConcertID: 7, SongID: 100, Position: 2}, existing)
	assert.Len(t, fe, 2)

	// Editing entry 2 in place does not conflict with itself.
	fe = SetlistConflicts(models.SetlistEntry{ID: 2, ConcertID: 7, SongID: 200, Position: 2}, existing)
	assert.Empty(t, fe)
}

func TestSetlistEntryRequiresPositivePosition(t *testing.T) {
	err := SetlistEntry(models.SetlistEntry{ConcertID: 1, SongID: 1, Position: 0}, nil)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "position")
}

func TestNextPosition(t *testing.T) {
	assert.Equal(t, 1, NextPosition(nil))
	assert.Equal(t, 6, NextPosition([]models.SetlistEntry{{Position: 2}, {Position: 5}, {Position: 3}}))
}

func TestArtistRules(t *testing.T) {
	a := models.Artist{Name: " Soda Stereo ", Country: "argentina", Genre: "rock", DebutYear: intPtr(1982)}
	require.NoError(t, Artist(&a))
	assert.Equal(t, "Soda Stereo", a.Name)
	assert.Equal(t, "Argentina", a.Country)
	assert.Equal(t, "Rock", a.Genre)

	bad := models.Artist{Name: "X", Country: "Spain", DebutYear: intPtr(1949)}
	fe, ok := AsFieldErrors(Artist(&bad))
	require.True(t, ok)
	assert.Contains(t, fe, "debut_year")
}

func TestRatingBounds(t *testing.T) {
	assert.NoError(t, Rating(1))
	assert.NoError(t, Rating(10))
	assert.Error(t, Rating(0))
	assert.Error(t, Rating(11))
}

func TestRegistration(t *testing.T) {
	r := models.Registration{
		Username:  "tester",
		Email:     "Tester@Example.com",
		Password:  "complexpassword123",
		Password2: "complexpassword123",
		FullName:  "Test User",
		City:      models.CityName{Name: "Madrid"},
	}
	require.NoError(t, Registration(&r))
	assert.Equal(t, "tester@example.com", r.Email)

	r.Password2 = "other"
	r.City = nil
	fe, ok := AsFieldErrors(Registration(&r))
	require.True(t, ok)
	assert.Contains(t, fe, "password2")
	assert.Contains(t, fe, "city")
}

func TestFanRules(t *testing.T) {
	f := models.Fan{FullName: "  Ana Paz ", Email: " Ana@Example.com "}
	require.NoError(t, Fan(&f))
	assert.Equal(t, "Ana Paz", f.FullName)
	assert.Equal(t, "ana@example.com", f.Email)

	badCity := int64(0)
	fe, ok := AsFieldErrors(Fan(&models.Fan{Email: "not-an-email", CityID: &badCity}))
	require.True(t, ok)
	assert.Contains(t, fe, "full_name")
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "city")
}

func TestFieldErrorsErrIsNilWhenEmpty(t *testing.T) {
	assert.Nil(t, FieldErrors{}.Err())
	assert.EqualError(t, FieldErrors{"b": "two", "a": "one"}, "validation failed: a: one; b: two")
}
